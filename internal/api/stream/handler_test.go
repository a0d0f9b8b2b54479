package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"solar-sim/internal/api/models"
	"solar-sim/internal/data"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	got models.SimulateRequest
	err error
}

func (f *fakeRunner) Run(_ context.Context, req models.SimulateRequest) (*models.SimulateResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.SimulateResponse{ID: "abc", Status: "completed", Source: "inline"}, nil
}

func (f *fakeRunner) RunCompare(_ context.Context, req models.SimulateRequest) (*models.CompareResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.CompareResponse{Source: "inline"}, nil
}

func dial(t *testing.T, runner Runner) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(NewHandler(runner))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, msg string) Envelope {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(msg)))
	var env Envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func errorCode(t *testing.T, env Envelope) string {
	t.Helper()
	require.Equal(t, TypeError, env.Type)
	var detail models.ErrorDetail
	require.NoError(t, json.Unmarshal(env.Payload, &detail))
	return detail.Code
}

func TestSimulateMessage(t *testing.T) {
	runner := &fakeRunner{}
	conn := dial(t, runner)

	env := roundTrip(t, conn, `{"type":"simulate","id":"7","payload":{"generation":[1,2],"options":{"include_trace":true}}}`)
	assert.Equal(t, TypeResult, env.Type)
	assert.Equal(t, "7", env.ID)
	assert.Equal(t, []float64{1, 2}, runner.got.Generation)
	assert.True(t, runner.got.Options.IncludeTrace)

	var resp models.SimulateResponse
	require.NoError(t, json.Unmarshal(env.Payload, &resp))
	assert.Equal(t, "abc", resp.ID)
}

func TestCompareMessage(t *testing.T) {
	conn := dial(t, &fakeRunner{})

	env := roundTrip(t, conn, `{"type":"compare"}`)
	assert.Equal(t, TypeResult, env.Type)
	var resp models.CompareResponse
	require.NoError(t, json.Unmarshal(env.Payload, &resp))
	assert.Equal(t, "inline", resp.Source)
}

func TestBadMessages(t *testing.T) {
	conn := dial(t, &fakeRunner{})

	assert.Equal(t, "INVALID_INPUT", errorCode(t, roundTrip(t, conn, `not json`)))
	assert.Equal(t, "INVALID_INPUT", errorCode(t, roundTrip(t, conn, `{"type":"pause"}`)))
	assert.Equal(t, "INVALID_INPUT", errorCode(t, roundTrip(t, conn, `{"type":"simulate","payload":{"generation":"x"}}`)))

	// the connection stays usable after errors
	env := roundTrip(t, conn, `{"type":"simulate"}`)
	assert.Equal(t, TypeResult, env.Type)
}

func TestRunnerErrors(t *testing.T) {
	conn := dial(t, &fakeRunner{err: &data.ProviderError{Provider: "pvgis", Code: data.CodeUpstream, Message: "boom"}})
	assert.Equal(t, data.CodeUpstream, errorCode(t, roundTrip(t, conn, `{"type":"simulate"}`)))

	conn = dial(t, &fakeRunner{err: errors.New("disk on fire")})
	assert.Equal(t, "INTERNAL_ERROR", errorCode(t, roundTrip(t, conn, `{"type":"compare"}`)))
}
