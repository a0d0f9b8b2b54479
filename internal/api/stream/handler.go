// Package stream serves simulations over a WebSocket. Each message is run to
// completion and answered with a single result or error message.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"solar-sim/internal/api/handlers"
	"solar-sim/internal/api/models"
	"solar-sim/internal/log"
	"solar-sim/internal/model"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	// maxMessageSize bounds one request, generation and load included.
	maxMessageSize = 4 << 20
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Runner executes simulation requests.
type Runner interface {
	Run(ctx context.Context, req models.SimulateRequest) (*models.SimulateResponse, error)
	RunCompare(ctx context.Context, req models.SimulateRequest) (*models.CompareResponse, error)
}

// Handler upgrades connections and answers simulate/compare messages.
type Handler struct {
	runner Runner
}

func NewHandler(runner Runner) *Handler {
	return &Handler{runner: runner}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Ctx(r.Context()).WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(maxMessageSize)

	// the request context ends when ServeHTTP returns, which is when the
	// read loop exits
	h.readPump(r.Context(), conn)
}

func (h *Handler) readPump(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Ctx(ctx).WarnContext(ctx, "websocket read error", "error", err)
			}
			return
		}

		reply := h.handleMessage(ctx, msg)
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, reply); err != nil {
			log.Ctx(ctx).WarnContext(ctx, "websocket write error", "error", err)
			return
		}
	}
}

func (h *Handler) handleMessage(ctx context.Context, msg []byte) []byte {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return errorReply("", fmt.Errorf("%w: invalid message: %v", model.ErrInvalidInput, err))
	}

	var req models.SimulateRequest
	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return errorReply(env.ID, fmt.Errorf("%w: invalid %s payload: %v", model.ErrInvalidInput, env.Type, err))
		}
	}

	var (
		result interface{}
		err    error
	)
	switch env.Type {
	case TypeSimulate:
		result, err = h.runner.Run(ctx, req)
	case TypeCompare:
		result, err = h.runner.RunCompare(ctx, req)
	default:
		err = fmt.Errorf("%w: unknown message type %q", model.ErrInvalidInput, env.Type)
	}
	if err != nil {
		log.Ctx(ctx).InfoContext(ctx, "websocket request failed", "type", env.Type, "error", err)
		return errorReply(env.ID, err)
	}

	reply, err := NewEnvelope(TypeResult, env.ID, result)
	if err != nil {
		return errorReply(env.ID, err)
	}
	return reply
}

func errorReply(id string, err error) []byte {
	_, detail := handlers.Classify(err)
	reply, mErr := NewEnvelope(TypeError, id, detail)
	if mErr != nil {
		return []byte(`{"type":"error","payload":{"code":"INTERNAL_ERROR","message":"An unexpected error occurred"}}`)
	}
	return reply
}
