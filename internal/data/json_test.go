package data

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"solar-sim/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGenerationJSONIntervals(t *testing.T) {
	raw := []byte(`[{"time":"2024-06-01T10:00:00Z","generation_kwh":1.5},{"time":"2024-06-01T11:00:00Z","generation_kwh":2}]`)
	got, err := ParseGenerationJSON(raw, testSite())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC), got[1].Time)
	assert.Equal(t, 2.0, got[1].GenerationKWh)
}

func TestParseGenerationJSONPVGIS(t *testing.T) {
	got, err := ParseGenerationJSON([]byte(pvgisBody), testSite())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.InDelta(t, 1.8, got[2].GenerationKWh, 1e-9)
}

func TestParseGenerationJSONEmpty(t *testing.T) {
	_, err := ParseGenerationJSON([]byte(`{"outputs":{"hourly":[]}}`), testSite())
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = ParseGenerationJSON([]byte(`not json`), testSite())
	assert.Error(t, err)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen.json")
	require.NoError(t, os.WriteFile(path, []byte(pvgisBody), 0o644))

	got, err := FileSource{Path: path}.Generation(context.Background(), Request{Site: testSite(), Hours: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = FileSource{Path: path + ".missing"}.Generation(context.Background(), Request{Site: testSite()})
	assert.Error(t, err)
}
