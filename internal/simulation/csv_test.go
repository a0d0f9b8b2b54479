package simulation

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"solar-sim/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTraceCSV(t *testing.T) {
	start := time.Date(2016, 1, 1, 12, 10, 0, 0, time.UTC)
	res, err := New(Options{}).Run(model.IntervalsFromValues([]float64{8, 2, 0}, start), []float64{3, 3, 3}, battery(t, 10, 0.9))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTraceCSV(&buf, res.Trace))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, traceHeader, records[0])
	assert.Equal(t, "0", records[1][0])
	assert.Equal(t, "2016-01-01T12:10:00Z", records[1][1])
	assert.Equal(t, "8.000000", records[1][2])
	assert.Equal(t, "CHARGING", records[1][5])
	assert.Equal(t, "0.500000", records[3][8])
}

func TestWriteTraceCSV_IndexOnlyTimes(t *testing.T) {
	res, err := New(Options{BaseLoadKWh: 1}).Run(model.IntervalsFromValues([]float64{1}, time.Time{}), nil, battery(t, 1, 1))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTraceCSV(&buf, res.Trace))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "", records[1][1])
	assert.Equal(t, "IDLE", records[1][5])
}

func TestWriteTraceCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.csv")
	res, err := New(Options{BaseLoadKWh: 1}).Run(model.IntervalsFromValues([]float64{2, 0}, time.Time{}), nil, battery(t, 1, 1))
	require.NoError(t, err)
	require.NoError(t, WriteTraceCSVFile(path, res.Trace))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "index,time,generation_kwh")
}
