package data

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"solar-sim/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLoadCSV(t *testing.T) {
	got, err := ReadLoadCSV(strings.NewReader("load_kwh\n0.4\n 0.5\n\n1.25\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.4, 0.5, 1.25}, got)
}

func TestReadLoadCSVHeaderOnly(t *testing.T) {
	got, err := ReadLoadCSV(strings.NewReader("load_kwh\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadLoadCSVErrors(t *testing.T) {
	_, err := ReadLoadCSV(strings.NewReader("time,load\n1,2\n"))
	assert.True(t, errors.Is(err, ErrLoadColumns))

	_, err = ReadLoadCSV(strings.NewReader("load\nabc\n"))
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = ReadLoadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestReadLoadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "load.csv")
	require.NoError(t, os.WriteFile(path, []byte("kwh\n1\n2\n"), 0o644))

	got, err := ReadLoadCSVFile(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, got)

	_, err = ReadLoadCSVFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
