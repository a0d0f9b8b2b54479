package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"solar-sim/internal/config"
	"solar-sim/internal/data"
	"solar-sim/internal/metrics"
	"solar-sim/internal/model"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	got  data.Request
	out  []model.Interval
	err  error
	hits int
}

func (f *fakeSource) Generation(_ context.Context, req data.Request) ([]model.Interval, error) {
	f.hits++
	f.got = req
	return f.out, f.err
}

func syntheticConfig() *config.Config {
	cfg := config.Default()
	cfg.Simulation.Source = config.SourceSynthetic
	cfg.Simulation.Days = 2
	cfg.Simulation.Start = "2024-06-01"
	return cfg
}

func TestSimulateSynthetic(t *testing.T) {
	m := metrics.New()
	svc := New(nil, m)

	run, err := svc.Simulate(context.Background(), syntheticConfig(), Inputs{})
	require.NoError(t, err)
	assert.Equal(t, "synthetic", run.Source)
	require.Len(t, run.Result.Trace, 48)
	assert.True(t, run.Result.LoadFallback)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), run.Summary.Start)
	assert.Equal(t, 13.5, run.Summary.CapacityKWh)
	assert.InDelta(t, 48*0.5, run.Summary.LoadKWh, 1e-9)

	n, err := testutil.GatherAndCount(m.Registry(), "solarsim_simulations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSimulateInline(t *testing.T) {
	src := &fakeSource{}
	svc := New(map[config.Source]data.IrradianceSource{config.SourcePVGIS: src}, nil)

	cfg := config.Default()
	gen := model.IntervalsFromValues([]float64{3, 0}, time.Time{})
	run, err := svc.Simulate(context.Background(), cfg, Inputs{Generation: gen, Load: []float64{1, 1}})
	require.NoError(t, err)
	assert.Equal(t, SourceInline, run.Source)
	assert.Zero(t, src.hits)
	assert.False(t, run.Result.LoadFallback)
	assert.InDelta(t, 1.8, run.Summary.StoredKWh, 1e-9)
}

func TestSimulateUsesSiteAndHorizon(t *testing.T) {
	src := &fakeSource{out: model.IntervalsFromValues([]float64{1}, time.Time{})}
	svc := New(map[config.Source]data.IrradianceSource{config.SourcePVGIS: src}, nil)

	cfg := config.Default()
	cfg.Site.Orientation = "east"
	cfg.Simulation.Hours = 24
	_, err := svc.Simulate(context.Background(), cfg, Inputs{})
	require.NoError(t, err)
	assert.Equal(t, 1, src.hits)
	assert.Equal(t, model.OrientationEast, src.got.Site.Orientation)
	assert.Equal(t, 24, src.got.Hours)
}

func TestSimulateProviderError(t *testing.T) {
	m := metrics.New()
	perr := &data.ProviderError{Provider: "pvgis", Code: data.CodeRateLimitExceeded, Message: "slow down"}
	svc := New(map[config.Source]data.IrradianceSource{config.SourcePVGIS: &fakeSource{err: perr}}, m)

	_, err := svc.Simulate(context.Background(), config.Default(), Inputs{})
	var got *data.ProviderError
	require.True(t, errors.As(err, &got))
	n, err := testutil.GatherAndCount(m.Registry(), "solarsim_provider_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSimulateSourceUnavailable(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.Source = config.SourceOpenWeather
	_, err := New(nil, nil).Simulate(context.Background(), cfg, Inputs{})
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestSimulateEmptyGeneration(t *testing.T) {
	svc := New(map[config.Source]data.IrradianceSource{config.SourcePVGIS: &fakeSource{}}, nil)
	_, err := svc.Simulate(context.Background(), config.Default(), Inputs{})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "load.csv")
	wide := filepath.Join(dir, "wide.csv")
	require.NoError(t, os.WriteFile(good, []byte("kwh\n1\n2\n"), 0o644))
	require.NoError(t, os.WriteFile(wide, []byte("a,b\n1,2\n"), 0o644))

	svc := New(nil, nil)
	cfg := config.Default()

	cfg.Load.File = good
	load, err := svc.Load(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, load)

	cfg.Load.File = wide
	load, err = svc.Load(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, load)

	cfg.Load.File = filepath.Join(dir, "missing.csv")
	_, err = svc.Load(context.Background(), cfg)
	assert.Error(t, err)
}

func TestSimulateFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"generation_kwh":2},{"generation_kwh":0}]`), 0o644))

	cfg := config.Default()
	cfg.Simulation.Source = config.SourceFile
	cfg.Simulation.File = path
	run, err := New(nil, nil).Simulate(context.Background(), cfg, Inputs{})
	require.NoError(t, err)
	assert.Equal(t, "file", run.Source)
	assert.Len(t, run.Result.Trace, 2)
}

func TestCompareIncludesCustom(t *testing.T) {
	cfg := syntheticConfig()
	cfg.Battery = config.BatteryConfig{Preset: "custom", CapacityKWh: 2, Efficiency: 0.9}

	out, source, err := New(nil, nil).Compare(context.Background(), cfg, Inputs{})
	require.NoError(t, err)
	assert.Equal(t, "synthetic", source)
	require.Len(t, out, len(model.Presets())+1)

	var sawCustom bool
	for _, o := range out {
		if o.Preset.ID == model.PresetCustom {
			sawCustom = true
			assert.Equal(t, 2.0, o.Preset.CapacityKWh)
		}
	}
	assert.True(t, sawCustom)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].Summary.SelfSufficiencyPct, out[i].Summary.SelfSufficiencyPct)
	}
}

func TestEstimate(t *testing.T) {
	est, err := New(nil, nil).Estimate(config.Default())
	require.NoError(t, err)
	assert.InDelta(t, 5.76, est.DailyKWh, 1e-9)

	cfg := config.Default()
	cfg.Site.Orientation = "sideways"
	_, err = New(nil, nil).Estimate(cfg)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}
