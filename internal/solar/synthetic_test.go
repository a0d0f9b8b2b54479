package solar

import (
	"context"
	"testing"
	"time"

	"solar-sim/internal/data"
	"solar-sim/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func londonSite() model.Site {
	return model.Site{
		City:               "London",
		PanelAreaM2:        10,
		PanelEfficiencyPct: 18,
		Orientation:        model.OrientationSouth,
	}
}

func TestSyntheticSourceDailyTotal(t *testing.T) {
	var src data.IrradianceSource = SyntheticSource{}
	start := time.Date(2024, time.June, 10, 15, 30, 0, 0, time.UTC)

	got, err := src.Generation(context.Background(), data.Request{Site: londonSite(), Days: 2, Start: start})
	require.NoError(t, err)
	require.Len(t, got, 48)
	assert.Equal(t, time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC), got[0].Time)
	assert.Equal(t, time.Date(2024, time.June, 11, 23, 0, 0, 0, time.UTC), got[47].Time)

	var day float64
	for _, it := range got[:24] {
		day += it.GenerationKWh
	}
	// 3.2 kWh/m² × 1.15 (June) × 10 m² × 18%
	assert.InDelta(t, 3.2*1.15*10*0.18, day, 1e-9)
}

func TestSyntheticSourceOrientationAndSeason(t *testing.T) {
	start := time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)
	north := londonSite()
	north.Orientation = model.OrientationNorth

	got, err := SyntheticSource{}.Generation(context.Background(), data.Request{Site: north, Days: 1, Start: start})
	require.NoError(t, err)
	var day float64
	for _, it := range got {
		day += it.GenerationKWh
	}
	assert.InDelta(t, 3.2*0.5*0.4*10*0.18, day, 1e-9)
}

func TestSyntheticSourceDefaults(t *testing.T) {
	fixed := time.Date(2024, time.March, 3, 9, 0, 0, 0, time.UTC)
	src := SyntheticSource{Now: func() time.Time { return fixed }}

	got, err := src.Generation(context.Background(), data.Request{Site: londonSite()})
	require.NoError(t, err)
	assert.Len(t, got, DefaultDays*24)
	assert.Equal(t, time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC), got[0].Time)

	got, err = src.Generation(context.Background(), data.Request{Site: londonSite(), Hours: 5})
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestSyntheticSourceErrors(t *testing.T) {
	_, err := SyntheticSource{}.Generation(context.Background(), data.Request{Site: londonSite(), Days: 400})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = SyntheticSource{}.Generation(ctx, data.Request{Site: londonSite()})
	assert.ErrorIs(t, err, context.Canceled)
}
