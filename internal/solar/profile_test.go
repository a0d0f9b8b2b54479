package solar

import (
	"testing"

	"solar-sim/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestProfileForSumsToOne(t *testing.T) {
	for _, o := range []model.Orientation{model.OrientationSouth, model.OrientationEast, model.OrientationWest, model.OrientationNorth} {
		p := ProfileFor(o)
		var sum float64
		for _, f := range p {
			assert.GreaterOrEqual(t, f, 0.0)
			sum += f
		}
		assert.InDelta(t, 1.0, sum, 1e-9, o)
	}
}

func TestProfileForPeaks(t *testing.T) {
	south := ProfileFor(model.OrientationSouth)
	east := ProfileFor(model.OrientationEast)
	west := ProfileFor(model.OrientationWest)

	assert.Zero(t, south[0], "no sun at midnight")
	assert.Zero(t, south[23])
	assert.Greater(t, south[12], south[11])
	assert.Greater(t, east[10], east[11])
	assert.Greater(t, west[14], west[13])
	assert.Greater(t, east[8], west[8])
}
