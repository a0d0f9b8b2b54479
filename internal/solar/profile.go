package solar

import (
	"math"

	"solar-sim/internal/model"
)

// HourlyProfile is the share of a day's irradiance that falls in each hour.
// Its entries sum to 1.
type HourlyProfile [24]float64

// peakHour shifts the curve for panels that see the morning or evening sun.
func peakHour(o model.Orientation) float64 {
	switch o {
	case model.OrientationEast:
		return 10
	case model.OrientationWest:
		return 14
	default:
		return 12
	}
}

// ProfileFor returns a bell-shaped daylight curve for an orientation. Hours
// contributing less than 1% of the peak are zeroed.
func ProfileFor(o model.Orientation) HourlyProfile {
	var p HourlyProfile
	peak := peakHour(o)
	var sum float64
	for h := 0; h < 24; h++ {
		dist := float64(h) - peak
		f := math.Exp(-dist * dist / 18.0)
		if f < 0.01 {
			f = 0
		}
		p[h] = f
		sum += f
	}
	for h := range p {
		p[h] /= sum
	}
	return p
}
