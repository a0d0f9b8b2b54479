package model

import "time"

// Interval is one generation sample, normally one hour.
// Time is zero when the source only provides an index.
type Interval struct {
	Time time.Time `json:"time"`

	// GenerationKWh is the PV energy produced during the interval.
	GenerationKWh float64 `json:"generation_kwh"`

	// Source-specific context, zero when unknown.
	IrradianceKWhM2 float64 `json:"irradiance_kwh_m2,omitempty"`
	TempC           float64 `json:"temp_c,omitempty"`
}

// IntervalsFromValues wraps bare generation values with implicit hourly
// timestamps starting at start. A zero start leaves every Time zero.
func IntervalsFromValues(values []float64, start time.Time) []Interval {
	out := make([]Interval, len(values))
	for i, v := range values {
		out[i] = Interval{GenerationKWh: v}
		if !start.IsZero() {
			out[i].Time = start.Add(time.Duration(i) * time.Hour)
		}
	}
	return out
}
