package simulation

import (
	"time"

	"solar-sim/internal/model"
)

// TraceRow is one row of per-interval output. All energies are kWh.
type TraceRow struct {
	Index int       `json:"index"`
	Time  time.Time `json:"time"`

	GenerationKWh float64 `json:"generation_kwh"`
	LoadKWh       float64 `json:"load_kwh"`
	NetBalanceKWh float64 `json:"net_balance_kwh"`

	Action        model.Action `json:"action"`
	ChargedKWh    float64      `json:"charged_kwh"`
	DischargedKWh float64      `json:"discharged_kwh"`

	BatteryStateKWh float64 `json:"battery_state_kwh"`

	CumStoredKWh     float64 `json:"cum_stored_kwh"`
	CumDischargedKWh float64 `json:"cum_discharged_kwh"`
}

// Result is the output of one run. Trace is index-aligned with the
// generation series that was simulated.
type Result struct {
	Trace []TraceRow `json:"trace"`

	TotalGeneratedKWh    float64 `json:"total_generated_kwh"`
	TotalLoadKWh         float64 `json:"total_load_kwh"`
	TotalStoredKWh       float64 `json:"total_stored_kwh"`
	TotalDischargedKWh   float64 `json:"total_discharged_kwh"`
	FinalBatteryStateKWh float64 `json:"final_battery_state_kwh"`
	CapacityKWh          float64 `json:"capacity_kwh"`
	Efficiency           float64 `json:"efficiency"`

	// LoadFallback is set when the supplied load did not match the
	// generation length and the base load was used instead.
	LoadFallback bool `json:"load_fallback"`
}

// Window returns the first and last timestamps of the trace. Both are zero
// when the series was index-only.
func (r *Result) Window() (start, end time.Time) {
	if r == nil || len(r.Trace) == 0 {
		return time.Time{}, time.Time{}
	}
	return r.Trace[0].Time, r.Trace[len(r.Trace)-1].Time
}
