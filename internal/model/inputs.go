package model

// SimulationInputs is the fully materialized input of one run. Sources
// (forecast clients, uploaded files, synthetic models) are resolved before
// this is built; nothing here is fetched lazily.
type SimulationInputs struct {
	Generation []Interval
	// Load may be nil or a different length than Generation; the simulator
	// falls back to a constant base load in that case.
	Load    []float64
	Battery BatteryParams
}
