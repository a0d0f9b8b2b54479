package analysis

import (
	"sort"

	"solar-sim/internal/model"
	"solar-sim/internal/simulation"
)

// PresetOutcome is one battery option run against the same inputs.
type PresetOutcome struct {
	Preset  model.Preset `json:"preset"`
	Summary Summary      `json:"summary"`
}

// ComparePresets runs generation and load through every fixed preset plus
// any extra options and ranks them by self-sufficiency, best first. Ties keep
// the larger battery behind the smaller one.
func ComparePresets(engine *simulation.Engine, generation []model.Interval, load []float64, efficiency, pricePerKWh float64, extra ...model.Preset) ([]PresetOutcome, error) {
	options := append(model.Presets(), extra...)
	out := make([]PresetOutcome, 0, len(options))
	for _, p := range options {
		res, err := engine.Simulate(model.SimulationInputs{
			Generation: generation,
			Load:       load,
			Battery:    model.BatteryParams{CapacityKWh: p.CapacityKWh, Efficiency: efficiency},
		})
		if err != nil {
			return nil, err
		}
		out = append(out, PresetOutcome{Preset: p, Summary: Summarize(res, pricePerKWh)})
	}
	RankBySelfSufficiency(out)
	return out, nil
}

// RankBySelfSufficiency sorts outcomes in place, highest self-sufficiency
// first and smaller batteries first on ties.
func RankBySelfSufficiency(out []PresetOutcome) {
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Summary, out[j].Summary
		if a.SelfSufficiencyPct != b.SelfSufficiencyPct {
			return a.SelfSufficiencyPct > b.SelfSufficiencyPct
		}
		return out[i].Preset.CapacityKWh < out[j].Preset.CapacityKWh
	})
}
