package simulation

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"solar-sim/internal/model"
)

// DefaultBaseLoadKWh is the constant hourly load used when no profile fits.
const DefaultBaseLoadKWh = 0.5

// Options configures an Engine.
type Options struct {
	// BaseLoadKWh replaces the load profile when it is missing or its length
	// differs from the generation series.
	BaseLoadKWh float64
}

type Engine struct {
	opts Options
}

func New(opts Options) *Engine {
	if opts.BaseLoadKWh < 0 || math.IsNaN(opts.BaseLoadKWh) {
		opts.BaseLoadKWh = 0
	}
	return &Engine{opts: opts}
}

// Run folds the generation and load series through the battery, one step per
// interval. The battery is mutated in place and should not be shared between
// runs.
func (e *Engine) Run(generation []model.Interval, load []float64, batt *model.Battery) (*Result, error) {
	if batt == nil {
		return nil, fmt.Errorf("%w: battery is nil", model.ErrInvalidInput)
	}
	if err := batt.Validate(); err != nil {
		return nil, err
	}
	if len(generation) == 0 {
		return nil, fmt.Errorf("%w: generation series is empty", model.ErrInvalidInput)
	}

	loads, fallback := e.MatchLoad(load, len(generation))

	res := &Result{
		Trace:        make([]TraceRow, 0, len(generation)),
		CapacityKWh:  batt.Params.CapacityKWh,
		Efficiency:   batt.Params.Efficiency,
		LoadFallback: fallback,
	}

	for idx, it := range generation {
		g := nonNegative(it.GenerationKWh)
		l := nonNegative(loads[idx])

		excess := math.Max(0, g-l)
		shortage := math.Max(0, l-g)

		charged, discharged := batt.Step(excess, shortage)

		res.TotalGeneratedKWh += g
		res.TotalLoadKWh += l
		res.TotalStoredKWh += charged
		res.TotalDischargedKWh += discharged

		res.Trace = append(res.Trace, TraceRow{
			Index: idx,
			Time:  it.Time,

			GenerationKWh: g,
			LoadKWh:       l,
			NetBalanceKWh: g - l,

			Action:        model.ActionFromFlows(charged, discharged),
			ChargedKWh:    charged,
			DischargedKWh: discharged,

			BatteryStateKWh: batt.StateKWh,

			CumStoredKWh:     res.TotalStoredKWh,
			CumDischargedKWh: res.TotalDischargedKWh,
		})
	}

	res.FinalBatteryStateKWh = batt.StateKWh
	return res, nil
}

// Simulate is a convenience wrapper that builds a fresh battery from params
// and runs it.
func (e *Engine) Simulate(in model.SimulationInputs) (*Result, error) {
	batt, err := model.NewBattery(in.Battery)
	if err != nil {
		return nil, err
	}
	return e.Run(in.Generation, in.Load, batt)
}

// MatchLoad returns the load series used for n intervals and whether the
// base load had to be substituted.
func (e *Engine) MatchLoad(load []float64, n int) ([]float64, bool) {
	if len(load) == n && n > 0 {
		return load, false
	}
	return lo.Times(n, func(int) float64 { return e.opts.BaseLoadKWh }), true
}

// nonNegative maps missing (NaN) and negative readings to 0.
func nonNegative(x float64) float64 {
	if x < 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
