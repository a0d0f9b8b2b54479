package analysis

import (
	"math"
	"sort"
	"time"

	"solar-sim/internal/simulation"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// BalanceStats describes the distribution of generation minus load.
type BalanceStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	P05    float64 `json:"p05"`
	P95    float64 `json:"p95"`
}

// Summary is the headline view of one simulation. Energies are kWh.
type Summary struct {
	Start     time.Time `json:"start,omitempty"`
	End       time.Time `json:"end,omitempty"`
	Intervals int       `json:"intervals"`

	GeneratedKWh  float64 `json:"generated_kwh"`
	LoadKWh       float64 `json:"load_kwh"`
	StoredKWh     float64 `json:"stored_kwh"`
	DischargedKWh float64 `json:"discharged_kwh"`
	FinalStateKWh float64 `json:"final_state_kwh"`
	CapacityKWh   float64 `json:"capacity_kwh"`

	// SolarToLoadKWh is generation consumed directly in the same interval.
	SolarToLoadKWh float64 `json:"solar_to_load_kwh"`
	// ChargeLossKWh is surplus drawn into the battery but not stored.
	ChargeLossKWh float64 `json:"charge_loss_kwh"`
	GridImportKWh float64 `json:"grid_import_kwh"`
	GridExportKWh float64 `json:"grid_export_kwh"`

	SelfConsumptionPct float64 `json:"self_consumption_pct"`
	SelfSufficiencyPct float64 `json:"self_sufficiency_pct"`

	NetBalance BalanceStats `json:"net_balance"`

	// Savings are avoided import at the flat tariff.
	SolarSavings   decimal.Decimal `json:"solar_savings"`
	BatterySavings decimal.Decimal `json:"battery_savings"`
	TotalSavings   decimal.Decimal `json:"total_savings"`

	LoadFallback bool `json:"load_fallback"`
}

// Summarize derives grid flows, ratios and savings from a trace. Discharge is
// lossless and charging draws ChargedKWh/Efficiency of surplus.
func Summarize(res *simulation.Result, pricePerKWh float64) Summary {
	s := Summary{}
	if res == nil {
		return s
	}
	s.Start, s.End = res.Window()
	s.Intervals = len(res.Trace)
	s.GeneratedKWh = res.TotalGeneratedKWh
	s.LoadKWh = res.TotalLoadKWh
	s.StoredKWh = res.TotalStoredKWh
	s.DischargedKWh = res.TotalDischargedKWh
	s.FinalStateKWh = res.FinalBatteryStateKWh
	s.CapacityKWh = res.CapacityKWh
	s.LoadFallback = res.LoadFallback

	balances := make([]float64, 0, len(res.Trace))
	for _, row := range res.Trace {
		balances = append(balances, row.NetBalanceKWh)
		s.SolarToLoadKWh += math.Min(row.GenerationKWh, row.LoadKWh)

		excess := math.Max(0, row.NetBalanceKWh)
		shortage := math.Max(0, -row.NetBalanceKWh)
		drawn := row.ChargedKWh
		if res.Efficiency > 0 {
			drawn = row.ChargedKWh / res.Efficiency
		}
		drawn = math.Min(drawn, excess)
		s.ChargeLossKWh += drawn - row.ChargedKWh
		s.GridExportKWh += excess - drawn
		s.GridImportKWh += math.Max(0, shortage-row.DischargedKWh)
	}

	if s.GeneratedKWh > 0 {
		s.SelfConsumptionPct = (s.GeneratedKWh - s.GridExportKWh) / s.GeneratedKWh * 100
	}
	if s.LoadKWh > 0 {
		s.SelfSufficiencyPct = (s.LoadKWh - s.GridImportKWh) / s.LoadKWh * 100
	}
	s.NetBalance = ComputeBalanceStats(balances)

	price := decimal.NewFromFloat(math.Max(0, pricePerKWh))
	solar := decimal.NewFromFloat(s.SolarToLoadKWh).Mul(price)
	battery := decimal.NewFromFloat(s.DischargedKWh).Mul(price)
	s.SolarSavings = solar.Round(2)
	s.BatterySavings = battery.Round(2)
	s.TotalSavings = solar.Add(battery).Round(2)
	return s
}

// ComputeBalanceStats summarizes a series. Percentiles interpolate between
// order statistics.
func ComputeBalanceStats(values []float64) BalanceStats {
	b := BalanceStats{Count: len(values)}
	if len(values) == 0 {
		return b
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	b.Min = floats.Min(sorted)
	b.Max = floats.Max(sorted)
	b.Mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		b.StdDev = stat.StdDev(sorted, nil)
	}
	b.P05 = percentileSorted(sorted, 0.05)
	b.P95 = percentileSorted(sorted, 0.95)
	return b
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
