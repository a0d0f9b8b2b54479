package solar

import (
	"fmt"
	"time"

	"solar-sim/internal/model"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Defaults for the headline estimate.
const (
	DefaultPricePerKWh = 0.30
	DefaultCostPerM2   = 200.0
)

// Optimization tips.
const (
	TipOrientation = "South-facing panels yield the best sun exposure in the UK."
	TipEfficiency  = "Consider upgrading to higher-efficiency panels."
	TipLowYield    = "Consider panel tilt or cleaning to improve yield."
)

// EstimateInput describes the array to estimate.
type EstimateInput struct {
	City               string
	PanelAreaM2        float64
	PanelEfficiencyPct float64
	Orientation        model.Orientation
	// PricePerKWh and CostPerM2 fall back to the defaults when zero.
	PricePerKWh float64
	CostPerM2   float64
}

// MonthEstimate is one month of the seasonal breakdown.
type MonthEstimate struct {
	Month     time.Month
	Factor    float64
	DailyKWh  float64
	Days      int
	EnergyKWh float64
	Savings   decimal.Decimal
}

// Estimate is the headline performance of an array.
type Estimate struct {
	DailyKWh      float64
	AnnualSavings decimal.Decimal
	SystemCost    decimal.Decimal
	// BreakEvenYears is nil when the array saves nothing.
	BreakEvenYears *float64
	Monthly        []MonthEstimate
	Tips           []string
}

// EstimateOutput computes yearly output and payback from average irradiance.
func EstimateOutput(in EstimateInput) (*Estimate, error) {
	if in.PanelAreaM2 <= 0 {
		return nil, fmt.Errorf("%w: panel area must be > 0", model.ErrInvalidInput)
	}
	if in.PanelEfficiencyPct <= 0 || in.PanelEfficiencyPct > 100 {
		return nil, fmt.Errorf("%w: panel efficiency must be in (0, 100]", model.ErrInvalidInput)
	}
	if in.PricePerKWh < 0 || in.CostPerM2 < 0 {
		return nil, fmt.Errorf("%w: tariff values must be >= 0", model.ErrInvalidInput)
	}
	orientation := in.Orientation
	if orientation == "" {
		orientation = model.OrientationSouth
	}
	price := in.PricePerKWh
	if price == 0 {
		price = DefaultPricePerKWh
	}
	costPerM2 := in.CostPerM2
	if costPerM2 == 0 {
		costPerM2 = DefaultCostPerM2
	}
	priceDec := decimal.NewFromFloat(price)

	irradiance := DailyIrradiance(in.City) * orientation.YieldFactor()
	daily := irradiance * in.PanelAreaM2 * (in.PanelEfficiencyPct / 100)

	savings := decimal.NewFromFloat(daily * 365).Mul(priceDec)
	cost := decimal.NewFromFloat(in.PanelAreaM2).Mul(decimal.NewFromFloat(costPerM2))

	est := &Estimate{
		DailyKWh:      daily,
		AnnualSavings: savings.Round(2),
		SystemCost:    cost.Round(2),
	}
	if savings.IsPositive() {
		est.BreakEvenYears = lo.ToPtr(cost.Div(savings).InexactFloat64())
	}

	for m := time.January; m <= time.December; m++ {
		f := MonthlyFactor(m)
		energy := daily * f * float64(DaysIn(m))
		est.Monthly = append(est.Monthly, MonthEstimate{
			Month:     m,
			Factor:    f,
			DailyKWh:  daily * f,
			Days:      DaysIn(m),
			EnergyKWh: energy,
			Savings:   decimal.NewFromFloat(energy).Mul(priceDec).Round(2),
		})
	}

	if orientation != model.OrientationSouth {
		est.Tips = append(est.Tips, TipOrientation)
	}
	if in.PanelEfficiencyPct < 16 {
		est.Tips = append(est.Tips, TipEfficiency)
	}
	if daily < 3 {
		est.Tips = append(est.Tips, TipLowYield)
	}
	return est, nil
}
