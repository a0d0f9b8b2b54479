package solar

import (
	"context"
	"fmt"
	"time"

	"solar-sim/internal/data"
	"solar-sim/internal/model"
)

// DefaultDays is the synthetic horizon when none is requested.
const DefaultDays = 7

// SyntheticSource builds an hourly series from the seasonal city averages.
// It never touches the network, so it doubles as the offline fallback.
type SyntheticSource struct {
	// Now picks the start day when the request has none. Defaults to time.Now.
	Now func() time.Time
}

// Generation implements data.IrradianceSource. Each day's irradiance is
// the city average × monthly factor × orientation factor, spread over the
// day by ProfileFor.
func (s SyntheticSource) Generation(ctx context.Context, req data.Request) ([]model.Interval, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	days := req.Days
	if days <= 0 {
		days = DefaultDays
	}
	if days > 366 {
		return nil, fmt.Errorf("%w: synthetic horizon is capped at 366 days, got %d", model.ErrInvalidInput, days)
	}
	start := req.Start
	if start.IsZero() {
		now := time.Now
		if s.Now != nil {
			now = s.Now
		}
		start = now()
	}
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	site := req.Site
	profile := ProfileFor(site.Orientation)
	base := DailyIrradiance(site.City) * site.Orientation.YieldFactor()

	out := make([]model.Interval, 0, days*24)
	for d := 0; d < days; d++ {
		day := start.AddDate(0, 0, d)
		daily := base * MonthlyFactor(day.Month())
		for h := 0; h < 24; h++ {
			irr := daily * profile[h]
			out = append(out, model.Interval{
				Time:            day.Add(time.Duration(h) * time.Hour),
				GenerationKWh:   site.EnergyKWh(irr),
				IrradianceKWhM2: irr,
			})
		}
	}
	if req.Hours > 0 && len(out) > req.Hours {
		out = out[:req.Hours]
	}
	return out, nil
}
