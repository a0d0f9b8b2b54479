package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"solar-sim/internal/config"
	"solar-sim/internal/data"
	"solar-sim/internal/model"
	"solar-sim/internal/simulation"
	"solar-sim/internal/solar"

	"github.com/spf13/pflag"
)

// Demo:
// - Load a saved generation series (or one synthetic day)
// - Instantiate a battery from a preset
// - Step through the intervals to show how the models fit together
func main() {
	dataPath := pflag.String("data", "", "Optional: saved generation JSON (interval array or PVGIS response)")
	cfgPath := pflag.String("config", "", "Path to YAML config (optional)")
	n := pflag.Int("n", 24, "Number of intervals to print")
	outCSV := pflag.String("out", "", "Optional path to write trace CSV (e.g. results/trace.csv)")
	pflag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			fail(err)
		}
	}
	site := cfg.Site.ToModel()

	var (
		generation []model.Interval
		err        error
	)
	if *dataPath != "" {
		generation, err = data.LoadGenerationJSON(*dataPath, site)
	} else {
		generation, err = solar.SyntheticSource{}.Generation(context.Background(), data.Request{
			Site:  site,
			Days:  1,
			Start: time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC),
		})
	}
	if err != nil {
		fail(err)
	}

	params, err := cfg.Battery.ToModelParams()
	if err != nil {
		fail(err)
	}
	batt, err := model.NewBattery(params)
	if err != nil {
		fail(err)
	}

	engine := simulation.New(simulation.Options{BaseLoadKWh: cfg.Load.BaseLoadKWh})
	result, err := engine.Run(generation, nil, batt)
	if err != nil {
		fail(err)
	}

	fmt.Printf("Loaded %d intervals for %s (%s, %.0f m² at %.0f%%)\n",
		len(generation), site.City, site.Orientation, site.PanelAreaM2, site.PanelEfficiencyPct)
	fmt.Printf("Battery=%.1f kWh efficiency=%.0f%% base load=%.2f kWh\n\n",
		params.CapacityKWh, params.Efficiency*100, cfg.Load.BaseLoadKWh)

	for i := 0; i < min(*n, len(result.Trace)); i++ {
		r := result.Trace[i]
		fmt.Printf(
			"%s gen=%6.2f  load=%5.2f  action=%-11s  charged=%5.2f  discharged=%5.2f  state=%6.2f\n",
			label(r),
			r.GenerationKWh,
			r.LoadKWh,
			string(r.Action),
			r.ChargedKWh,
			r.DischargedKWh,
			r.BatteryStateKWh,
		)
	}

	if *outCSV != "" {
		if err := simulation.WriteTraceCSVFile(*outCSV, result.Trace); err != nil {
			fail(err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}

	fmt.Printf("\nDone. Stored=%.2f kWh  Discharged=%.2f kWh  Final state=%.2f kWh\n",
		result.TotalStoredKWh, result.TotalDischargedKWh, result.FinalBatteryStateKWh)
}

func label(r simulation.TraceRow) string {
	if r.Time.IsZero() {
		return fmt.Sprintf("#%-15d", r.Index)
	}
	return r.Time.Format("2006-01-02 15:04")
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
