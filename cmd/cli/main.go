package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"solar-sim/internal/analysis"
	"solar-sim/internal/config"
	"solar-sim/internal/data"
	"solar-sim/internal/log"
	"solar-sim/internal/report"
	"solar-sim/internal/service"
	"solar-sim/internal/simulation"

	"github.com/spf13/pflag"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "simulate":
		err = cmdSimulate(ctx, os.Args[2:], os.Stdout)
	case "compare":
		err = cmdCompare(ctx, os.Args[2:], os.Stdout)
	case "estimate":
		err = cmdEstimate(os.Args[2:], os.Stdout)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --config examples/config.yaml --out results/trace.csv [--report results/report.txt]")
	fmt.Println("  cli compare --config examples/config.yaml")
	fmt.Println("  cli estimate --config examples/config.yaml")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - simulate writes action=CHARGING/IDLE/DISCHARGING per interval")
	fmt.Println("  - the openweather source reads OPENWEATHER_API_KEY")
}

// commonFlags are shared by every subcommand.
type commonFlags struct {
	cfgPath string
	source  string
	verbose bool
}

func newFlagSet(name string, cf *commonFlags) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ExitOnError)
	fs.StringVarP(&cf.cfgPath, "config", "c", "", "Path to YAML config (defaults apply when omitted)")
	fs.StringVarP(&cf.source, "source", "s", "", "Override simulation.source (pvgis, openweather, synthetic, file)")
	fs.BoolVarP(&cf.verbose, "verbose", "v", false, "Log provider requests")
	return fs
}

func (cf commonFlags) load() (*config.Config, error) {
	if cf.verbose {
		log.SetDefaultLogLevel(slog.LevelDebug)
	}
	cfg := config.Default()
	if cf.cfgPath != "" {
		var err error
		if cfg, err = config.Load(cf.cfgPath); err != nil {
			return nil, err
		}
	}
	if cf.source != "" {
		cfg.Simulation.Source = config.Source(strings.ToLower(cf.source))
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newService() *service.Service {
	sources := map[config.Source]data.IrradianceSource{
		config.SourcePVGIS: data.NewPVGISClient(os.Getenv("PVGIS_URL"), nil),
	}
	if key := os.Getenv("OPENWEATHER_API_KEY"); key != "" {
		sources[config.SourceOpenWeather] = data.NewOpenWeatherClient(key, "")
	}
	return service.New(sources, nil)
}

func cmdSimulate(ctx context.Context, args []string, out io.Writer) error {
	var cf commonFlags
	fs := newFlagSet("simulate", &cf)
	outPath := fs.StringP("out", "o", "results/trace.csv", "Output CSV path")
	reportPath := fs.StringP("report", "r", "", "Optional: write a text report to this path")
	_ = fs.Parse(args)

	cfg, err := cf.load()
	if err != nil {
		return err
	}
	run, err := newService().Simulate(ctx, cfg, service.Inputs{})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		return err
	}
	if err := simulation.WriteTraceCSVFile(*outPath, run.Result.Trace); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %d rows to %s\n", len(run.Result.Trace), *outPath)

	if *reportPath != "" {
		if err := writeReportFile(*reportPath, run, cfg.Tariff.Currency); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote report to %s\n", *reportPath)
	}
	fmt.Fprintln(out)
	return report.WriteSummary(out, run.Summary, cfg.Tariff.Currency)
}

func writeReportFile(path string, run *service.Run, currency string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteReport(f, run.Summary, currency, run.Result.Trace); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func cmdCompare(ctx context.Context, args []string, out io.Writer) error {
	var cf commonFlags
	fs := newFlagSet("compare", &cf)
	_ = fs.Parse(args)

	cfg, err := cf.load()
	if err != nil {
		return err
	}
	outcomes, source, err := newService().Compare(ctx, cfg, service.Inputs{})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Battery comparison (source: %s, efficiency %.0f%%)\n\n", source, efficiencyPct(cfg))
	return writeComparison(out, outcomes, cfg.Tariff.Currency)
}

func efficiencyPct(cfg *config.Config) float64 {
	params, err := cfg.Battery.ToModelParams()
	if err != nil {
		return 0
	}
	return params.Efficiency * 100
}

func writeComparison(out io.Writer, outcomes []analysis.PresetOutcome, currency string) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "rank\tbattery\tcapacity\tstored\tdischarged\tgrid import\tself-suff.\tsavings\t")
	for i, o := range outcomes {
		s := o.Summary
		fmt.Fprintf(tw, "%d\t%s\t%.1f kWh\t%.1f kWh\t%.1f kWh\t%.1f kWh\t%.1f%%\t%s %s\t\n",
			i+1,
			o.Preset.Name,
			o.Preset.CapacityKWh,
			s.StoredKWh,
			s.DischargedKWh,
			s.GridImportKWh,
			s.SelfSufficiencyPct,
			s.TotalSavings.StringFixed(2),
			currency,
		)
	}
	return tw.Flush()
}

func cmdEstimate(args []string, out io.Writer) error {
	var cf commonFlags
	fs := newFlagSet("estimate", &cf)
	_ = fs.Parse(args)

	cfg, err := cf.load()
	if err != nil {
		return err
	}
	est, err := newService().Estimate(cfg)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Daily output:\t%.2f kWh\n", est.DailyKWh)
	fmt.Fprintf(tw, "Annual savings:\t%s %s\n", est.AnnualSavings.StringFixed(2), cfg.Tariff.Currency)
	fmt.Fprintf(tw, "System cost:\t%s %s\n", est.SystemCost.StringFixed(2), cfg.Tariff.Currency)
	if est.BreakEvenYears != nil {
		fmt.Fprintf(tw, "Break-even:\t%.1f years\n", *est.BreakEvenYears)
	} else {
		fmt.Fprintln(tw, "Break-even:\tnever")
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "month\tkWh/day\tkWh\tsavings\t")
	for _, m := range est.Monthly {
		fmt.Fprintf(tw, "%s\t%.2f\t%.1f\t%s\t\n", m.Month.String()[:3], m.DailyKWh, m.EnergyKWh, m.Savings.StringFixed(2))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, tip := range est.Tips {
		fmt.Fprintln(out, "Tip:", tip)
	}
	return nil
}
