// Package report renders simulation results for download: the trace as CSV
// and a short printable text report.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"solar-sim/internal/analysis"
	"solar-sim/internal/simulation"
)

// MaxRows is how many intervals the printable report lists.
const MaxRows = 31

// DefaultTitle heads the printable report.
const DefaultTitle = "Solar Forecast Report"

const (
	csvFileName    = "forecast.csv"
	reportFileName = "report.txt"
	timeLayout     = "2006-01-02 15:04:05"
)

// WriteText writes the title followed by the first MaxRows intervals, one
// per line as "time | generation kWh | Battery: state".
func WriteText(w io.Writer, title string, trace []simulation.TraceRow) error {
	if title == "" {
		title = DefaultTitle
	}
	if _, err := fmt.Fprintf(w, "%s\n%s\n", title, strings.Repeat("=", len(title))); err != nil {
		return err
	}
	for i, row := range trace {
		if i >= MaxRows {
			break
		}
		if _, err := fmt.Fprintf(w, "%s | %.2f kWh | Battery: %.2f\n", rowLabel(row), row.GenerationKWh, row.BatteryStateKWh); err != nil {
			return err
		}
	}
	return nil
}

func rowLabel(row simulation.TraceRow) string {
	if row.Time.IsZero() {
		return fmt.Sprintf("#%d", row.Index)
	}
	return row.Time.UTC().Format(timeLayout)
}

// WriteSummary writes the headline metrics as an aligned table.
func WriteSummary(w io.Writer, s analysis.Summary, currency string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	lines := [][2]string{
		{"Total Output", fmt.Sprintf("%.1f kWh", s.GeneratedKWh)},
		{"Load", fmt.Sprintf("%.1f kWh", s.LoadKWh)},
		{"Stored in Battery", fmt.Sprintf("%.1f kWh", s.StoredKWh)},
		{"Discharged", fmt.Sprintf("%.1f kWh", s.DischargedKWh)},
		{"Final Battery State", fmt.Sprintf("%.2f / %.2f kWh", s.FinalStateKWh, s.CapacityKWh)},
		{"Grid Import", fmt.Sprintf("%.1f kWh", s.GridImportKWh)},
		{"Grid Export", fmt.Sprintf("%.1f kWh", s.GridExportKWh)},
		{"Self-consumption", fmt.Sprintf("%.1f%%", s.SelfConsumptionPct)},
		{"Self-sufficiency", fmt.Sprintf("%.1f%%", s.SelfSufficiencyPct)},
		{"Savings", strings.TrimSpace(s.TotalSavings.StringFixed(2) + " " + currency)},
	}
	if !s.Start.IsZero() {
		lines = append([][2]string{{"Window", s.Start.UTC().Format(time.RFC3339) + " .. " + s.End.UTC().Format(time.RFC3339)}}, lines...)
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", l[0], l[1]); err != nil {
			return err
		}
	}
	if s.LoadFallback {
		if _, err := fmt.Fprintln(tw, "Note:\tload profile did not match, base load used"); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteFiles exports forecast.csv and report.txt into dir and returns their
// paths.
func WriteFiles(dir string, res *simulation.Result, s analysis.Summary, currency string) (csvPath, reportPath string, err error) {
	if res == nil {
		return "", "", fmt.Errorf("no result to export")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create directory: %w", err)
	}
	csvPath = filepath.Join(dir, csvFileName)
	if err := simulation.WriteTraceCSVFile(csvPath, res.Trace); err != nil {
		return "", "", fmt.Errorf("writing %s: %w", csvPath, err)
	}

	reportPath = filepath.Join(dir, reportFileName)
	f, err := os.Create(reportPath)
	if err != nil {
		return "", "", err
	}
	defer f.Close()
	if err := WriteReport(f, s, currency, res.Trace); err != nil {
		return "", "", err
	}
	return csvPath, reportPath, f.Close()
}

// WriteReport writes the summary table followed by the interval listing.
func WriteReport(w io.Writer, s analysis.Summary, currency string, trace []simulation.TraceRow) error {
	if err := WriteSummary(w, s, currency); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return WriteText(w, DefaultTitle, trace)
}
