package simulation

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"
)

var traceHeader = []string{
	"index",
	"time",
	"generation_kwh",
	"load_kwh",
	"net_balance_kwh",
	"action",
	"charged_kwh",
	"discharged_kwh",
	"battery_state_kwh",
	"cum_stored_kwh",
	"cum_discharged_kwh",
}

// WriteTraceCSVFile writes the trace to path, creating or truncating it.
func WriteTraceCSVFile(path string, trace []TraceRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteTraceCSV(f, trace); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func WriteTraceCSV(out io.Writer, trace []TraceRow) error {
	w := csv.NewWriter(out)

	if err := w.Write(traceHeader); err != nil {
		return err
	}

	for _, r := range trace {
		row := []string{
			strconv.Itoa(r.Index),
			fmtTime(r.Time),
			fmtFloat(r.GenerationKWh),
			fmtFloat(r.LoadKWh),
			fmtFloat(r.NetBalanceKWh),
			string(r.Action),
			fmtFloat(r.ChargedKWh),
			fmtFloat(r.DischargedKWh),
			fmtFloat(r.BatteryStateKWh),
			fmtFloat(r.CumStoredKWh),
			fmtFloat(r.CumDischargedKWh),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
