package data

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"solar-sim/internal/model"
)

// LoadGenerationJSON reads a saved generation series. Two shapes are
// accepted: a JSON array of intervals, or a raw PVGIS seriescalc response,
// which is converted for site.
func LoadGenerationJSON(path string, site model.Site) ([]model.Interval, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseGenerationJSON(raw, site)
}

// ParseGenerationJSON is LoadGenerationJSON on an in-memory document.
func ParseGenerationJSON(raw []byte, site model.Site) ([]model.Interval, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var out []model.Interval
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	var resp PVGISResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return nil, err
	}
	if len(resp.Outputs.Hourly) == 0 {
		return nil, fmt.Errorf("%w: no hourly data in generation file", model.ErrInvalidInput)
	}
	return resp.Intervals(site, 0)
}

// FileSource serves a saved generation series as an IrradianceSource.
type FileSource struct {
	Path string
}

// Generation implements IrradianceSource. Hours, when set, caps the series.
func (f FileSource) Generation(_ context.Context, req Request) ([]model.Interval, error) {
	out, err := LoadGenerationJSON(f.Path, req.Site)
	if err != nil {
		return nil, fmt.Errorf("loading generation file %s: %w", f.Path, err)
	}
	if req.Hours > 0 && len(out) > req.Hours {
		out = out[:req.Hours]
	}
	return out, nil
}
