package models

import "encoding/json"

// SimulateRequest is the body of POST /api/v1/simulate and
// /api/v1/simulate/compare, and the payload of a websocket "simulate"
// message.
type SimulateRequest struct {
	// Config is a partial config in the YAML shape, merged over the defaults.
	Config json.RawMessage `json:"config,omitempty"`
	// Generation replaces the configured source with hourly kWh values.
	Generation []float64 `json:"generation,omitempty"`
	// Load is the hourly household load. When its length differs from the
	// generation series the base load is used instead.
	Load    []float64       `json:"load,omitempty"`
	Options SimulateOptions `json:"options,omitempty"`
}

// SimulateOptions contains optional response settings
type SimulateOptions struct {
	IncludeTrace bool `json:"include_trace,omitempty"` // default: false
}

// EstimateRequest is the body of POST /api/v1/estimate.
type EstimateRequest struct {
	City               string  `json:"city"`
	PanelAreaM2        float64 `json:"panel_area_m2" binding:"required,gt=0"`
	PanelEfficiencyPct float64 `json:"panel_efficiency_pct" binding:"required,gt=0,lte=100"`
	Orientation        string  `json:"orientation"`
	PricePerKWh        float64 `json:"price_per_kwh" binding:"gte=0"`
	CostPerM2          float64 `json:"cost_per_m2" binding:"gte=0"`
}

// ConditionsRequest selects a place by city or by coordinates.
type ConditionsRequest struct {
	City string   `form:"city"`
	Lat  *float64 `form:"lat"`
	Lon  *float64 `form:"lon"`
}
