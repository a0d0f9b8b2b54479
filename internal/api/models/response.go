package models

import (
	"solar-sim/internal/analysis"
	"solar-sim/internal/model"
	"solar-sim/internal/simulation"
)

// SimulateResponse represents the response from a simulation run
type SimulateResponse struct {
	ID      string                `json:"id,omitempty"`
	Status  string                `json:"status"`
	Source  string                `json:"source"`
	Summary analysis.Summary      `json:"summary"`
	Trace   []simulation.TraceRow `json:"trace,omitempty"`
}

// CompareResponse ranks the presets against one set of inputs.
type CompareResponse struct {
	Source     string             `json:"source"`
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult contains results for one battery option
type ComparisonResult struct {
	Rank    int              `json:"rank"`
	Preset  model.Preset     `json:"preset"`
	Summary analysis.Summary `json:"summary"`
}

// TraceResponse is a stored simulation's per-interval output.
type TraceResponse struct {
	ID    string                `json:"id"`
	Count int                   `json:"count"`
	Trace []simulation.TraceRow `json:"trace"`
}

// EstimateResponse is the headline performance estimate.
type EstimateResponse struct {
	DailyKWh       float64           `json:"daily_kwh"`
	AnnualSavings  float64           `json:"annual_savings"`
	SystemCost     float64           `json:"system_cost"`
	BreakEvenYears *float64          `json:"break_even_years"`
	Monthly        []MonthlyEstimate `json:"monthly"`
	Tips           []string          `json:"tips"`
}

// MonthlyEstimate is one month of the seasonal breakdown.
type MonthlyEstimate struct {
	Month     string  `json:"month"`
	Factor    float64 `json:"factor"`
	DailyKWh  float64 `json:"daily_kwh"`
	Days      int     `json:"days"`
	EnergyKWh float64 `json:"energy_kwh"`
	Savings   float64 `json:"savings"`
}

// BatteryInfo represents information about a battery option
type BatteryInfo struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	CapacityKWh float64 `json:"capacity_kwh"`
	Efficiency  float64 `json:"efficiency,omitempty"`
	// File is set for batteries loaded from the battery directory.
	File string `json:"file,omitempty"`
}

// LocationInfo represents information about a location
type LocationInfo struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ConditionsResponse is the current weather at a place.
type ConditionsResponse struct {
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	Clouds          *int     `json:"clouds,omitempty"`
	Description     string   `json:"description"`
	UVI             *float64 `json:"uvi,omitempty"`
	IrradianceKWhM2 float64  `json:"irradiance_kwh_m2"`
	Tip             string   `json:"tip"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
