package model

import (
	"fmt"
	"strings"
)

// PresetID names a battery product. Keep these values stable; they are
// accepted in YAML configs and API requests.
type PresetID string

const (
	PresetTeslaPowerwall2 PresetID = "tesla-powerwall-2"
	PresetSonnenEco       PresetID = "sonnen-eco"
	PresetLGChemRESU      PresetID = "lg-chem-resu"
	PresetGenericDIY      PresetID = "generic-diy"
	PresetCustom          PresetID = "custom"
)

// Preset describes a named battery capacity.
type Preset struct {
	ID          PresetID `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	CapacityKWh float64  `json:"capacity_kwh" yaml:"capacity_kwh"`
}

var presets = []Preset{
	{ID: PresetTeslaPowerwall2, Name: "Tesla Powerwall 2", CapacityKWh: 13.5},
	{ID: PresetSonnenEco, Name: "Sonnen Eco", CapacityKWh: 10.0},
	{ID: PresetLGChemRESU, Name: "LG Chem RESU", CapacityKWh: 9.8},
	{ID: PresetGenericDIY, Name: "Generic DIY", CapacityKWh: 5.0},
}

// Presets returns the fixed presets in display order. PresetCustom is not
// included since it has no capacity of its own.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset finds a fixed preset by id.
func LookupPreset(id PresetID) (Preset, bool) {
	for _, p := range presets {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

// ParsePresetID normalizes user input ("Sonnen Eco", "sonnen-eco") to an id.
func ParsePresetID(s string) (PresetID, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, " ", "-")
	if norm == string(PresetCustom) {
		return PresetCustom, nil
	}
	for _, p := range presets {
		if norm == string(p.ID) || norm == strings.ToLower(strings.ReplaceAll(p.Name, " ", "-")) {
			return p.ID, nil
		}
	}
	return "", fmt.Errorf("%w: unknown battery preset %q", ErrInvalidInput, s)
}

// CapacityFor resolves the capacity of a preset. Custom capacities must be > 0.
func CapacityFor(id PresetID, customCapacityKWh float64) (float64, error) {
	if id == PresetCustom {
		if customCapacityKWh <= 0 {
			return 0, fmt.Errorf("%w: custom capacity must be > 0, got %v", ErrInvalidInput, customCapacityKWh)
		}
		return customCapacityKWh, nil
	}
	p, ok := LookupPreset(id)
	if !ok {
		return 0, fmt.Errorf("%w: unknown battery preset %q", ErrInvalidInput, id)
	}
	return p.CapacityKWh, nil
}
