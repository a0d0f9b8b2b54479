package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"solar-sim/internal/model"

	"gopkg.in/yaml.v3"
)

// Source names where the generation series comes from.
type Source string

const (
	SourcePVGIS       Source = "pvgis"
	SourceOpenWeather Source = "openweather"
	SourceSynthetic   Source = "synthetic"
	SourceFile        Source = "file"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load battery parameters from a separate YAML (e.g. batteries/*.yaml).
	// If both BatteryFile and Battery are provided, Battery overrides BatteryFile.
	BatteryFile string           `yaml:"battery_file" json:"battery_file,omitempty"`
	Site        SiteConfig       `yaml:"site" json:"site"`
	Battery     BatteryConfig    `yaml:"battery" json:"battery"`
	Load        LoadConfig       `yaml:"load" json:"load"`
	Simulation  SimulationConfig `yaml:"simulation" json:"simulation"`
	Tariff      TariffConfig     `yaml:"tariff" json:"tariff"`
}

type SiteConfig struct {
	City               string  `yaml:"city" json:"city"`
	Latitude           float64 `yaml:"latitude" json:"latitude"`
	Longitude          float64 `yaml:"longitude" json:"longitude"`
	PanelAreaM2        float64 `yaml:"panel_area_m2" json:"panel_area_m2"`
	PanelEfficiencyPct float64 `yaml:"panel_efficiency_pct" json:"panel_efficiency_pct"`
	TiltDeg            float64 `yaml:"tilt_deg" json:"tilt_deg"`
	Orientation        string  `yaml:"orientation" json:"orientation"`
	SystemLossPct      float64 `yaml:"system_loss_pct" json:"system_loss_pct"`
}

type BatteryConfig struct {
	// Name labels a battery file; it is not used by the simulation.
	Name        string  `yaml:"name" json:"name,omitempty"`
	Preset      string  `yaml:"preset" json:"preset"`
	CapacityKWh float64 `yaml:"capacity_kwh" json:"capacity_kwh,omitempty"`
	Efficiency  float64 `yaml:"efficiency" json:"efficiency,omitempty"`
}

type LoadConfig struct {
	BaseLoadKWh float64 `yaml:"base_load_kwh" json:"base_load_kwh"`
	// File is an optional single-column hourly load CSV.
	File string `yaml:"file" json:"file,omitempty"`
}

type SimulationConfig struct {
	Source Source `yaml:"source" json:"source"`
	// Hours caps the number of forecast intervals (pvgis/openweather).
	Hours int `yaml:"hours" json:"hours"`
	// Days is the horizon of the synthetic source.
	Days int `yaml:"days" json:"days"`
	// Start is the first day of the synthetic series (YYYY-MM-DD).
	Start string `yaml:"start" json:"start,omitempty"`
	// File is a saved generation series, used by the file source.
	File string `yaml:"file" json:"file,omitempty"`
}

type TariffConfig struct {
	PricePerKWh float64 `yaml:"price_per_kwh" json:"price_per_kwh"`
	CostPerM2   float64 `yaml:"cost_per_m2" json:"cost_per_m2"`
	Currency    string  `yaml:"currency" json:"currency"`
}

// Default returns a config matching the stock setup: a 10 m² south-facing
// array in London with a Powerwall and a 0.5 kWh/h base load.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			City:               "London",
			Latitude:           51.5072,
			Longitude:          -0.1276,
			PanelAreaM2:        10,
			PanelEfficiencyPct: 18,
			TiltDeg:            30,
			Orientation:        "South",
			SystemLossPct:      14,
		},
		Battery: BatteryConfig{
			Preset:     string(model.PresetTeslaPowerwall2),
			Efficiency: model.DefaultEfficiency,
		},
		Load: LoadConfig{BaseLoadKWh: 0.5},
		Simulation: SimulationConfig{
			Source: SourcePVGIS,
			Hours:  48,
			Days:   7,
		},
		Tariff: TariffConfig{
			PricePerKWh: 0.30,
			CostPerM2:   200,
			Currency:    "GBP",
		},
	}
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads the file over Default() and merges the battery file,
// but does not validate.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	// Battery defaults are applied after the battery file is merged so the
	// stock preset does not override it.
	c.Battery = BatteryConfig{}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if c.BatteryFile != "" {
		batteryPath := c.BatteryFile
		if !filepath.IsAbs(batteryPath) {
			// Prefer paths relative to the config file, fall back to cwd.
			cand := filepath.Join(filepath.Dir(path), batteryPath)
			if _, err := os.Stat(cand); err == nil {
				batteryPath = cand
			}
		}
		loaded, err := LoadBatteryFile(batteryPath)
		if err != nil {
			return nil, err
		}
		c.Battery = MergeBattery(loaded, c.Battery)
	}
	c.Battery.applyDefaults()
	c.Load.File = resolveRelative(path, c.Load.File)
	c.Simulation.File = resolveRelative(path, c.Simulation.File)
	return c, nil
}

// BatteryResolver loads a battery file by name for DecodeJSON.
type BatteryResolver func(name string) (BatteryConfig, error)

// DecodeJSON reads a partial JSON config over Default() and validates it.
// battery_file is looked up through resolve; a nil resolve rejects it.
// Other file references are left untouched for the caller to vet.
func DecodeJSON(raw []byte, resolve BatteryResolver) (*Config, error) {
	c := Default()
	c.Battery = BatteryConfig{}
	if len(raw) > 0 {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(c); err != nil {
			return nil, fmt.Errorf("%w: config: %v", model.ErrInvalidInput, err)
		}
	}
	if c.BatteryFile != "" {
		if resolve == nil {
			return nil, fmt.Errorf("%w: battery_file is not supported here", model.ErrInvalidInput)
		}
		loaded, err := resolve(c.BatteryFile)
		if err != nil {
			return nil, err
		}
		c.Battery = MergeBattery(loaded, c.Battery)
	}
	c.Battery.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (b *BatteryConfig) applyDefaults() {
	if b.Preset == "" && b.CapacityKWh == 0 {
		b.Preset = string(model.PresetTeslaPowerwall2)
	}
	if b.Efficiency == 0 {
		b.Efficiency = model.DefaultEfficiency
	}
}

// resolveRelative interprets file relative to the config file when such a
// file exists, otherwise leaves it relative to cwd.
func resolveRelative(configPath, file string) string {
	if file == "" || filepath.IsAbs(file) {
		return file
	}
	cand := filepath.Join(filepath.Dir(configPath), file)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return file
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, err := c.Battery.ToModelParams(); err != nil {
		return fmt.Errorf("battery config invalid: %w", err)
	}
	if _, err := model.ParseOrientation(c.Site.Orientation); err != nil {
		return fmt.Errorf("site config invalid: %w", err)
	}
	if c.Site.PanelAreaM2 <= 0 {
		return fmt.Errorf("%w: site.panel_area_m2 must be > 0", model.ErrInvalidInput)
	}
	if c.Site.PanelEfficiencyPct <= 0 || c.Site.PanelEfficiencyPct > 100 {
		return fmt.Errorf("%w: site.panel_efficiency_pct must be in (0, 100]", model.ErrInvalidInput)
	}
	if c.Site.SystemLossPct < 0 || c.Site.SystemLossPct >= 100 {
		return fmt.Errorf("%w: site.system_loss_pct must be in [0, 100)", model.ErrInvalidInput)
	}
	if c.Site.Latitude < -90 || c.Site.Latitude > 90 || c.Site.Longitude < -180 || c.Site.Longitude > 180 {
		return fmt.Errorf("%w: site coordinates out of range", model.ErrInvalidInput)
	}
	if c.Load.BaseLoadKWh < 0 {
		return fmt.Errorf("%w: load.base_load_kwh must be >= 0", model.ErrInvalidInput)
	}
	switch c.Simulation.Source {
	case SourcePVGIS, SourceOpenWeather, SourceSynthetic:
	case SourceFile:
		if c.Simulation.File == "" {
			return fmt.Errorf("%w: simulation.file is required for the file source", model.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unsupported simulation.source %q", model.ErrInvalidInput, c.Simulation.Source)
	}
	if c.Simulation.Hours < 0 || c.Simulation.Days < 0 {
		return fmt.Errorf("%w: simulation horizon must be >= 0", model.ErrInvalidInput)
	}
	if _, err := c.Simulation.StartDate(); err != nil {
		return fmt.Errorf("%w: simulation.start: %v", model.ErrInvalidInput, err)
	}
	if c.Tariff.PricePerKWh < 0 || c.Tariff.CostPerM2 < 0 {
		return fmt.Errorf("%w: tariff values must be >= 0", model.ErrInvalidInput)
	}
	return nil
}

// ToModelParams resolves the preset (or custom capacity) into battery params.
func (b BatteryConfig) ToModelParams() (model.BatteryParams, error) {
	preset := b.Preset
	if preset == "" {
		if b.CapacityKWh > 0 {
			preset = string(model.PresetCustom)
		} else {
			preset = string(model.PresetTeslaPowerwall2)
		}
	}
	id, err := model.ParsePresetID(preset)
	if err != nil {
		return model.BatteryParams{}, err
	}
	capacity, err := model.CapacityFor(id, b.CapacityKWh)
	if err != nil {
		return model.BatteryParams{}, err
	}
	eff := b.Efficiency
	if eff == 0 {
		eff = model.DefaultEfficiency
	}
	params := model.BatteryParams{CapacityKWh: capacity, Efficiency: eff}
	if err := (&model.Battery{Params: params}).Validate(); err != nil {
		return model.BatteryParams{}, err
	}
	return params, nil
}

// StartDate parses Simulation.Start, returning the zero time when unset.
func (s SimulationConfig) StartDate() (time.Time, error) {
	if strings.TrimSpace(s.Start) == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", strings.TrimSpace(s.Start))
}

type batteryFileWrapper struct {
	Battery BatteryConfig `yaml:"battery"`
}

// LoadBatteryFile reads a battery-only YAML file.
func LoadBatteryFile(path string) (BatteryConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return BatteryConfig{}, err
	}
	var w batteryFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return BatteryConfig{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return w.Battery, nil
}

// MergeBattery overlays non-zero fields from override onto base.
func MergeBattery(base, override BatteryConfig) BatteryConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.Preset != "" {
		out.Preset = override.Preset
	}
	if override.CapacityKWh != 0 {
		out.CapacityKWh = override.CapacityKWh
	}
	if override.Efficiency != 0 {
		out.Efficiency = override.Efficiency
	}
	return out
}

// ToModel converts the site section. Orientation must already be valid.
func (s SiteConfig) ToModel() model.Site {
	o, err := model.ParseOrientation(s.Orientation)
	if err != nil {
		o = model.OrientationSouth
	}
	return model.Site{
		City:               s.City,
		Latitude:           s.Latitude,
		Longitude:          s.Longitude,
		PanelAreaM2:        s.PanelAreaM2,
		PanelEfficiencyPct: s.PanelEfficiencyPct,
		TiltDeg:            s.TiltDeg,
		Orientation:        o,
		SystemLossPct:      s.SystemLossPct,
	}
}
