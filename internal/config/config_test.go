package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"solar-sim/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	params, err := c.Battery.ToModelParams()
	require.NoError(t, err)
	assert.Equal(t, 13.5, params.CapacityKWh)
	assert.Equal(t, 0.9, params.Efficiency)
}

func TestLoad_Minimal(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cfg.yaml", `
site:
  city: Cardiff
  panel_area_m2: 12
battery:
  preset: sonnen-eco
simulation:
  source: synthetic
  days: 3
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Cardiff", c.Site.City)
	assert.Equal(t, 12.0, c.Site.PanelAreaM2)
	// untouched fields keep their defaults
	assert.Equal(t, 18.0, c.Site.PanelEfficiencyPct)
	assert.Equal(t, 0.5, c.Load.BaseLoadKWh)
	assert.Equal(t, SourceSynthetic, c.Simulation.Source)
	assert.Equal(t, 3, c.Simulation.Days)

	params, err := c.Battery.ToModelParams()
	require.NoError(t, err)
	assert.Equal(t, 10.0, params.CapacityKWh)
	assert.Equal(t, model.DefaultEfficiency, params.Efficiency)
}

func TestLoad_BatteryFileMerge(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "batteries/diy.yaml", `
battery:
  preset: custom
  capacity_kwh: 7.5
  efficiency: 0.95
`)
	path := writeFile(t, dir, "cfg.yaml", `
battery_file: batteries/diy.yaml
battery:
  efficiency: 0.8
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", c.Battery.Preset)
	assert.Equal(t, 7.5, c.Battery.CapacityKWh)
	assert.Equal(t, 0.8, c.Battery.Efficiency, "inline battery overrides the file")
}

func TestLoad_LoadFileRelativeToConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "load.csv", "kwh\n1\n")
	path := writeFile(t, dir, "cfg.yaml", "load:\n  file: load.csv\n")
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "load.csv"), c.Load.File)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := writeFile(t, dir, "bad.yaml", "site: [")
	_, err = Load(bad)
	assert.Error(t, err)

	tests := map[string]string{
		"unknown preset":   "battery:\n  preset: flux\n",
		"custom no cap":    "battery:\n  preset: custom\n",
		"efficiency > 1":   "battery:\n  efficiency: 1.2\n",
		"bad orientation":  "site:\n  orientation: up\n",
		"zero area":        "site:\n  panel_area_m2: -1\n",
		"bad source":       "simulation:\n  source: crystal-ball\n",
		"bad start":        "simulation:\n  start: tomorrow\n",
		"negative load":    "load:\n  base_load_kwh: -1\n",
		"bad latitude":     "site:\n  latitude: 91\n",
		"negative tariff":  "tariff:\n  price_per_kwh: -0.1\n",
		"loss out of band": "site:\n  system_loss_pct: 100\n",
		"file source":      "simulation:\n  source: file\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, dir, name+".yaml", body)
			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrInvalidInput), err.Error())
		})
	}
}

func TestBatteryConfig_ToModelParams(t *testing.T) {
	p, err := BatteryConfig{CapacityKWh: 4}.ToModelParams()
	require.NoError(t, err)
	assert.Equal(t, 4.0, p.CapacityKWh, "bare capacity implies a custom battery")

	p, err = BatteryConfig{Preset: "LG Chem RESU", Efficiency: 1}.ToModelParams()
	require.NoError(t, err)
	assert.Equal(t, 9.8, p.CapacityKWh)
	assert.Equal(t, 1.0, p.Efficiency)
}

func TestMergeBattery(t *testing.T) {
	base := BatteryConfig{Preset: "custom", CapacityKWh: 3, Efficiency: 0.9}
	out := MergeBattery(base, BatteryConfig{CapacityKWh: 6})
	assert.Equal(t, BatteryConfig{Preset: "custom", CapacityKWh: 6, Efficiency: 0.9}, out)
}

func TestSimulationConfig_StartDate(t *testing.T) {
	d, err := SimulationConfig{}.StartDate()
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	d, err = SimulationConfig{Start: "2024-06-21"}.StartDate()
	require.NoError(t, err)
	assert.Equal(t, 21, d.Day())
}

func TestDecodeJSON(t *testing.T) {
	c, err := DecodeJSON([]byte(`{"site":{"city":"Belfast","orientation":"west"},"battery":{"capacity_kwh":7},"simulation":{"source":"synthetic"}}`), nil)
	require.NoError(t, err)
	assert.Equal(t, "Belfast", c.Site.City)
	assert.Equal(t, 10.0, c.Site.PanelAreaM2)
	params, err := c.Battery.ToModelParams()
	require.NoError(t, err)
	assert.Equal(t, 7.0, params.CapacityKWh)
	assert.Equal(t, model.DefaultEfficiency, params.Efficiency)

	c, err = DecodeJSON(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, string(model.PresetTeslaPowerwall2), c.Battery.Preset)
}

func TestDecodeJSONErrors(t *testing.T) {
	for name, raw := range map[string]string{
		"unknown field": `{"sitee":{}}`,
		"bad type":      `{"site":{"panel_area_m2":"big"}}`,
		"invalid":       `{"battery":{"efficiency":2}}`,
		"bad source":    `{"simulation":{"source":"moon"}}`,
		"battery file":  `{"battery_file":"home"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(raw), nil)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
		})
	}
}

func TestDecodeJSONBatteryFile(t *testing.T) {
	resolve := func(name string) (BatteryConfig, error) {
		if name != "home" {
			return BatteryConfig{}, errors.New("not found")
		}
		return BatteryConfig{Name: "Home", Preset: "sonnen-eco", Efficiency: 0.95}, nil
	}

	c, err := DecodeJSON([]byte(`{"battery_file":"home","battery":{"efficiency":0.85}}`), resolve)
	require.NoError(t, err)
	assert.Equal(t, "sonnen-eco", c.Battery.Preset)
	assert.Equal(t, 0.85, c.Battery.Efficiency)
	assert.Equal(t, "Home", c.Battery.Name)

	_, err = DecodeJSON([]byte(`{"battery_file":"other"}`), resolve)
	assert.Error(t, err)
}
