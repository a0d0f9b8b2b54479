package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned when a run cannot start: an empty generation
// series, a non-positive capacity, or an efficiency outside (0, 1].
var ErrInvalidInput = errors.New("invalid input")

// DefaultEfficiency is the round-trip efficiency used when none is configured.
const DefaultEfficiency = 0.9

// BatteryParams defines the physical parameters of the battery.
// Units:
// - CapacityKWh: kWh
// - Efficiency: 0..1, applied to energy flowing into storage
type BatteryParams struct {
	CapacityKWh float64
	Efficiency  float64
}

// Battery holds the parameters plus the only state that survives between
// steps: the stored energy.
type Battery struct {
	Params BatteryParams

	// StateKWh is the stored energy, always within [0, CapacityKWh].
	StateKWh float64
}

// NewBattery returns an empty battery. Capacity 0 is accepted and yields a
// battery that never stores anything.
func NewBattery(params BatteryParams) (*Battery, error) {
	b := &Battery{Params: params}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// NewBatteryFromPreset builds an empty battery for a named preset. For
// PresetCustom the capacity argument is used and must be > 0; it is ignored
// for every other preset.
func NewBatteryFromPreset(id PresetID, customCapacityKWh, efficiency float64) (*Battery, error) {
	capacity, err := CapacityFor(id, customCapacityKWh)
	if err != nil {
		return nil, err
	}
	return NewBattery(BatteryParams{CapacityKWh: capacity, Efficiency: efficiency})
}

func (b *Battery) Validate() error {
	p := b.Params
	if p.CapacityKWh < 0 || math.IsNaN(p.CapacityKWh) || math.IsInf(p.CapacityKWh, 0) {
		return fmt.Errorf("%w: capacity must be >= 0, got %v", ErrInvalidInput, p.CapacityKWh)
	}
	if !(p.Efficiency > 0 && p.Efficiency <= 1) {
		return fmt.Errorf("%w: efficiency must be in (0, 1], got %v", ErrInvalidInput, p.Efficiency)
	}
	return nil
}

// Step applies one interval. Surplus is stored first (losing 1-Efficiency of
// it), then the shortage is served from whatever is stored after charging.
// Negative inputs are treated as 0. Discharge is lossless.
func (b *Battery) Step(excessKWh, shortageKWh float64) (chargedKWh, dischargedKWh float64) {
	excessKWh = floor0(excessKWh)
	shortageKWh = floor0(shortageKWh)

	chargedKWh = math.Min(b.HeadroomKWh(), excessKWh*b.Params.Efficiency)
	chargedKWh = floor0(chargedKWh)
	b.StateKWh = clamp(b.StateKWh+chargedKWh, 0, b.Params.CapacityKWh)

	dischargedKWh = floor0(math.Min(b.StateKWh, shortageKWh))
	b.StateKWh = clamp(b.StateKWh-dischargedKWh, 0, b.Params.CapacityKWh)
	return chargedKWh, dischargedKWh
}

// HeadroomKWh is the energy that can still be stored.
func (b *Battery) HeadroomKWh() float64 {
	return b.Params.CapacityKWh - b.StateKWh
}

func floor0(x float64) float64 {
	if x < 0 || math.IsNaN(x) {
		return 0
	}
	return x
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
