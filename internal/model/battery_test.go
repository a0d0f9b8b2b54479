package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBattery(t *testing.T, capacity, eff float64) *Battery {
	t.Helper()
	b, err := NewBattery(BatteryParams{CapacityKWh: capacity, Efficiency: eff})
	require.NoError(t, err)
	return b
}

func TestNewBattery_StartsEmpty(t *testing.T) {
	b := newTestBattery(t, 10, 0.9)
	assert.Equal(t, 0.0, b.StateKWh)
	assert.Equal(t, 10.0, b.HeadroomKWh())
}

func TestNewBattery_Validation(t *testing.T) {
	tests := []struct {
		name   string
		params BatteryParams
	}{
		{"negative capacity", BatteryParams{CapacityKWh: -1, Efficiency: 0.9}},
		{"zero efficiency", BatteryParams{CapacityKWh: 10, Efficiency: 0}},
		{"efficiency above one", BatteryParams{CapacityKWh: 10, Efficiency: 1.01}},
		{"negative efficiency", BatteryParams{CapacityKWh: 10, Efficiency: -0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBattery(tt.params)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}

	_, err := NewBattery(BatteryParams{CapacityKWh: 10, Efficiency: 1})
	assert.NoError(t, err, "efficiency of exactly 1 is allowed")
}

func TestBattery_ChargeScaledByEfficiency(t *testing.T) {
	b := newTestBattery(t, 10, 0.9)
	charged, discharged := b.Step(5, 0)
	assert.InDelta(t, 4.5, charged, 1e-9)
	assert.Equal(t, 0.0, discharged)
	assert.InDelta(t, 4.5, b.StateKWh, 1e-9)
}

func TestBattery_ChargeLimitedByHeadroom(t *testing.T) {
	b := newTestBattery(t, 10, 0.9)
	b.StateKWh = 9
	charged, _ := b.Step(100, 0)
	assert.InDelta(t, 1, charged, 1e-9)
	assert.InDelta(t, 10, b.StateKWh, 1e-9)
}

func TestBattery_DischargeLimitedByReserve(t *testing.T) {
	b := newTestBattery(t, 10, 0.9)
	b.StateKWh = 2
	charged, discharged := b.Step(0, 5)
	assert.Equal(t, 0.0, charged)
	assert.InDelta(t, 2, discharged, 1e-9)
	assert.Equal(t, 0.0, b.StateKWh)
}

func TestBattery_ChargeThenDischargeInSameStep(t *testing.T) {
	// Both inputs set: the charge lands first and is immediately available
	// to the discharge phase.
	b := newTestBattery(t, 10, 0.5)
	charged, discharged := b.Step(4, 3)
	assert.InDelta(t, 2, charged, 1e-9)
	assert.InDelta(t, 2, discharged, 1e-9)
	assert.InDelta(t, 0, b.StateKWh, 1e-9)
}

func TestBattery_ZeroInputIsNoop(t *testing.T) {
	b := newTestBattery(t, 10, 0.9)
	b.StateKWh = 3.3
	charged, discharged := b.Step(0, 0)
	assert.Equal(t, 0.0, charged)
	assert.Equal(t, 0.0, discharged)
	assert.Equal(t, 3.3, b.StateKWh)
}

func TestBattery_NegativeInputsFloored(t *testing.T) {
	b := newTestBattery(t, 10, 0.9)
	b.StateKWh = 5
	charged, discharged := b.Step(-3, -2)
	assert.Equal(t, 0.0, charged)
	assert.Equal(t, 0.0, discharged)
	assert.Equal(t, 5.0, b.StateKWh)
}

func TestBattery_ZeroCapacity(t *testing.T) {
	b := newTestBattery(t, 0, 0.9)
	for i := 0; i < 5; i++ {
		charged, discharged := b.Step(float64(i*3), float64(i))
		assert.Equal(t, 0.0, charged)
		assert.Equal(t, 0.0, discharged)
		assert.Equal(t, 0.0, b.StateKWh)
	}
	assert.Equal(t, 0.0, b.HeadroomKWh())
}

func TestBattery_StateStaysInBounds(t *testing.T) {
	inputs := []float64{0, 0.1, 1, 2.5, 7, 13, 40, 1e6}
	for _, capacity := range []float64{0, 1, 5, 13.5} {
		for _, eff := range []float64{0.1, 0.9, 1} {
			b := newTestBattery(t, capacity, eff)
			for _, ex := range inputs {
				for _, sh := range inputs {
					charged, discharged := b.Step(ex, sh)
					require.GreaterOrEqual(t, b.StateKWh, 0.0)
					require.LessOrEqual(t, b.StateKWh, capacity)
					require.GreaterOrEqual(t, charged, 0.0)
					require.GreaterOrEqual(t, discharged, 0.0)
					require.LessOrEqual(t, charged, ex*eff+1e-9)
				}
			}
		}
	}
}

func TestBattery_HeadroomTracksState(t *testing.T) {
	b := newTestBattery(t, 10, 0.9)
	b.StateKWh = 8
	assert.InDelta(t, 2, b.HeadroomKWh(), 1e-9)

	charged, _ := b.Step(5, 0)
	assert.InDelta(t, 2, charged, 1e-9)
	assert.InDelta(t, 0, b.HeadroomKWh(), 1e-9)
}

func TestActionFromFlows(t *testing.T) {
	assert.Equal(t, ActionIdle, ActionFromFlows(0, 0))
	assert.Equal(t, ActionCharging, ActionFromFlows(1, 0))
	assert.Equal(t, ActionDischarging, ActionFromFlows(0, 1))
	assert.Equal(t, ActionDischarging, ActionFromFlows(1, 2))
}
