package model

import (
	"fmt"
	"strings"
)

// Orientation is the compass direction a panel faces.
type Orientation string

const (
	OrientationSouth Orientation = "South"
	OrientationEast  Orientation = "East"
	OrientationWest  Orientation = "West"
	OrientationNorth Orientation = "North"
)

// ParseOrientation accepts any casing; empty input means South.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "south", "s":
		return OrientationSouth, nil
	case "east", "e":
		return OrientationEast, nil
	case "west", "w":
		return OrientationWest, nil
	case "north", "n":
		return OrientationNorth, nil
	}
	return "", fmt.Errorf("%w: unknown orientation %q", ErrInvalidInput, s)
}

// Aspect is the PVGIS aspect angle in degrees: 0 south, -90 east, 90 west,
// 180 north.
func (o Orientation) Aspect() float64 {
	switch o {
	case OrientationEast:
		return -90
	case OrientationWest:
		return 90
	case OrientationNorth:
		return 180
	default:
		return 0
	}
}

// YieldFactor scales south-facing yield for other orientations.
func (o Orientation) YieldFactor() float64 {
	switch o {
	case OrientationEast, OrientationWest:
		return 0.85
	case OrientationNorth:
		return 0.5
	default:
		return 1.0
	}
}

// Site describes the PV array and where it is.
type Site struct {
	City               string      `json:"city"`
	Latitude           float64     `json:"latitude"`
	Longitude          float64     `json:"longitude"`
	PanelAreaM2        float64     `json:"panel_area_m2"`
	PanelEfficiencyPct float64     `json:"panel_efficiency_pct"`
	TiltDeg            float64     `json:"tilt_deg"`
	Orientation        Orientation `json:"orientation"`
	SystemLossPct      float64     `json:"system_loss_pct"`
}

// EnergyKWh converts plane-of-array irradiance for one interval (kWh/m²)
// into panel output.
func (s Site) EnergyKWh(irradianceKWhM2 float64) float64 {
	if irradianceKWhM2 <= 0 {
		return 0
	}
	return irradianceKWhM2 * s.PanelAreaM2 * (s.PanelEfficiencyPct / 100)
}
