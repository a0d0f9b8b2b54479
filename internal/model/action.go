package model

// Action is a human-friendly battery mode for an interval.
// Keep these values stable; they are intended for CSV output.
type Action string

const (
	ActionCharging    Action = "CHARGING"
	ActionIdle        Action = "IDLE"
	ActionDischarging Action = "DISCHARGING"
)

// ActionFromFlows classifies an interval by what the battery did. When both
// flows are non-zero the larger one wins.
func ActionFromFlows(chargedKWh, dischargedKWh float64) Action {
	switch {
	case chargedKWh <= 0 && dischargedKWh <= 0:
		return ActionIdle
	case chargedKWh >= dischargedKWh:
		return ActionCharging
	default:
		return ActionDischarging
	}
}
