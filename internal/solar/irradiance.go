package solar

import (
	"strings"
	"time"
)

// DefaultDailyIrradiance is used for cities without their own entry
// (kWh/m²/day).
const DefaultDailyIrradiance = 2.8

// dailyIrradiance is the average daily irradiance per city in kWh/m²/day.
var dailyIrradiance = map[string]float64{
	"london":     3.2,
	"manchester": 2.7,
	"edinburgh":  2.5,
	"cardiff":    2.9,
	"belfast":    2.4,
}

// DailyIrradiance returns the average irradiance for a city, ignoring case
// and any ", country" suffix.
func DailyIrradiance(city string) float64 {
	name := strings.TrimSpace(city)
	if i := strings.Index(name, ","); i >= 0 {
		name = name[:i]
	}
	if v, ok := dailyIrradiance[strings.ToLower(strings.TrimSpace(name))]; ok {
		return v
	}
	return DefaultDailyIrradiance
}

// monthlyFactors approximates UK seasonal variation, indexed by
// time.Month-1.
var monthlyFactors = [12]float64{0.45, 0.55, 0.75, 0.95, 1.1, 1.15, 1.1, 1.0, 0.85, 0.65, 0.5, 0.4}

// MonthlyFactor scales average daily irradiance for month m.
func MonthlyFactor(m time.Month) float64 {
	if m < time.January || m > time.December {
		return 1
	}
	return monthlyFactors[m-1]
}

// monthDays ignores leap years.
var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysIn returns the number of days in month m of a non-leap year.
func DaysIn(m time.Month) int {
	if m < time.January || m > time.December {
		return 0
	}
	return monthDays[m-1]
}
