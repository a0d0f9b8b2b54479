package solar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDailyIrradiance(t *testing.T) {
	assert.Equal(t, 3.2, DailyIrradiance("London"))
	assert.Equal(t, 2.4, DailyIrradiance("belfast, GB"))
	assert.Equal(t, DefaultDailyIrradiance, DailyIrradiance("Glasgow"))
	assert.Equal(t, DefaultDailyIrradiance, DailyIrradiance(""))
}

func TestMonthlyFactorAndDays(t *testing.T) {
	assert.Equal(t, 0.45, MonthlyFactor(time.January))
	assert.Equal(t, 1.15, MonthlyFactor(time.June))
	assert.Equal(t, 0.4, MonthlyFactor(time.December))
	assert.Equal(t, 1.0, MonthlyFactor(0))

	total := 0
	for m := time.January; m <= time.December; m++ {
		total += DaysIn(m)
	}
	assert.Equal(t, 365, total)
	assert.Equal(t, 28, DaysIn(time.February))
	assert.Zero(t, DaysIn(13))
}
