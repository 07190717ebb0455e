package duration

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/money-is-time/models"
)

func monthlyConfig() models.SalaryConfig {
	return models.SalaryConfig{
		Salary:       3000,
		SalaryType:   models.SalaryMonthly,
		HoursPerDay:  8,
		DaysPerMonth: 21,
		Currency:     "EUR",
	}
}

func TestHourlyWage(t *testing.T) {
	tests := []struct {
		name string
		cfg  models.SalaryConfig
		want float64
	}{
		{name: "hourly", cfg: models.SalaryConfig{Salary: 20, SalaryType: models.SalaryHourly, HoursPerDay: 8, DaysPerMonth: 21}, want: 20},
		{name: "daily", cfg: models.SalaryConfig{Salary: 160, SalaryType: models.SalaryDaily, HoursPerDay: 8, DaysPerMonth: 21}, want: 20},
		{name: "monthly", cfg: monthlyConfig(), want: 3000.0 / 168},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HourlyWage(tt.cfg)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestHourlyWage_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  models.SalaryConfig
	}{
		{name: "zero salary", cfg: models.SalaryConfig{Salary: 0, SalaryType: models.SalaryHourly, HoursPerDay: 8, DaysPerMonth: 21}},
		{name: "negative salary", cfg: models.SalaryConfig{Salary: -5, SalaryType: models.SalaryHourly, HoursPerDay: 8, DaysPerMonth: 21}},
		{name: "zero hours per day", cfg: models.SalaryConfig{Salary: 100, SalaryType: models.SalaryDaily, HoursPerDay: 0, DaysPerMonth: 21}},
		{name: "negative days per month", cfg: models.SalaryConfig{Salary: 100, SalaryType: models.SalaryMonthly, HoursPerDay: 8, DaysPerMonth: -1}},
		{name: "infinite salary", cfg: models.SalaryConfig{Salary: math.Inf(1), SalaryType: models.SalaryHourly, HoursPerDay: 8, DaysPerMonth: 21}},
		{name: "nan salary", cfg: models.SalaryConfig{Salary: math.NaN(), SalaryType: models.SalaryHourly, HoursPerDay: 8, DaysPerMonth: 21}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HourlyWage(tt.cfg)
			assert.True(t, errors.Is(err, ErrConfigurationInvalid), "got %v", err)

			_, err = Convert(100, tt.cfg)
			assert.ErrorIs(t, err, ErrConfigurationInvalid)
		})
	}
}

func TestConvert_MonthlySalaryExample(t *testing.T) {
	b, err := Convert(168, monthlyConfig())
	require.NoError(t, err)

	assert.Equal(t, models.DurationBreakdown{Years: 0, Months: 0, Days: 1, Hours: 1, Minutes: 24}, b)
}

func TestConvert_RejectsBadAmounts(t *testing.T) {
	for _, amount := range []float64{-1, math.NaN(), math.Inf(1), 1e30} {
		_, err := Convert(amount, monthlyConfig())
		assert.ErrorIs(t, err, ErrConfigurationInvalid, "amount %v", amount)
	}

	hourly := models.SalaryConfig{Salary: 10, SalaryType: models.SalaryHourly, HoursPerDay: 8, DaysPerMonth: 21}
	_, err := Convert(1e30, hourly)
	assert.ErrorIs(t, err, ErrConfigurationInvalid)
}

func TestConvert_LargestAcceptedAmount(t *testing.T) {
	hourly := models.SalaryConfig{Salary: 1, SalaryType: models.SalaryHourly, HoursPerDay: 8, DaysPerMonth: 21}

	b, err := Convert(float64(MaxYears)*2016, hourly)
	require.NoError(t, err)
	assert.Equal(t, MaxYears, b.Years)
	assert.GreaterOrEqual(t, b.Months, 0)
	assert.GreaterOrEqual(t, b.Minutes, 0)
}

func TestDecompose(t *testing.T) {
	tests := []struct {
		name  string
		hours float64
		want  models.DurationBreakdown
	}{
		{name: "zero", hours: 0, want: models.DurationBreakdown{}},
		{name: "minutes only", hours: 0.5, want: models.DurationBreakdown{Minutes: 30}},
		{name: "exact day", hours: 8, want: models.DurationBreakdown{Days: 1}},
		{name: "exact month", hours: 168, want: models.DurationBreakdown{Months: 1}},
		{name: "exact year", hours: 2016, want: models.DurationBreakdown{Years: 1}},
		{name: "mixed", hours: 2016 + 168*2 + 8*3 + 4 + 0.25, want: models.DurationBreakdown{Years: 1, Months: 2, Days: 3, Hours: 4, Minutes: 15}},
		{name: "minute carry into hour", hours: 2.9999, want: models.DurationBreakdown{Hours: 3}},
		{name: "minute carry into day", hours: 7.9999, want: models.DurationBreakdown{Days: 1}},
		{name: "minute carry into month", hours: 167.9999, want: models.DurationBreakdown{Months: 1}},
		{name: "minute carry into year", hours: 2015.9999, want: models.DurationBreakdown{Years: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decompose(tt.hours, 8, 21)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecompose_Invariants(t *testing.T) {
	calendars := [][2]float64{{8, 21}, {7.5, 20}, {6, 22.5}, {10, 4}}
	for _, cal := range calendars {
		hoursPerDay, daysPerMonth := cal[0], cal[1]
		for h := 0.0; h < 5000; h += 3.37 {
			b := Decompose(h, hoursPerDay, daysPerMonth)

			require.GreaterOrEqual(t, b.Years, 0)
			require.True(t, b.Months >= 0 && b.Months < 12, "months %d", b.Months)
			require.True(t, b.Days >= 0 && float64(b.Days) < daysPerMonth, "days %d", b.Days)
			require.True(t, b.Hours >= 0 && float64(b.Hours) < hoursPerDay, "hours %d", b.Hours)
			require.True(t, b.Minutes >= 0 && b.Minutes < 60, "minutes %d", b.Minutes)
			assert.InDelta(t, h, b.TotalHours(hoursPerDay, daysPerMonth), 1.0/60, "calendar %v hours %v", cal, h)
		}
	}
}
