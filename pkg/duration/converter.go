// Package duration converts money into work time and renders it as a label.
package duration

import (
	"errors"
	"fmt"
	"math"

	"github.com/dtnitsch/money-is-time/models"
)

// ErrConfigurationInvalid is returned when the salary configuration cannot
// produce a positive, finite hourly wage.
var ErrConfigurationInvalid = errors.New("salary configuration invalid")

// MaxYears is the largest duration Convert will break down. Anything longer
// comes from a runaway numeral, not a price.
const MaxYears = math.MaxInt32

// HourlyWage derives the hourly wage from cfg.
func HourlyWage(cfg models.SalaryConfig) (float64, error) {
	if cfg.HoursPerDay <= 0 || cfg.DaysPerMonth <= 0 {
		return 0, fmt.Errorf("%w: hours per day %v, days per month %v", ErrConfigurationInvalid, cfg.HoursPerDay, cfg.DaysPerMonth)
	}

	hourly := cfg.Salary
	switch cfg.SalaryType {
	case models.SalaryDaily:
		hourly /= cfg.HoursPerDay
	case models.SalaryMonthly:
		hourly /= cfg.DaysPerMonth * cfg.HoursPerDay
	}

	if hourly <= 0 || math.IsNaN(hourly) || math.IsInf(hourly, 0) {
		return 0, fmt.Errorf("%w: hourly wage %v", ErrConfigurationInvalid, hourly)
	}
	return hourly, nil
}

// Hours returns how many working hours amount represents.
func Hours(amount float64, cfg models.SalaryConfig) (float64, error) {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("%w: amount %v", ErrConfigurationInvalid, amount)
	}
	hourly, err := HourlyWage(cfg)
	if err != nil {
		return 0, err
	}
	return amount / hourly, nil
}

// Convert breaks amount (already in the salary currency) down into years,
// months, days, hours and minutes of the configured work calendar.
func Convert(amount float64, cfg models.SalaryConfig) (models.DurationBreakdown, error) {
	total, err := Hours(amount, cfg)
	if err != nil {
		return models.DurationBreakdown{}, err
	}
	if hoursPerYear := cfg.HoursPerDay * cfg.DaysPerMonth * 12; total/hoursPerYear > MaxYears {
		return models.DurationBreakdown{}, fmt.Errorf("%w: amount %v exceeds %d years", ErrConfigurationInvalid, amount, MaxYears)
	}
	return Decompose(total, cfg.HoursPerDay, cfg.DaysPerMonth), nil
}

// Decompose splits totalHours greedily from years down to minutes. Only the
// minutes are rounded; a rounded 60 carries upwards through every unit.
// totalHours must not exceed MaxYears of the calendar.
func Decompose(totalHours, hoursPerDay, daysPerMonth float64) models.DurationBreakdown {
	hoursPerMonth := hoursPerDay * daysPerMonth
	hoursPerYear := hoursPerMonth * 12

	var b models.DurationBreakdown
	rem := totalHours
	b.Years, rem = split(rem, hoursPerYear)
	b.Months, rem = split(rem, hoursPerMonth)
	b.Days, rem = split(rem, hoursPerDay)
	b.Hours, rem = split(rem, 1)
	b.Minutes = int(math.Round(rem * 60))

	if b.Minutes >= 60 {
		b.Minutes -= 60
		b.Hours++
		if float64(b.Hours) >= hoursPerDay {
			b.Hours = 0
			b.Days++
			if float64(b.Days) >= daysPerMonth {
				b.Days = 0
				b.Months++
				if b.Months >= 12 {
					b.Months = 0
					b.Years++
				}
			}
		}
	}
	return b
}

// split returns how many whole units of size fit in rem and what is left,
// absorbing float error so the remainder stays within [0, size).
func split(rem, size float64) (int, float64) {
	q := math.Floor(rem / size)
	r := rem - q*size
	if r < 0 {
		r = 0
	}
	if r >= size {
		q++
		r -= size
	}
	return int(q), r
}
