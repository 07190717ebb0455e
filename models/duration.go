package models

// DurationBreakdown is a work duration split into calendar units of the
// configured work calendar. Each field is below the size of the next unit up.
type DurationBreakdown struct {
	Years   int `json:"years" yaml:"years"`
	Months  int `json:"months" yaml:"months"`
	Days    int `json:"days" yaml:"days"`
	Hours   int `json:"hours" yaml:"hours"`
	Minutes int `json:"minutes" yaml:"minutes"`
}

// IsZero reports whether every unit is zero.
func (b DurationBreakdown) IsZero() bool {
	return b == DurationBreakdown{}
}

// TotalHours folds the breakdown back into hours under the given calendar.
func (b DurationBreakdown) TotalHours(hoursPerDay, daysPerMonth float64) float64 {
	hoursPerMonth := hoursPerDay * daysPerMonth
	return float64(b.Years)*hoursPerMonth*12 +
		float64(b.Months)*hoursPerMonth +
		float64(b.Days)*hoursPerDay +
		float64(b.Hours) +
		float64(b.Minutes)/60
}

// UnitNames are the localized unit labels used for badges.
type UnitNames struct {
	Years   string `json:"years_unit" yaml:"years_unit"`
	Months  string `json:"months_unit" yaml:"months_unit"`
	Days    string `json:"days_unit" yaml:"days_unit"`
	Hours   string `json:"hours_unit" yaml:"hours_unit"`
	Minutes string `json:"minutes_unit" yaml:"minutes_unit"`
}

// EnglishUnits is the fallback unit table.
func EnglishUnits() UnitNames {
	return UnitNames{
		Years:   "years",
		Months:  "months",
		Days:    "days",
		Hours:   "hours",
		Minutes: "minutes",
	}
}
