package models

import "strings"

// SalaryType selects how SalaryConfig.Salary is interpreted.
type SalaryType string

const (
	SalaryHourly  SalaryType = "hourly"
	SalaryDaily   SalaryType = "daily"
	SalaryMonthly SalaryType = "monthly"
)

// ParseSalaryType returns the salary type for s, falling back to hourly.
func ParseSalaryType(s string) SalaryType {
	switch SalaryType(strings.ToLower(strings.TrimSpace(s))) {
	case SalaryDaily:
		return SalaryDaily
	case SalaryMonthly:
		return SalaryMonthly
	default:
		return SalaryHourly
	}
}

// SalaryConfig describes the viewer's pay and work calendar.
// HoursPerDay and DaysPerMonth must be positive for conversions to be defined.
type SalaryConfig struct {
	Salary       float64    `json:"salary" yaml:"salary" validate:"gt=0"`
	SalaryType   SalaryType `json:"salary_type" yaml:"salary_type" validate:"oneof=hourly daily monthly"`
	HoursPerDay  float64    `json:"hours_per_day" yaml:"hours_per_day" validate:"gt=0"`
	DaysPerMonth float64    `json:"days_per_month" yaml:"days_per_month" validate:"gt=0"`
	Currency     string     `json:"currency" yaml:"currency" validate:"len=3"`
}

// Settings is everything the annotator reads from the settings store once
// per activation.
type Settings struct {
	Salary             SalaryConfig        `json:"salary" yaml:"salary"`
	Enabled            bool                `json:"enabled" yaml:"enabled"`
	Language           string              `json:"language" yaml:"language"`
	BlacklistedDomains map[string]struct{} `json:"-" yaml:"-"`
}

// DefaultSettings are the values used for keys that were never stored.
func DefaultSettings() Settings {
	return Settings{
		Salary: SalaryConfig{
			Salary:       0,
			SalaryType:   SalaryHourly,
			HoursPerDay:  8,
			DaysPerMonth: 21,
			Currency:     "EUR",
		},
		Enabled:            true,
		Language:           "en",
		BlacklistedDomains: map[string]struct{}{},
	}
}

// Blacklisted reports whether domain is excluded. Matching is case-insensitive
// on the host name.
func (s Settings) Blacklisted(domain string) bool {
	if domain == "" {
		return false
	}
	_, ok := s.BlacklistedDomains[strings.ToLower(domain)]
	return ok
}

// Domains returns the blacklisted domains in no particular order.
func (s Settings) Domains() []string {
	out := make([]string, 0, len(s.BlacklistedDomains))
	for d := range s.BlacklistedDomains {
		out = append(out, d)
	}
	return out
}
