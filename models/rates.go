package models

import "time"

// RateSnapshot is the set of multipliers fetched for one base currency.
// amount-in-base * Rates[code] = amount-in-code. Snapshots are replaced on
// refresh, never mutated.
type RateSnapshot struct {
	Base      string             `json:"base" yaml:"base"`
	Rates     map[string]float64 `json:"rates" yaml:"rates"`
	FetchedAt time.Time          `json:"fetched_at" yaml:"fetched_at"`
	Failed    bool               `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// Fresh reports whether the snapshot is younger than ttl at now.
func (s RateSnapshot) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.FetchedAt) < ttl
}
