// Package rates fetches and caches currency exchange rates.
package rates

import (
	"context"
	"errors"

	"github.com/dtnitsch/money-is-time/models"
)

// ErrRateUnavailable is returned when no rate could be found in either
// direction between two currencies.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// Provider returns multipliers for base: amount-in-base * rates[code] =
// amount-in-code. It is the only network-facing dependency and is called
// through Cache.
type Provider interface {
	Rates(ctx context.Context, base string) (map[string]float64, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, base string) (map[string]float64, error)

// Rates calls f.
func (f ProviderFunc) Rates(ctx context.Context, base string) (map[string]float64, error) {
	return f(ctx, base)
}

// SnapshotProvider is implemented by providers that can serve rates fetched
// earlier. Cache uses FetchSnapshot when available so the snapshot keeps the
// time it was originally fetched, not the time it was handed over.
type SnapshotProvider interface {
	FetchSnapshot(ctx context.Context, base string) (models.RateSnapshot, error)
}
