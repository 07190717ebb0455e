package rates

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dtnitsch/money-is-time/models"
)

// SnapshotStore persists snapshots across processes.
type SnapshotStore interface {
	Load(base string) (models.RateSnapshot, bool)
	Save(snap models.RateSnapshot) error
}

// StoredProvider serves rates from a SnapshotStore and falls back to the
// wrapped Provider, saving what it fetched.
type StoredProvider struct {
	next   Provider
	store  SnapshotStore
	logger *slog.Logger
	now    func() time.Time
}

// NewStoredProvider wraps next with store.
func NewStoredProvider(next Provider, store SnapshotStore, logger *slog.Logger) *StoredProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoredProvider{next: next, store: store, logger: logger, now: time.Now}
}

// Rates implements Provider.
func (p *StoredProvider) Rates(ctx context.Context, base string) (map[string]float64, error) {
	snap, err := p.FetchSnapshot(ctx, base)
	if err != nil {
		return nil, err
	}
	return snap.Rates, nil
}

// FetchSnapshot implements SnapshotProvider. A snapshot loaded from disk keeps
// its original FetchedAt.
func (p *StoredProvider) FetchSnapshot(ctx context.Context, base string) (models.RateSnapshot, error) {
	base = strings.ToUpper(base)
	if snap, ok := p.store.Load(base); ok {
		p.logger.Debug("Loaded rates from disk", "base", base, "fetched_at", snap.FetchedAt)
		return snap, nil
	}

	rates, err := p.next.Rates(ctx, base)
	if err != nil {
		return models.RateSnapshot{}, err
	}

	snap := models.RateSnapshot{Base: base, Rates: rates, FetchedAt: p.now()}
	if err := p.store.Save(snap); err != nil {
		p.logger.Warn("Failed to persist rates", "base", base, "error", err)
	}
	return snap, nil
}

// WithClock replaces time.Now for snapshots fetched through p.
func (p *StoredProvider) WithClock(now func() time.Time) *StoredProvider {
	p.now = now
	return p
}
