// Package caching persists exchange-rate snapshots on disk between runs.
package caching

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/money-is-time/models"
	"github.com/dtnitsch/money-is-time/pkg/storage"
)

var baseCode = regexp.MustCompile(`^[A-Z]{3}$`)

// SnapshotStore keeps one YAML file per base currency.
type SnapshotStore struct {
	path  string
	ttl   time.Duration
	now   func() time.Time
	files *storage.Storage
}

// NewSnapshotStore creates a store rooted at path.
// The directory is created if it doesn't exist.
func NewSnapshotStore(path string, ttl time.Duration) (*SnapshotStore, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &SnapshotStore{
		path:  path,
		ttl:   ttl,
		now:   time.Now,
		files: &storage.Storage{},
	}, nil
}

// file returns the snapshot file for base, rejecting anything that is not an
// ISO code so base can never escape the cache directory.
func (s *SnapshotStore) file(base string) (string, error) {
	base = strings.ToUpper(base)
	if !baseCode.MatchString(base) {
		return "", fmt.Errorf("invalid base currency %q", base)
	}
	return filepath.Join(s.path, base+".yaml"), nil
}

// Load returns the stored snapshot for base if it exists and is younger than
// the TTL. Failed snapshots are never stored, so they are never loaded.
func (s *SnapshotStore) Load(base string) (models.RateSnapshot, bool) {
	filePath, err := s.file(base)
	if err != nil {
		return models.RateSnapshot{}, false
	}

	data, err := s.files.ReadFile(filePath)
	if err != nil {
		return models.RateSnapshot{}, false // Cache miss
	}

	var snap models.RateSnapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return models.RateSnapshot{}, false // Cache miss (corrupt file)
	}
	if !snap.Fresh(s.now(), s.ttl) || len(snap.Rates) == 0 {
		return models.RateSnapshot{}, false // Cache miss (expired)
	}
	return snap, true
}

// Save writes snap, replacing any earlier snapshot for the same base.
func (s *SnapshotStore) Save(snap models.RateSnapshot) error {
	if snap.Failed || len(snap.Rates) == 0 {
		return nil
	}
	filePath, err := s.file(snap.Base)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := s.files.SaveFile(filePath, data); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}
