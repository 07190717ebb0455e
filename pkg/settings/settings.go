// Package settings reads and writes the viewer's salary settings and the
// per-site exclusion list.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/dtnitsch/money-is-time/models"
	"github.com/dtnitsch/money-is-time/pkg/db"
)

// Stored key names.
const (
	KeySalary       = "salary"
	KeySalaryType   = "salaryType"
	KeyCurrency     = "currency"
	KeyHoursPerDay  = "hoursPerDay"
	KeyDaysPerMonth = "daysPerMonth"
	KeyEnabled      = "enabled"
	KeyLanguage     = "language"
	KeyBlacklist    = "blacklist"
)

// ErrUnknownKey is returned by Set for a key outside the stored set.
var ErrUnknownKey = errors.New("unknown setting")

// Keys lists the settable keys in display order.
var Keys = []string{
	KeySalary, KeySalaryType, KeyCurrency, KeyHoursPerDay,
	KeyDaysPerMonth, KeyEnabled, KeyLanguage,
}

// Provider loads the settings an annotator run needs.
type Provider interface {
	Settings(ctx context.Context) (models.Settings, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (models.Settings, error)

func (f ProviderFunc) Settings(ctx context.Context) (models.Settings, error) { return f(ctx) }

// Static returns a Provider that always yields s.
func Static(s models.Settings) Provider {
	return ProviderFunc(func(context.Context) (models.Settings, error) { return s, nil })
}

// Allowed reports whether annotation may run on domain.
func Allowed(s models.Settings, domain string) bool {
	return s.Enabled && !s.Blacklisted(domain)
}

// KV is the key/value storage the Store persists to.
type KV interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

// Store is a Provider backed by a KV. Keys that were never stored take
// their default value.
type Store struct {
	kv KV
}

// NewStore returns a Store over kv.
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Settings implements Provider.
func (s *Store) Settings(_ context.Context) (models.Settings, error) {
	out := models.DefaultSettings()

	get := func(key string) (string, bool, error) {
		v, err := s.kv.GetSetting(key)
		if errors.Is(err, db.ErrSettingNotFound) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		return v, true, nil
	}

	keys := append(append([]string(nil), Keys...), KeyBlacklist)
	for _, key := range keys {
		v, ok, err := get(key)
		if err != nil {
			return models.Settings{}, fmt.Errorf("failed to load settings: %w", err)
		}
		if !ok {
			continue
		}
		apply(&out, key, v)
	}

	return out, nil
}

func apply(s *models.Settings, key, v string) {
	switch key {
	case KeySalary:
		s.Salary.Salary = parseNumber(v)
	case KeySalaryType:
		s.Salary.SalaryType = models.ParseSalaryType(v)
	case KeyCurrency:
		s.Salary.Currency = strings.ToUpper(strings.TrimSpace(v))
	case KeyHoursPerDay:
		s.Salary.HoursPerDay = parseNumber(v)
	case KeyDaysPerMonth:
		s.Salary.DaysPerMonth = parseNumber(v)
	case KeyEnabled:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		s.Enabled = err != nil || b
	case KeyLanguage:
		if v = strings.TrimSpace(v); v != "" {
			s.Language = strings.ToLower(v)
		}
	case KeyBlacklist:
		var domains []string
		if err := json.Unmarshal([]byte(v), &domains); err == nil {
			for _, d := range domains {
				s.BlacklistedDomains[strings.ToLower(d)] = struct{}{}
			}
		}
	}
}

// parseNumber follows the settings form: anything unparseable counts as 0,
// which the converter then rejects.
func parseNumber(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}

// Set validates and stores one setting.
func (s *Store) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case KeySalary, KeyHoursPerDay, KeyDaysPerMonth:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("invalid number for %s: %q", key, value)
		}
	case KeySalaryType:
		switch models.SalaryType(strings.ToLower(value)) {
		case models.SalaryHourly, models.SalaryDaily, models.SalaryMonthly:
			value = strings.ToLower(value)
		default:
			return fmt.Errorf("invalid salary type %q: want hourly, daily or monthly", value)
		}
	case KeyCurrency:
		value = strings.ToUpper(value)
		if len(value) != 3 {
			return fmt.Errorf("invalid currency code %q", value)
		}
	case KeyEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q", key, value)
		}
		value = strconv.FormatBool(b)
	case KeyLanguage:
		value = strings.ToLower(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	return s.kv.SetSetting(key, value)
}

// Exclude adds domain to the blacklist.
func (s *Store) Exclude(ctx context.Context, domain string) error {
	return s.updateBlacklist(ctx, func(m map[string]struct{}) {
		m[strings.ToLower(domain)] = struct{}{}
	})
}

// Include removes domain from the blacklist.
func (s *Store) Include(ctx context.Context, domain string) error {
	return s.updateBlacklist(ctx, func(m map[string]struct{}) {
		delete(m, strings.ToLower(domain))
	})
}

func (s *Store) updateBlacklist(ctx context.Context, fn func(map[string]struct{})) error {
	current, err := s.Settings(ctx)
	if err != nil {
		return err
	}
	fn(current.BlacklistedDomains)

	domains := current.Domains()
	sort.Strings(domains)
	data, err := json.Marshal(domains)
	if err != nil {
		return fmt.Errorf("failed to encode blacklist: %w", err)
	}
	return s.kv.SetSetting(KeyBlacklist, string(data))
}
