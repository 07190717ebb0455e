package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/money-is-time/models"
	"github.com/dtnitsch/money-is-time/pkg/db"
)

type memKV map[string]string

func (m memKV) GetSetting(key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", db.ErrSettingNotFound
	}
	return v, nil
}

func (m memKV) SetSetting(key, value string) error {
	m[key] = value
	return nil
}

type brokenKV struct{}

func (brokenKV) GetSetting(string) (string, error) { return "", errors.New("disk on fire") }
func (brokenKV) SetSetting(string, string) error   { return errors.New("disk on fire") }

func TestStore_Defaults(t *testing.T) {
	s, err := NewStore(memKV{}).Settings(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.DefaultSettings(), s)
}

func TestStore_StoredValues(t *testing.T) {
	kv := memKV{
		KeySalary:       "3500",
		KeySalaryType:   "monthly",
		KeyCurrency:     "usd",
		KeyHoursPerDay:  "7.5",
		KeyDaysPerMonth: "not a number",
		KeyEnabled:      "false",
		KeyLanguage:     "DE",
		KeyBlacklist:    `["Example.com","shop.test"]`,
	}

	s, err := NewStore(kv).Settings(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3500.0, s.Salary.Salary)
	assert.Equal(t, models.SalaryMonthly, s.Salary.SalaryType)
	assert.Equal(t, "USD", s.Salary.Currency)
	assert.Equal(t, 7.5, s.Salary.HoursPerDay)
	assert.Equal(t, 0.0, s.Salary.DaysPerMonth)
	assert.False(t, s.Enabled)
	assert.Equal(t, "de", s.Language)
	assert.True(t, s.Blacklisted("example.com"))
	assert.True(t, s.Blacklisted("SHOP.test"))
}

func TestStore_KVError(t *testing.T) {
	_, err := NewStore(brokenKV{}).Settings(context.Background())
	assert.Error(t, err)
}

func TestStore_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		stored  string
		wantErr bool
	}{
		{name: "salary", key: KeySalary, value: " 25.5 ", stored: "25.5"},
		{name: "bad salary", key: KeySalary, value: "lots", wantErr: true},
		{name: "salary type", key: KeySalaryType, value: "Daily", stored: "daily"},
		{name: "bad salary type", key: KeySalaryType, value: "weekly", wantErr: true},
		{name: "currency upper-cased", key: KeyCurrency, value: "gbp", stored: "GBP"},
		{name: "bad currency", key: KeyCurrency, value: "EURO", wantErr: true},
		{name: "enabled", key: KeyEnabled, value: "0", stored: "false"},
		{name: "language", key: KeyLanguage, value: "FR", stored: "fr"},
		{name: "unknown key", key: "theme", value: "dark", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := memKV{}
			err := NewStore(kv).Set(tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, kv)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.stored, kv[tt.key])
		})
	}

	assert.ErrorIs(t, NewStore(memKV{}).Set("theme", "dark"), ErrUnknownKey)
}

func TestStore_ExcludeInclude(t *testing.T) {
	ctx := context.Background()
	kv := memKV{}
	store := NewStore(kv)

	require.NoError(t, store.Exclude(ctx, "B.example"))
	require.NoError(t, store.Exclude(ctx, "a.example"))
	assert.Equal(t, `["a.example","b.example"]`, kv[KeyBlacklist])

	require.NoError(t, store.Include(ctx, "b.example"))
	s, err := store.Settings(ctx)
	require.NoError(t, err)
	assert.False(t, s.Blacklisted("b.example"))
	assert.True(t, s.Blacklisted("a.example"))

	require.NoError(t, store.Include(ctx, "never-added.example"))
}

func TestAllowed(t *testing.T) {
	s := models.DefaultSettings()
	s.BlacklistedDomains["blocked.example"] = struct{}{}

	assert.True(t, Allowed(s, "ok.example"))
	assert.False(t, Allowed(s, "blocked.example"))

	s.Enabled = false
	assert.False(t, Allowed(s, "ok.example"))
}

func TestStore_WithDatabase(t *testing.T) {
	database, err := db.OpenPath(t.TempDir() + "/settings.db")
	require.NoError(t, err)
	defer database.Close()

	store := NewStore(database)
	require.NoError(t, store.Set(KeySalary, "40"))
	require.NoError(t, store.Exclude(context.Background(), "example.com"))

	s, err := store.Settings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 40.0, s.Salary.Salary)
	assert.True(t, s.Blacklisted("example.com"))
}
