package db

import (
	"errors"
	"testing"
)

func TestSettings(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.GetSetting("salary"); !errors.Is(err, ErrSettingNotFound) {
		t.Fatalf("GetSetting() on missing key error = %v, want ErrSettingNotFound", err)
	}

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "insert", key: "salary", value: "25"},
		{name: "overwrite", key: "salary", value: "30"},
		{name: "json value", key: "blacklist", value: `["example.com"]`},
		{name: "empty value", key: "language", value: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := db.SetSetting(tt.key, tt.value); err != nil {
				t.Fatalf("SetSetting() error = %v", err)
			}
			got, err := db.GetSetting(tt.key)
			if err != nil {
				t.Fatalf("GetSetting() error = %v", err)
			}
			if got != tt.value {
				t.Errorf("GetSetting() = %q, want %q", got, tt.value)
			}
		})
	}

	all, err := db.ListSettings()
	if err != nil {
		t.Fatalf("ListSettings() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListSettings() returned %d keys, want 3", len(all))
	}
	if all["salary"] != "30" {
		t.Errorf("ListSettings()[salary] = %q, want 30", all["salary"])
	}

	if err := db.DeleteSetting("salary"); err != nil {
		t.Fatalf("DeleteSetting() error = %v", err)
	}
	if _, err := db.GetSetting("salary"); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("GetSetting() after delete error = %v, want ErrSettingNotFound", err)
	}
	if err := db.DeleteSetting("never-stored"); err != nil {
		t.Errorf("DeleteSetting() on missing key error = %v", err)
	}
}
