// Package models defines data structures for configuration, prices and durations.
package models

import "time"

// RuntimeConfig holds process-level configuration for the CLI and server.
// Values come from defaults, an optional YAML file, MIT_* environment variables
// and finally CLI flags.
type RuntimeConfig struct {
	DBPath     string          `koanf:"db_path" yaml:"db_path"`
	CacheDir   string          `koanf:"cache_dir" yaml:"cache_dir" validate:"required"`
	Rates      RatesConfig     `koanf:"rates" yaml:"rates"`
	Annotator  AnnotatorConfig `koanf:"annotator" yaml:"annotator"`
	Normalizer string          `koanf:"normalizer" yaml:"normalizer" validate:"oneof=thousands decimal"`
}

// RatesConfig configures the exchange-rate provider and cache.
type RatesConfig struct {
	APIURL     string        `koanf:"api_url" yaml:"api_url" validate:"required,url"`
	TTL        time.Duration `koanf:"ttl" yaml:"ttl" validate:"gt=0"`
	FailureTTL time.Duration `koanf:"failure_ttl" yaml:"failure_ttl" validate:"gte=0"`
	Timeout    time.Duration `koanf:"timeout" yaml:"timeout" validate:"gt=0"`
	CacheSize  int           `koanf:"cache_size" yaml:"cache_size" validate:"gt=0"`
}

// AnnotatorConfig tunes scan scheduling and badge density.
type AnnotatorConfig struct {
	InitialDelay     time.Duration `koanf:"initial_delay" yaml:"initial_delay" validate:"gte=0"`
	Debounce         time.Duration `koanf:"debounce" yaml:"debounce" validate:"gt=0"`
	MaxWait          time.Duration `koanf:"max_wait" yaml:"max_wait" validate:"gtefield=Debounce"`
	CompactThreshold int           `koanf:"compact_threshold" yaml:"compact_threshold" validate:"gte=0"`
}

// DefaultRuntimeConfig returns the built-in defaults:
// 24h rate TTL, 120ms initial delay and compact badges after 15 annotations.
func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		CacheDir: ".mit-cache",
		Rates: RatesConfig{
			APIURL:     "https://open.er-api.com",
			TTL:        24 * time.Hour,
			FailureTTL: 24 * time.Hour,
			Timeout:    10 * time.Second,
			CacheSize:  64,
		},
		Annotator: AnnotatorConfig{
			InitialDelay:     120 * time.Millisecond,
			Debounce:         100 * time.Millisecond,
			MaxWait:          time.Second,
			CompactThreshold: 15,
		},
		Normalizer: "thousands",
	}
}
