package common

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/money-is-time/models"
	"github.com/dtnitsch/money-is-time/pkg/storage"
)

// EnvPrefix prefixes every environment variable read as configuration.
const EnvPrefix = "MIT_"

// LoadConfig builds the runtime configuration. Later sources win:
// defaults, the YAML file at path (optional, may be empty), then MIT_*
// environment variables. CLI flags are applied by the caller.
func LoadConfig(path string) (models.RuntimeConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(models.DefaultRuntimeConfig(), "koanf"), nil); err != nil {
		return models.RuntimeConfig{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		data, err := (&storage.Storage{}).ReadFile(path)
		if err != nil {
			return models.RuntimeConfig{}, fmt.Errorf("failed to read config file: %w", err)
		}
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return models.RuntimeConfig{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		if err := k.Load(rawMap(raw), nil); err != nil {
			return models.RuntimeConfig{}, fmt.Errorf("failed to apply config file: %w", err)
		}
	}

	envToPath := make(map[string]string)
	for _, key := range k.Keys() {
		envToPath[EnvPrefix+strings.ToUpper(strings.ReplaceAll(key, ".", "_"))] = key
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			// unknown MIT_* variables are ignored
			return envToPath[key], value
		},
	}), nil); err != nil {
		return models.RuntimeConfig{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg models.RuntimeConfig
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}); err != nil {
		return models.RuntimeConfig{}, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return models.RuntimeConfig{}, err
	}
	return cfg, nil
}

// ValidateConfig checks the struct tags on cfg.
func ValidateConfig(cfg models.RuntimeConfig) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// rawMap is a koanf.Provider adapter for map[string]any data.
type rawMap map[string]any

func (r rawMap) Read() (map[string]any, error) {
	return r, nil
}

func (r rawMap) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("ReadBytes not implemented")
}
