package synth

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is a configuration for the synth application
type Config struct {
	HTTPAddr string `koanf:"http_addr" validate:"required"`
	// MaxCount caps how many entries one request may ask for.
	MaxCount int `koanf:"max_count" validate:"gte=1"`
	// DefaultCount is used when a request leaves count unset. Left out of the
	// file, it is lowered to MaxCount when that is smaller.
	DefaultCount int `koanf:"default_count" validate:"gte=1,ltefield=MaxCount"`
	// ExpiryTZ is an IANA timezone name for "now" in random expiries (e.g., "Asia/Shanghai").
	ExpiryTZ string `koanf:"expiry_tz" validate:"omitempty,timezone"`
	// UniqueRetries bounds redraws per entry for unique batches.
	UniqueRetries int `koanf:"unique_retries" validate:"gte=0"`
}

func DefaultConfig() *Config {
	return &Config{
		HTTPAddr:      "localhost:9090",
		MaxCount:      1000,
		DefaultCount:  10,
		UniqueRetries: defaultUniqueRetries,
	}
}

// LoadConfig overlays a YAML file on DefaultConfig and validates the result.
// An empty path yields the validated defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
		if err := k.Unmarshal("", cfg); err != nil {
			return nil, fmt.Errorf("unmarshaling config: %w", err)
		}
		if !k.Exists("default_count") && cfg.DefaultCount > cfg.MaxCount {
			cfg.DefaultCount = cfg.MaxCount
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Clock returns time.Now read in ExpiryTZ (UTC when unset).
func (c *Config) Clock() (func() time.Time, error) {
	loc := time.UTC
	if c.ExpiryTZ != "" {
		l, err := time.LoadLocation(c.ExpiryTZ)
		if err != nil {
			return nil, fmt.Errorf("loading expiry timezone: %w", err)
		}
		loc = l
	}
	return func() time.Time { return time.Now().In(loc) }, nil
}
