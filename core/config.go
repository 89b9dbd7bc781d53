package core

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config tunes container growth and representation thresholds.
type Config struct {
	// GrowthFactor multiplies the current length when an array buffer grows.
	GrowthFactor int `toml:"growth_factor" yaml:"growth_factor"`
	// MinArrayCapacity is the smallest buffer allocated for a non-empty array.
	MinArrayCapacity int `toml:"min_array_capacity" yaml:"min_array_capacity"`
	// SmallMapCapacity bounds the linear-scan tier of a hash.
	SmallMapCapacity int `toml:"small_map_capacity" yaml:"small_map_capacity"`
	// SmallSortThreshold is the largest boxed array sorted by selection sort.
	SmallSortThreshold int `toml:"small_sort_threshold" yaml:"small_sort_threshold"`

	Logger *slog.Logger `toml:"-" yaml:"-"`
}

const (
	defaultGrowthFactor       = 2
	defaultMinArrayCapacity   = 4
	defaultSmallMapCapacity   = 8
	defaultSmallSortThreshold = 16
)

var defaultConfig = Config{}.withDefaults()

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config { return defaultConfig }

func (cfg Config) withDefaults() Config {
	if cfg.GrowthFactor < 2 {
		cfg.GrowthFactor = defaultGrowthFactor
	}
	if cfg.MinArrayCapacity <= 0 {
		cfg.MinArrayCapacity = defaultMinArrayCapacity
	}
	if cfg.SmallMapCapacity <= 0 {
		cfg.SmallMapCapacity = defaultSmallMapCapacity
	}
	if cfg.SmallSortThreshold <= 0 {
		cfg.SmallSortThreshold = defaultSmallSortThreshold
	}
	return cfg
}

// resolveConfig returns cfg with unset fields filled in. A config that is
// already complete is returned as is, so containers built from it share it.
func resolveConfig(cfg *Config) *Config {
	if cfg == nil {
		return &defaultConfig
	}
	if resolved := cfg.withDefaults(); resolved != *cfg {
		return &resolved
	}
	return cfg
}

func (cfg Config) validate() error {
	if cfg.GrowthFactor < 0 || cfg.GrowthFactor == 1 {
		return fmt.Errorf("growth_factor must be at least 2")
	}
	if cfg.MinArrayCapacity < 0 {
		return fmt.Errorf("min_array_capacity must be non-negative")
	}
	if cfg.SmallMapCapacity < 0 || cfg.SmallMapCapacity > 64 {
		return fmt.Errorf("small_map_capacity must be between 0 and 64")
	}
	if cfg.SmallSortThreshold < 0 {
		return fmt.Errorf("small_sort_threshold must be non-negative")
	}
	return nil
}

// LoadConfigFile reads a TOML or YAML config file, chosen by extension, and
// returns it with defaults applied.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg.withDefaults(), nil
}
