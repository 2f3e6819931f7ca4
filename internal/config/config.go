// Package config handles TOML configuration loading with environment
// variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/slateplayer/slate/internal/filter"
)

// Config is the root configuration structure.
type Config struct {
	Player      PlayerConfig      `toml:"player"`
	Scan        ScanConfig        `toml:"scan"`
	Catalog     CatalogConfig     `toml:"catalog"`
	Accelerator AcceleratorConfig `toml:"accelerator"`
	Filters     filter.Config     `toml:"filters"`
}

type PlayerConfig struct {
	LogLevel  string        `toml:"log_level"`
	Loop      bool          `toml:"loop"`
	Shuffle   bool          `toml:"shuffle"`
	LoopDelay time.Duration `toml:"loop_delay"`
	Speed     float64       `toml:"speed"`
}

type ScanConfig struct {
	Roots       []string `toml:"roots"`
	NoRecurse   bool     `toml:"no_recurse"`
	NoIgnore    bool     `toml:"no_ignore"`
	DisableGIF  bool     `toml:"disable_gif"`
	MaxDirReads int64    `toml:"max_dir_reads"`
}

type CatalogConfig struct {
	Path string `toml:"path"`
}

type AcceleratorConfig struct {
	Enabled bool   `toml:"enabled"`
	Vendor  string `toml:"vendor"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Player: PlayerConfig{
			LogLevel:  "info",
			LoopDelay: time.Second,
			Speed:     1.0,
		},
		Catalog: CatalogConfig{Path: "./data/slate.db"},
		Filters: filter.DefaultConfig(),
	}
}

// Load reads and parses the configuration file. Filter parameter
// defaults are merged in before decoding so a partial [filters] table
// keeps sane values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	cfg := Default()
	if _, err := toml.Decode(content, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Re-apply defaults for fields an explicit empty value would break.
	if cfg.Player.LogLevel == "" {
		cfg.Player.LogLevel = "info"
	}
	if cfg.Player.Speed == 0 {
		cfg.Player.Speed = 1.0
	}
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "./data/slate.db"
	}

	return cfg, nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable
// values and reports any that are unset.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1]
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		missing = append(missing, varName)
		return match
	})
	return out, missing
}
