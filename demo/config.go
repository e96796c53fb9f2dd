package main

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config controls the demo run. All fields can come from a YAML file
// (GOLAGMI_CONFIG) or environment variables (GOLAGMI_ prefix).
type Config struct {
	SeriesA string `koanf:"series_a"` // CSV path for series A (empty = synthetic)
	SeriesB string `koanf:"series_b"` // CSV path for series B (empty = synthetic)
	ColumnA string `koanf:"column_a"` // value column in series A CSV
	ColumnB string `koanf:"column_b"` // value column in series B CSV

	MinLag     float64 `koanf:"min_lag"`
	MaxLag     float64 `koanf:"max_lag"`
	Step       float64 `koanf:"step"`
	Resolution float64 `koanf:"resolution"`

	Bins       int   `koanf:"bins"`
	Surrogates int   `koanf:"surrogates"`
	Seed       int64 `koanf:"seed"`

	Output   string `koanf:"output"`
	LogLevel string `koanf:"log_level"`
}

// defaults returns the built-in demo configuration: the synthetic
// shifted-pulse example over lags [-10, 10].
func defaults() Config {
	return Config{
		MinLag:     -10,
		MaxLag:     10,
		Step:       1,
		Surrogates: 100,
		Seed:       42,
		Output:     "lagscan.json",
		LogLevel:   "info",
	}
}

// loadConfig layers defaults, an optional YAML file, and environment
// variables, in increasing precedence.
func loadConfig() (*Config, error) {
	cfg := defaults()

	k := koanf.New(".")

	if path := os.Getenv("GOLAGMI_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// GOLAGMI_MIN_LAG -> min_lag, etc.
	envProvider := env.Provider("GOLAGMI_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "golagmi_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if (cfg.SeriesA == "") != (cfg.SeriesB == "") {
		return nil, errors.New("series_a and series_b must be set together")
	}
	return &cfg, nil
}
