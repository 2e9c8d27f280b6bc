// Package config resolves owlsym settings from defaults, a config file
// (YAML or CUE), a .env file and OWLSYM_* environment variables.
//
// Command-line flags are applied last by the cli package.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/roach88/owlsym/internal/graph"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "OWLSYM_"

// Defaults.
const (
	DefaultOutputPath = "symbol_table_full.json"
	DefaultCacheSize  = 4096
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	DefaultDBPath     = "owlsym.db"
)

// Config holds every tunable setting.
type Config struct {
	OutputPath    string `env:"OUTPUT"`
	InputFormat   string `env:"INPUT_FORMAT"`
	LiteralDetail bool   `env:"LITERAL_DETAIL"`
	CacheSize     int    `env:"CACHE_SIZE"`
	Canonical     bool   `env:"CANONICAL"`
	LogLevel      string `env:"LOG_LEVEL"`
	LogFormat     string `env:"LOG_FORMAT"`
	MetricsFile   string `env:"METRICS_FILE"`
	DBPath        string `env:"DB"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		OutputPath:    DefaultOutputPath,
		LiteralDetail: true,
		CacheSize:     DefaultCacheSize,
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
		DBPath:        DefaultDBPath,
	}
}

// fileConfig is the on-disk shape. Pointer fields distinguish "absent"
// from a zero value so a file only overrides what it sets.
type fileConfig struct {
	OutputPath    *string `yaml:"output" json:"output"`
	InputFormat   *string `yaml:"input_format" json:"input_format"`
	LiteralDetail *bool   `yaml:"literal_detail" json:"literal_detail"`
	CacheSize     *int    `yaml:"cache_size" json:"cache_size"`
	Canonical     *bool   `yaml:"canonical" json:"canonical"`
	LogLevel      *string `yaml:"log_level" json:"log_level"`
	LogFormat     *string `yaml:"log_format" json:"log_format"`
	MetricsFile   *string `yaml:"metrics_file" json:"metrics_file"`
	DBPath        *string `yaml:"db" json:"db"`
}

func (f fileConfig) apply(c *Config) {
	setIf(&c.OutputPath, f.OutputPath)
	setIf(&c.InputFormat, f.InputFormat)
	setIf(&c.LiteralDetail, f.LiteralDetail)
	setIf(&c.CacheSize, f.CacheSize)
	setIf(&c.Canonical, f.Canonical)
	setIf(&c.LogLevel, f.LogLevel)
	setIf(&c.LogFormat, f.LogFormat)
	setIf(&c.MetricsFile, f.MetricsFile)
	setIf(&c.DBPath, f.DBPath)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Source names where Load reads from.
type Source struct {
	// File is an optional config file; the extension selects the decoder
	// (.yaml, .yml or .cue).
	File string

	// DotEnv is the .env file consulted before the environment. A missing
	// file is ignored. Empty means ".env".
	DotEnv string

	// Environment replaces the process environment when non-nil.
	Environment map[string]string
}

// Load resolves the configuration. Later layers win: defaults, File,
// DotEnv, then the environment.
func Load(src Source) (Config, error) {
	cfg := Default()

	if src.File != "" {
		fc, err := readFile(src.File)
		if err != nil {
			return Config{}, err
		}
		fc.apply(&cfg)
	}

	environ, err := environment(src)
	if err != nil {
		return Config{}, err
	}
	if err := env.Parse(&cfg, env.Options{Environment: environ, Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("config: environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// environment merges the .env file under the real (or supplied)
// environment. Variables already set are never overridden by .env.
func environment(src Source) (map[string]string, error) {
	merged := make(map[string]string)

	path := src.DotEnv
	if path == "" {
		path = ".env"
	}
	dotenv, err := godotenv.Read(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	default:
		for k, v := range dotenv {
			merged[k] = v
		}
	}

	if src.Environment != nil {
		for k, v := range src.Environment {
			merged[k] = v
		}
		return merged, nil
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			merged[k] = v
		}
	}
	return merged, nil
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return fc, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case ".cue":
		v := cuecontext.New().CompileBytes(data, cue.Filename(path))
		if err := v.Err(); err != nil {
			return fc, fmt.Errorf("config: compile %s: %w", path, err)
		}
		if err := v.Decode(&fc); err != nil {
			return fc, fmt.Errorf("config: decode %s: %w", path, err)
		}
	default:
		return fc, fmt.Errorf("config: unsupported file type %q (want .yaml, .yml or .cue)", filepath.Ext(path))
	}
	return fc, nil
}

// Validate checks enumerated fields and bounds.
func (c Config) Validate() error {
	if c.OutputPath == "" {
		return errors.New("config: output path is empty")
	}
	if c.InputFormat != "" {
		if _, err := graph.ParseFormat(c.InputFormat); err != nil {
			return fmt.Errorf("config: input_format: %w", err)
		}
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("config: cache_size must be >= 0, got %d", c.CacheSize)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("config: unknown log level %q", name)
}
