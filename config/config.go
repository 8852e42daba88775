// Package config provides storm configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/syssam/storm/compiler/gen"
	"github.com/syssam/storm/converter"
	"github.com/syssam/storm/database"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "storm.yaml"

// Config is the root configuration structure.
type Config struct {
	Databases  []*database.Model `yaml:"databases"`
	Converters []ConverterConfig `yaml:"converters"`
	BaseDAO    string            `yaml:"base_dao"`
	Workers    int               `yaml:"workers"`
	Logging    LoggingConfig     `yaml:"logging"`
}

// ConverterConfig declares a custom converter.
type ConverterConfig struct {
	Type    string `yaml:"type"`    // canonical type name, e.g. "example.com/money.Amount"
	Name    string `yaml:"name"`    // converter type name
	Package string `yaml:"package"` // converter import path
	SQL     string `yaml:"sql"`     // INTEGER, REAL, TEXT or BLOB
	Bind    string `yaml:"bind"`    // cursor accessor kind
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse reads configuration from YAML bytes.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return finish(&cfg)
}

// LoadOrDefault loads the file at path, or returns the default configuration
// if path is DefaultPath and no such file exists.
func LoadOrDefault(path string) (*Config, error) {
	if path == DefaultPath {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return Default()
		}
	}
	return Load(path)
}

// Default returns the configuration used without a file. It declares no
// database, so entities fail to bind until one is configured.
func Default() (*Config, error) {
	return finish(&Config{})
}

func finish(cfg *Config) (*Config, error) {
	// Apply environment variable overrides
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	setDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies STORM_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("STORM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("STORM_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("STORM_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("STORM_BASE_DAO"); v != "" {
		cfg.BaseDAO = v
	}
	if v := os.Getenv("STORM_DEFAULT_DATABASE"); v != "" {
		i := slices.IndexFunc(cfg.Databases, func(db *database.Model) bool {
			return db != nil && db.Name == v
		})
		if i < 0 {
			return fmt.Errorf("STORM_DEFAULT_DATABASE: database %q is not declared", v)
		}
		for _, db := range cfg.Databases {
			if db != nil {
				db.Default = db.Name == v
			}
		}
	}
	return nil
}

func setDefaults(cfg *Config) {
	if cfg.BaseDAO == "" {
		cfg.BaseDAO = gen.DefaultBaseDAO
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

func validate(cfg *Config) error {
	if _, err := database.NewRegistry(cfg.Databases...); err != nil {
		return err
	}
	if _, err := cfg.converters(); err != nil {
		return err
	}
	if !strings.Contains(cfg.BaseDAO, ".") {
		return fmt.Errorf("base_dao must be a qualified type name, got %q", cfg.BaseDAO)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error, got %q", cfg.Logging.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}
	return nil
}

// converters returns the builtin registry extended with the custom converters.
func (cfg *Config) converters() (*converter.Registry, error) {
	if len(cfg.Converters) == 0 {
		return converter.Builtin(), nil
	}
	descs := make([]*converter.Descriptor, 0, len(cfg.Converters))
	for i, c := range cfg.Converters {
		sql, err := converter.ParseSQLType(c.SQL)
		if err != nil {
			return nil, fmt.Errorf("converters[%d]: %w", i, err)
		}
		bind, err := converter.ParseBindType(c.Bind)
		if err != nil {
			return nil, fmt.Errorf("converters[%d]: %w", i, err)
		}
		descs = append(descs, &converter.Descriptor{
			Name:     c.Name,
			Package:  c.Package,
			Type:     c.Type,
			SQLType:  sql,
			BindType: bind,
		})
	}
	r, err := converter.Builtin().With(descs...)
	if err != nil {
		return nil, fmt.Errorf("converters: %w", err)
	}
	return r, nil
}

// Logger returns a logger writing to w in the configured format and level.
func (cfg *Config) Logger(w io.Writer) zerolog.Logger {
	if cfg.Logging.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Logging.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// GenOptions returns the options configuring a model build.
func (cfg *Config) GenOptions() ([]gen.Option, error) {
	convs, err := cfg.converters()
	if err != nil {
		return nil, err
	}
	opts := []gen.Option{
		gen.WithConverters(convs),
		gen.WithDatabaseModels(cfg.Databases...),
		gen.WithBaseDAO(cfg.BaseDAO),
	}
	if cfg.Workers > 0 {
		opts = append(opts, gen.WithWorkers(cfg.Workers))
	}
	return opts, nil
}
