package gen

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/syssam/storm/converter"
	"github.com/syssam/storm/database"
)

// Option configures model building.
type Option func(*Config) error

// WithConverters sets the converter registry.
func WithConverters(r *converter.Registry) Option {
	return func(c *Config) error {
		if r == nil {
			return NewConfigError("Converters", nil, "registry cannot be nil")
		}
		c.Converters = r
		return nil
	}
}

// WithDatabases sets the database registry.
func WithDatabases(r DatabaseRegistry) Option {
	return func(c *Config) error {
		if r == nil {
			return NewConfigError("Databases", nil, "registry cannot be nil")
		}
		c.Databases = r
		return nil
	}
}

// WithDatabaseModels builds a database registry from the given models.
// The first model marked default, or else the first model, is the default.
func WithDatabaseModels(models ...*database.Model) Option {
	return func(c *Config) error {
		r, err := database.NewRegistry(models...)
		if err != nil {
			return NewConfigError("Databases", nil, err.Error())
		}
		c.Databases = r
		return nil
	}
}

// WithBaseDAO sets the qualified name of the base DAO type,
// for example "github.com/syssam/storm/dao.SQLiteDAO".
func WithBaseDAO(name string) Option {
	return func(c *Config) error {
		if name == "" || !strings.Contains(name, ".") {
			return NewConfigError("BaseDAO", name, "must be a qualified type name")
		}
		c.BaseDAO = name
		return nil
	}
}

// WithWorkers bounds the number of entities built concurrently.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return NewConfigError("Workers", n, "must be at least 1")
		}
		c.Workers = n
		return nil
	}
}

// WithLogger sets the logger used for build events.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) error {
		c.Logger = l
		return nil
	}
}

// WithReporter sets the reporter that receives every diagnostic.
func WithReporter(r Reporter) Option {
	return func(c *Config) error {
		if r == nil {
			return NewConfigError("Reporter", nil, "reporter cannot be nil")
		}
		c.Reporter = r
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
// Unset settings take their defaults.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{Logger: zerolog.Nop()}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	c.setDefaults()
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
