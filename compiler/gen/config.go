package gen

import (
	"runtime"

	"github.com/rs/zerolog"

	"github.com/syssam/storm/converter"
	"github.com/syssam/storm/database"
)

// IDType is the canonical storage type every entity id must have.
const IDType = "int64"

// DefaultBaseDAO is the base DAO type generated DAOs embed unless configured otherwise.
const DefaultBaseDAO = "github.com/syssam/storm/dao.SQLiteDAO"

// DatabaseRegistry resolves database models by name.
type DatabaseRegistry interface {
	// Default returns the default database, or nil if none is configured.
	Default() *database.Model
	// ByName returns the named database, or nil if it is not declared.
	ByName(name string) *database.Model
}

// Config holds the registries and settings used to build entity models.
type Config struct {
	// Converters resolves field types to converters.
	// Defaults to converter.Builtin().
	Converters *converter.Registry
	// Databases resolves entity database bindings.
	Databases DatabaseRegistry
	// BaseDAO is the qualified name of the base DAO type.
	BaseDAO string
	// Workers bounds the number of entities built concurrently.
	Workers int
	// Logger receives build events. Defaults to a no-op logger.
	Logger zerolog.Logger
	// Reporter receives every diagnostic, in entity input order.
	Reporter Reporter
}

func (c *Config) setDefaults() {
	if c.Converters == nil {
		c.Converters = converter.Builtin()
	}
	if c.BaseDAO == "" {
		c.BaseDAO = DefaultBaseDAO
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
}

// withDefaults returns a copy of c with defaults applied.
// A nil c yields the default configuration.
func (c *Config) withDefaults() *Config {
	if c == nil {
		return MustNewConfig()
	}
	cp := *c
	cp.setDefaults()
	return &cp
}

// databases returns the configured registry, tolerating a nil interface
// or a typed nil pointer.
func (c *Config) databases() DatabaseRegistry {
	if c.Databases == nil {
		return noDatabases{}
	}
	return c.Databases
}

type noDatabases struct{}

func (noDatabases) Default() *database.Model      { return nil }
func (noDatabases) ByName(string) *database.Model { return nil }
