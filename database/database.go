// Package database holds the databases entities can be bound to.
package database

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Model describes a named database target.
type Model struct {
	// Name identifies the database in entity declarations.
	Name string `yaml:"name"`
	// File is the database file name. Defaults to Name + ".db".
	File string `yaml:"file"`
	// Version is the schema version used by the generated open helper.
	Version int `yaml:"version"`
	// Default marks the database used by entities that do not name one.
	Default bool `yaml:"default"`
}

// Registry is an immutable set of databases with an optional default.
type Registry struct {
	byName map[string]*Model
	def    *Model
}

// NewRegistry returns a registry holding the given databases. The database
// marked Default becomes the default; when none is marked, the first one is.
// It fails on empty or duplicate names and on more than one default.
func NewRegistry(models ...*Model) (*Registry, error) {
	r := &Registry{byName: make(map[string]*Model, len(models))}
	var errs []error
	for _, m := range models {
		switch {
		case m == nil || m.Name == "":
			errs = append(errs, errors.New("database: name cannot be empty"))
			continue
		case r.byName[m.Name] != nil:
			errs = append(errs, fmt.Errorf("database: %q declared more than once", m.Name))
			continue
		case m.Version < 0:
			errs = append(errs, fmt.Errorf("database: %q has negative version %d", m.Name, m.Version))
		}
		if m.Default {
			if r.def != nil {
				errs = append(errs, fmt.Errorf("database: both %q and %q are marked default", r.def.Name, m.Name))
			} else {
				r.def = m
			}
		}
		r.byName[m.Name] = m
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if r.def == nil && len(models) > 0 {
		r.def = models[0]
	}
	return r, nil
}

// Default returns the default database, or nil if none is configured.
func (r *Registry) Default() *Model {
	if r == nil {
		return nil
	}
	return r.def
}

// ByName returns the database with the given name, or nil.
func (r *Registry) ByName(name string) *Model {
	if r == nil {
		return nil
	}
	return r.byName[name]
}

// Names returns the database names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.byName))
}

// FileName returns the database file name.
func (m *Model) FileName() string {
	if m.File != "" {
		return m.File
	}
	return m.Name + ".db"
}

// String implements the fmt.Stringer interface.
func (m *Model) String() string { return m.Name }
