// Package converter holds the registry of type converters used by storm.
//
// A converter describes how values of one canonical Go type are written to
// and read from a SQLite column. The registry is keyed by the canonical type
// name produced by the declaration loaders (for example "int64", "*string",
// "time.Time" or "github.com/google/uuid.UUID"). Enumeration types do not
// get a converter of their own; they all share the descriptor registered
// under EnumKey.
//
// Registries are immutable. Build one with NewRegistry or extend an
// existing one with Registry.With, then share it freely between goroutines.
package converter

import (
	"fmt"
	"strings"
)

// EnumKey is the reserved registry key of the enum fallback converter.
const EnumKey = "enum"

// DefaultPackage is the import path of the built-in converter implementations.
const DefaultPackage = "github.com/syssam/storm/converter/builtin"

// SQLType is the storage class of a column.
type SQLType string

// SQLite storage classes.
const (
	Integer SQLType = "INTEGER"
	Real    SQLType = "REAL"
	Text    SQLType = "TEXT"
	Blob    SQLType = "BLOB"
)

// ParseSQLType parses a storage class name, ignoring case.
func ParseSQLType(s string) (SQLType, error) {
	switch t := SQLType(strings.ToUpper(strings.TrimSpace(s))); t {
	case Integer, Real, Text, Blob:
		return t, nil
	default:
		return "", fmt.Errorf("converter: unknown sql type %q", s)
	}
}

// BindType is the cursor accessor used to bind or read a value.
type BindType string

// Cursor accessor kinds.
const (
	BindBlob   BindType = "BLOB"
	BindDouble BindType = "DOUBLE"
	BindFloat  BindType = "FLOAT"
	BindInt    BindType = "INT"
	BindLong   BindType = "LONG"
	BindShort  BindType = "SHORT"
	BindString BindType = "STRING"
)

// ParseBindType parses a bind type name, ignoring case.
func ParseBindType(s string) (BindType, error) {
	switch t := BindType(strings.ToUpper(strings.TrimSpace(s))); t {
	case BindBlob, BindDouble, BindFloat, BindInt, BindLong, BindShort, BindString:
		return t, nil
	default:
		return "", fmt.Errorf("converter: unknown bind type %q", s)
	}
}

// Descriptor describes how one canonical type is persisted.
type Descriptor struct {
	// Name is the converter type name, e.g. "LongConverter".
	Name string
	// Package is the import path of the converter implementation.
	Package string
	// Type is the canonical type name this converter serves.
	Type string
	// SQLType is the column storage class.
	SQLType SQLType
	// BindType is the cursor accessor kind.
	BindType BindType
}

// QualifiedName returns the package qualified converter name.
func (d *Descriptor) QualifiedName() string {
	if d.Package == "" {
		return d.Name
	}
	return d.Package + "." + d.Name
}

// String implements the fmt.Stringer interface.
func (d *Descriptor) String() string { return d.QualifiedName() }

func (d *Descriptor) validate() error {
	switch {
	case d == nil:
		return fmt.Errorf("converter: nil descriptor")
	case d.Type == "":
		return fmt.Errorf("converter: descriptor %q has no type", d.Name)
	case d.Name == "":
		return fmt.Errorf("converter: descriptor for %q has no name", d.Type)
	}
	if _, err := ParseSQLType(string(d.SQLType)); err != nil {
		return fmt.Errorf("converter %q: %w", d.Name, err)
	}
	if _, err := ParseBindType(string(d.BindType)); err != nil {
		return fmt.Errorf("converter %q: %w", d.Name, err)
	}
	return nil
}
