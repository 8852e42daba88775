// Package load holds the entity declarations consumed by the generator and
// the loaders that produce them from YAML documents and Go struct types.
package load

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind classifies the declared type of a field.
type Kind uint8

// Declared type kinds.
const (
	// KindInvalid is the zero kind; loaders infer the real kind from the type name.
	KindInvalid Kind = iota
	// KindPrimitive is a builtin value type such as int64 or string.
	KindPrimitive
	// KindDeclared is a named or reference type such as *int64 or time.Time.
	KindDeclared
	// KindEnum is a declared type whose underlying element is an enumeration.
	KindEnum
	// KindUnsupported is a type the front-end could not resolve to a
	// storable type (channels, functions, maps, ...).
	KindUnsupported
)

var kindNames = [...]string{
	KindInvalid:     "",
	KindPrimitive:   "primitive",
	KindDeclared:    "declared",
	KindEnum:        "enum",
	KindUnsupported: "unsupported",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// MarshalText implements the encoding.TextMarshaler interface.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (k *Kind) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, name := range kindNames {
		if name == s {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("load: unknown type kind %q", string(text))
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	return k.UnmarshalText([]byte(value.Value))
}

// TypeRef is the pre-resolved identity of a field's declared type.
type TypeRef struct {
	// Name is the canonical type name, e.g. "int64" or "time.Time".
	// For enums it is the qualified name of the enum type.
	Name string `yaml:"type"`
	// Kind is the type kind.
	Kind Kind `yaml:"kind,omitempty"`
}

// String returns the type name.
func (t TypeRef) String() string { return t.Name }

// Resolved returns the type with its name in canonical form and its kind
// inferred when it is not set: builtin value types are primitive,
// everything else is declared.
func (t TypeRef) Resolved() TypeRef {
	t.Name = canonical(strings.TrimSpace(t.Name))
	if t.Kind != KindInvalid {
		return t
	}
	if _, ok := builtinTypes[t.Name]; ok {
		t.Kind = KindPrimitive
	} else {
		t.Kind = KindDeclared
	}
	return t
}

// canonical rewrites builtin aliases to the names used by the converter
// registry, keeping pointer and slice prefixes.
func canonical(name string) string {
	switch {
	case strings.HasPrefix(name, "*"):
		return "*" + canonical(name[1:])
	case name == "[]byte" || name == "[]uint8":
		return "[]byte"
	case strings.HasPrefix(name, "[]"):
		return "[]" + canonical(name[2:])
	}
	if alias, ok := aliases[name]; ok {
		return alias
	}
	return name
}

var aliases = map[string]string{
	"byte":        "uint8",
	"rune":        "int32",
	"interface{}": "any",
}

var builtinTypes = map[string]struct{}{
	"bool": {}, "string": {},
	"int": {}, "int8": {}, "int16": {}, "int32": {}, "int64": {},
	"uint": {}, "uint8": {}, "uint16": {}, "uint32": {}, "uint64": {}, "uintptr": {},
	"float32": {}, "float64": {}, "complex64": {}, "complex128": {},
}

// Schema is the declaration of one persistent entity.
type Schema struct {
	// Name is the simple name of the declaring type.
	Name string `yaml:"name"`
	// Package is the import path of the declaring package, if any.
	Package string `yaml:"package,omitempty"`
	// Table is the explicit table name. Empty means the simple name.
	Table string `yaml:"table,omitempty"`
	// Database is the explicit database name. Empty means the default database.
	Database string `yaml:"database,omitempty"`
	// Fields in declaration order.
	Fields []*Field `yaml:"fields,omitempty"`
	// Pos is the declaration position used in diagnostics.
	Pos string `yaml:"pos,omitempty"`

	line int
}

// QualifiedName returns the package qualified name of the entity.
func (s *Schema) QualifiedName() string {
	if s.Package == "" {
		return s.Name
	}
	return s.Package + "." + s.Name
}

// UnmarshalYAML records the declaration line.
func (s *Schema) UnmarshalYAML(value *yaml.Node) error {
	type plain Schema
	if err := value.Decode((*plain)(s)); err != nil {
		return err
	}
	s.line = value.Line
	return nil
}

// Field is the declaration of one entity field.
type Field struct {
	// Name is the simple field name.
	Name string `yaml:"name"`
	// Type is the declared type.
	Type TypeRef `yaml:",inline"`
	// Transient excludes the field from persistence.
	Transient bool `yaml:"transient,omitempty"`
	// ID marks the field as the primary-key candidate.
	ID bool `yaml:"id,omitempty"`
	// Pos is the declaration position used in diagnostics.
	Pos string `yaml:"pos,omitempty"`

	line int
}

// UnmarshalYAML records the declaration line.
func (f *Field) UnmarshalYAML(value *yaml.Node) error {
	type plain Field
	if err := value.Decode((*plain)(f)); err != nil {
		return err
	}
	f.line = value.Line
	return nil
}
