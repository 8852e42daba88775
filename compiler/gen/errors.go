package gen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/storm/converter"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidSchema indicates a schema definition error.
	ErrInvalidSchema = errors.New("storm: invalid schema")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("storm: missing configuration")
)

// Diagnostic kinds. Every diagnostic reported by the builder is a
// *SchemaError whose cause matches exactly one of these.
var (
	// ErrUnsupportedType indicates that no converter serves a field type.
	ErrUnsupportedType = converter.ErrUnsupportedType
	// ErrIDOnTransient indicates an id marker on a transient field.
	ErrIDOnTransient = errors.New("storm: id marker on transient field")
	// ErrIDOnEnum indicates an id marker on an enum field.
	ErrIDOnEnum = errors.New("storm: id marker on enum field")
	// ErrInvalidIDType indicates an explicit id field that is not int64.
	ErrInvalidIDType = errors.New("storm: id field must be of type " + IDType)
	// ErrDuplicateID indicates more than one explicit id marker.
	ErrDuplicateID = errors.New("storm: duplicate id field")
	// ErrMissingID indicates an entity without a usable id field.
	ErrMissingID = errors.New("storm: missing or invalid id field")
	// ErrUnknownDatabase indicates an entity bound to an undeclared database.
	ErrUnknownDatabase = errors.New("storm: unknown database")
	// ErrNoDatabase indicates that no default database is configured.
	ErrNoDatabase = errors.New("storm: no database configured")
	// ErrEmptyTableName indicates an entity whose table name resolves to "".
	ErrEmptyTableName = errors.New("storm: empty table name")
	// ErrFieldRedeclared indicates two fields with the same name.
	ErrFieldRedeclared = errors.New("storm: field redeclared")
	// ErrColumnConflict indicates two fields mapped to the same column.
	ErrColumnConflict = errors.New("storm: column conflict")
	// ErrEntityRedeclared indicates two entities with the same qualified name.
	ErrEntityRedeclared = errors.New("storm: entity redeclared")
	// ErrTableConflict indicates two entities mapped to the same table of a database.
	ErrTableConflict = errors.New("storm: table conflict")
)

// SchemaError represents a schema definition error.
type SchemaError struct {
	Type    string // Entity type name
	Field   string // Field name (if applicable)
	Pos     string // Declaration position (if known)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	if e.Pos != "" {
		b.WriteString(e.Pos)
		b.WriteString(": ")
	}
	b.WriteString("storm: schema error")
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// Kind returns the diagnostic kind sentinel the error wraps, or nil.
func (e *SchemaError) Kind() error {
	for _, kind := range kinds {
		if errors.Is(e.Cause, kind) {
			return kind
		}
	}
	return nil
}

var kinds = []error{
	ErrUnsupportedType,
	ErrIDOnTransient,
	ErrIDOnEnum,
	ErrInvalidIDType,
	ErrDuplicateID,
	ErrMissingID,
	ErrUnknownDatabase,
	ErrNoDatabase,
	ErrEmptyTableName,
	ErrFieldRedeclared,
	ErrColumnConflict,
	ErrEntityRedeclared,
	ErrTableConflict,
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(typeName, fieldName, message string, cause error) *SchemaError {
	return &SchemaError{
		Type:    typeName,
		Field:   fieldName,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("storm: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("storm: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}
