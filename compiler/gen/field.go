package gen

import (
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/syssam/storm/compiler/load"
	"github.com/syssam/storm/converter"
)

// Field holds the persistence information of one entity field.
type Field struct {
	def *load.Field
	// Name is the field name as declared.
	Name string
	// StorageType is the canonical type name of the field. For enum fields
	// it is the qualified name of the enum type.
	StorageType string
	// Enum indicates that the field is stored through the enum converter.
	Enum bool
	// Converter converts values of the field to and from the column.
	Converter *converter.Descriptor
	// Pos is the declaration position of the field.
	Pos string
}

// Column returns the column name of the field in snake case.
func (f *Field) Column() string { return inflect.Underscore(f.Name) }

// Nullable reports whether the column accepts NULL. Pointer types are
// nullable, and so are enums, which are stored by name.
func (f *Field) Nullable() bool {
	return f.Enum || strings.HasPrefix(f.StorageType, "*")
}

// IsID reports whether the field can serve as an entity id.
func (f *Field) IsID() bool { return f.StorageType == IDType }

// Declaration returns the declaration the field was built from.
func (f *Field) Declaration() *load.Field { return f.def }

// String returns the field name and its storage type.
func (f *Field) String() string { return f.Name + " " + f.StorageType }
