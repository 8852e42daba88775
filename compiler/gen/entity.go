package gen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/storm/compiler/load"
	"github.com/syssam/storm/converter"
	"github.com/syssam/storm/database"
)

// Entity is the validated model of one persistent entity.
type Entity struct {
	schema *load.Schema
	// Name holds the simple name of the entity type.
	Name string
	// Package holds the import path of the declaring package, if any.
	Package string
	// TableName is the table the entity is stored in.
	TableName string
	// Database is the database the entity belongs to. Nil when binding failed.
	Database *database.Model
	// Fields holds the persisted fields in declaration order.
	Fields []*Field
	fields map[string]*Field
	// ID holds the id field. It points into Fields.
	ID *Field
	// BaseDAO is the qualified name of the base DAO type.
	BaseDAO string
	// Pos is the declaration position of the entity.
	Pos string

	reporter Reporter
	errs     int
}

// NewEntity builds the model of the declared entity s. Diagnostics are sent
// to r and never stop the build: the returned entity is always non-nil and
// Valid reports whether anything was wrong with it. A nil c builds with
// the default configuration.
func NewEntity(c *Config, s *load.Schema, r Reporter) *Entity {
	if c == nil {
		c = MustNewConfig()
	}
	e := &Entity{
		schema:   s,
		Name:     s.Name,
		Package:  s.Package,
		BaseDAO:  c.BaseDAO,
		Pos:      s.Pos,
		fields:   make(map[string]*Field, len(s.Fields)),
		reporter: r,
	}
	if e.BaseDAO == "" {
		e.BaseDAO = DefaultBaseDAO
	}
	e.setTable()
	e.setDatabase(c.databases())
	e.setFields(NewClassifier(c.Converters, ReporterFunc(e.report)))
	e.resolveID()
	return e
}

func (e *Entity) setTable() {
	e.TableName = e.schema.Table
	if e.TableName == "" {
		e.TableName = e.Name
	}
	if strings.TrimSpace(e.TableName) == "" {
		e.fail("", "", ErrEmptyTableName)
	}
}

// setDatabase binds the entity to its database. An explicit name must be
// declared; it never falls back to the default database.
func (e *Entity) setDatabase(dbs DatabaseRegistry) {
	if name := e.schema.Database; name != "" {
		if e.Database = dbs.ByName(name); e.Database == nil {
			e.fail("", fmt.Sprintf("database %q is not declared", name), ErrUnknownDatabase)
		}
		return
	}
	if e.Database = dbs.Default(); e.Database == nil {
		e.fail("", "", ErrNoDatabase)
	}
}

func (e *Entity) setFields(c *Classifier) {
	declared := make(map[string]string, len(e.schema.Fields))
	columns := make(map[string]*Field, len(e.schema.Fields))
	for _, f := range e.schema.Fields {
		if f == nil {
			continue
		}
		if pos, ok := declared[f.Name]; ok {
			e.report(&SchemaError{
				Type:    e.Name,
				Field:   f.Name,
				Pos:     f.Pos,
				Message: "previous declaration at " + pos,
				Cause:   ErrFieldRedeclared,
			})
			continue
		}
		declared[f.Name] = f.Pos
		cl, ok := c.Classify(e.schema, f)
		if !ok {
			continue
		}
		if prev, ok := columns[cl.Field.Column()]; ok {
			e.failField(cl.Field, "column "+cl.Field.Column()+" is used by field "+prev.Name, ErrColumnConflict)
			continue
		}
		columns[cl.Field.Column()] = cl.Field
		e.Fields = append(e.Fields, cl.Field)
		e.fields[cl.Field.Name] = cl.Field
		if !cl.IDCandidate {
			continue
		}
		switch {
		case e.ID != nil:
			e.failField(cl.Field, "id already declared by field "+e.ID.Name, ErrDuplicateID)
		case !cl.Field.IsID():
			e.failField(cl.Field, "declared type is "+cl.Field.StorageType, ErrInvalidIDType)
		default:
			e.ID = cl.Field
		}
	}
}

// resolveID falls back to the field named "id" when no explicit id was
// accepted. The fallback is only type checked by the final verification.
func (e *Entity) resolveID() {
	if e.ID == nil {
		e.ID = e.fields["id"]
	}
	switch {
	case e.ID == nil:
		e.fail("", "no field marked as id and no field named \"id\"", ErrMissingID)
	case !e.ID.IsID():
		e.fail("", fmt.Sprintf("id field %q has type %s", e.ID.Name, e.ID.StorageType), ErrMissingID)
	}
}

func (e *Entity) fail(field, msg string, cause error) {
	e.report(&SchemaError{
		Type:    e.Name,
		Field:   field,
		Pos:     e.Pos,
		Message: msg,
		Cause:   cause,
	})
}

func (e *Entity) failField(f *Field, msg string, cause error) {
	e.report(&SchemaError{
		Type:    e.Name,
		Field:   f.Name,
		Pos:     f.Pos,
		Message: msg,
		Cause:   cause,
	})
}

func (e *Entity) report(err *SchemaError) {
	e.errs++
	if e.reporter != nil {
		e.reporter.Report(err)
	}
}

// Valid reports whether the entity was built without diagnostics.
func (e *Entity) Valid() bool { return e.errs == 0 }

// Schema returns the declaration the entity was built from.
func (e *Entity) Schema() *load.Schema { return e.schema }

// QualifiedName returns the package qualified name of the entity.
func (e *Entity) QualifiedName() string {
	if e.Package == "" {
		return e.Name
	}
	return e.Package + "." + e.Name
}

// DAOName returns the name of the generated DAO type.
func (e *Entity) DAOName() string { return e.Name + "DAO" }

// TableHelperName returns the name of the generated table helper type.
func (e *Entity) TableHelperName() string { return e.Name + "Table" }

// FieldByName returns the persisted field with the given name.
func (e *Entity) FieldByName(name string) (*Field, bool) {
	f, ok := e.fields[name]
	return f, ok
}

// EnumFields returns the fields stored through the enum converter.
func (e *Entity) EnumFields() []*Field {
	var fields []*Field
	for _, f := range e.Fields {
		if f.Enum {
			fields = append(fields, f)
		}
	}
	return fields
}

// Converters returns the distinct converters used by the fields, in
// field order.
func (e *Entity) Converters() []*converter.Descriptor {
	var convs []*converter.Descriptor
	for _, f := range e.Fields {
		if f.Converter != nil && !slices.Contains(convs, f.Converter) {
			convs = append(convs, f.Converter)
		}
	}
	return convs
}

// Imports returns the sorted qualified names generated code for the entity
// refers to: the entity itself and every converter it uses.
func (e *Entity) Imports() []string {
	imports := []string{e.QualifiedName()}
	for _, c := range e.Converters() {
		imports = append(imports, c.QualifiedName())
	}
	slices.Sort(imports)
	return slices.Compact(imports)
}
