package gen

import (
	"slices"

	"ariga.io/atlas/sql/schema"

	"github.com/syssam/storm/converter"
)

// AtlasTable returns the relational table of the entity, or nil if the
// entity is invalid.
func (e *Entity) AtlasTable() *schema.Table {
	if !e.Valid() {
		return nil
	}
	t := schema.NewTable(e.TableName)
	for _, f := range e.Fields {
		c := atlasColumn(f)
		t.AddColumns(c)
		if f == e.ID {
			t.SetPrimaryKey(schema.NewPrimaryKey(c))
		}
	}
	return t
}

func atlasColumn(f *Field) *schema.Column {
	name := f.Column()
	var c *schema.Column
	switch f.Converter.SQLType {
	case converter.Integer:
		c = schema.NewIntColumn(name, "integer")
	case converter.Real:
		c = schema.NewFloatColumn(name, "real")
	case converter.Blob:
		c = schema.NewBinaryColumn(name, "blob")
	default:
		c = schema.NewStringColumn(name, "text")
	}
	return c.SetNull(f.Nullable())
}

// AtlasSchemas returns one schema per database holding the tables of its
// valid entities. Schemas are sorted by database name.
func (g *Graph) AtlasSchemas() []*schema.Schema {
	byDB := make(map[string]*schema.Schema)
	var names []string
	for _, e := range g.Nodes {
		t := e.AtlasTable()
		if t == nil || e.Database == nil {
			continue
		}
		s, ok := byDB[e.Database.Name]
		if !ok {
			s = schema.New(e.Database.Name)
			byDB[e.Database.Name] = s
			names = append(names, e.Database.Name)
		}
		s.AddTables(t)
	}
	slices.Sort(names)
	schemas := make([]*schema.Schema, len(names))
	for i, name := range names {
		schemas[i] = byDB[name]
	}
	return schemas
}
