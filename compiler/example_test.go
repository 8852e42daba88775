package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/storm/compiler/gen"
	"github.com/syssam/storm/config"
)

func TestLoad_LibraryExample(t *testing.T) {
	cfg, err := config.Load("../examples/library/storm.yaml")
	require.NoError(t, err)
	opts, err := cfg.GenOptions()
	require.NoError(t, err)
	col := &gen.Collector{}
	c, err := gen.NewConfig(append(opts, gen.WithReporter(col))...)
	require.NoError(t, err)

	g, err := Load(context.Background(), "../examples/library/schema", c)
	require.NoError(t, err)
	require.NoError(t, col.Err())
	require.True(t, g.Valid())
	require.Len(t, g.Nodes, 3)

	loan, author, book := g.Nodes[0], g.Nodes[1], g.Nodes[2]
	assert.Equal(t, "Loan", loan.Name)
	assert.Equal(t, "audit", loan.Database.Name)
	assert.Equal(t, "library", author.Database.Name)
	assert.Equal(t, "id", author.ID.Name)
	assert.Equal(t, "bookId", book.ID.Name)

	isbn, ok := book.FieldByName("isbn")
	require.True(t, ok)
	assert.Equal(t, "example.com/library/model/storm.ISBNConverter", isbn.Converter.QualifiedName())
	_, ok = book.FieldByName("dirty")
	assert.False(t, ok, "transient fields are not persisted")
	assert.Len(t, book.EnumFields(), 1)

	assert.Len(t, g.Entities("library"), 2)
	assert.Len(t, g.Entities("audit"), 1)
}
