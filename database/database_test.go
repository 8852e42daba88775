package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	t.Run("explicit default", func(t *testing.T) {
		main := &Model{Name: "main"}
		logs := &Model{Name: "logs", Default: true}
		r, err := NewRegistry(main, logs)
		require.NoError(t, err)
		assert.Same(t, logs, r.Default())
		assert.Same(t, main, r.ByName("main"))
		assert.Nil(t, r.ByName("missing"))
		assert.Equal(t, []string{"logs", "main"}, r.Names())
	})

	t.Run("first database is the default", func(t *testing.T) {
		main := &Model{Name: "main"}
		r, err := NewRegistry(main, &Model{Name: "logs"})
		require.NoError(t, err)
		assert.Same(t, main, r.Default())
	})

	t.Run("empty registry has no default", func(t *testing.T) {
		r, err := NewRegistry()
		require.NoError(t, err)
		assert.Nil(t, r.Default())
	})

	t.Run("nil registry", func(t *testing.T) {
		var r *Registry
		assert.Nil(t, r.Default())
		assert.Nil(t, r.ByName("main"))
		assert.Nil(t, r.Names())
	})

	t.Run("invalid declarations", func(t *testing.T) {
		_, err := NewRegistry(
			&Model{Name: ""},
			&Model{Name: "a", Default: true},
			&Model{Name: "a"},
			&Model{Name: "b", Default: true},
			&Model{Name: "c", Version: -1},
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database: name cannot be empty")
		assert.Contains(t, err.Error(), `database: "a" declared more than once`)
		assert.Contains(t, err.Error(), `database: both "a" and "b" are marked default`)
		assert.Contains(t, err.Error(), `database: "c" has negative version -1`)
	})
}

func TestModel_FileName(t *testing.T) {
	assert.Equal(t, "main.db", (&Model{Name: "main"}).FileName())
	assert.Equal(t, "app.sqlite", (&Model{Name: "main", File: "app.sqlite"}).FileName())
}
