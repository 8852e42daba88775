package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/storm/compiler/gen"
	"github.com/syssam/storm/compiler/load"
)

const sample = `
databases:
  - name: main
    file: app.db
    version: 2
  - name: logs
    default: true
converters:
  - type: example.com/money.Amount
    name: AmountConverter
    package: example.com/money/storm
    sql: text
    bind: string
base_dao: ${DAO_PKG}.Base
workers: 3
logging:
  level: debug
  format: json
`

func TestLoad(t *testing.T) {
	t.Setenv("DAO_PKG", "example.com/dao")
	path := filepath.Join(t.TempDir(), "storm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Databases, 2)
	assert.Equal(t, "app.db", cfg.Databases[0].FileName())
	assert.Equal(t, 2, cfg.Databases[0].Version)
	assert.True(t, cfg.Databases[1].Default)
	assert.Equal(t, "example.com/dao.Base", cfg.BaseDAO)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, LoggingConfig{Level: "debug", Format: "json"}, cfg.Logging)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")

	tests := []struct {
		name string
		doc  string
		err  string
	}{
		{"syntax", "databases: [", "parse config"},
		{"duplicate database", "databases: [{name: a}, {name: a}]", `database: "a" declared more than once`},
		{"bad sql type", "converters: [{type: x.T, name: C, sql: VARCHAR, bind: STRING}]", `converters[0]: converter: unknown sql type "VARCHAR"`},
		{"builtin conflict", "converters: [{type: int64, name: C, sql: INTEGER, bind: LONG}]", `type "int64" already served by`},
		{"base dao", "base_dao: Base", "base_dao must be a qualified type name"},
		{"workers", "workers: -1", "workers must not be negative"},
		{"level", "logging: {level: loud}", "logging.level must be one of"},
		{"trace level", "logging: {level: trace}", "logging.level must be one of: debug, info, warn, error"},
		{"disabled level", "logging: {level: disabled}", "logging.level must be one of"},
		{"format", "logging: {format: xml}", "logging.format must be 'json' or 'console'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	assert.Empty(t, cfg.Databases, "no database is declared implicitly")
	assert.Equal(t, gen.DefaultBaseDAO, cfg.BaseDAO)
	assert.Equal(t, LoggingConfig{Level: "info", Format: "console"}, cfg.Logging)
}

func TestLoadOrDefault(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := LoadOrDefault(DefaultPath)
	require.NoError(t, err)
	assert.Empty(t, cfg.Databases)

	_, err = LoadOrDefault("other.yaml")
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DAO_PKG", "example.com/dao")
	t.Setenv("STORM_LOG_LEVEL", "warn")
	t.Setenv("STORM_LOG_FORMAT", "console")
	t.Setenv("STORM_WORKERS", "7")
	t.Setenv("STORM_DEFAULT_DATABASE", "main")

	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, LoggingConfig{Level: "warn", Format: "console"}, cfg.Logging)
	assert.Equal(t, 7, cfg.Workers)
	assert.True(t, cfg.Databases[0].Default)
	assert.False(t, cfg.Databases[1].Default)
}

func TestEnvOverrides_UndeclaredDefaultDatabase(t *testing.T) {
	t.Setenv("STORM_DEFAULT_DATABASE", "cache")
	_, err := Default()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `STORM_DEFAULT_DATABASE: database "cache" is not declared`)

	t.Setenv("DAO_PKG", "example.com/dao")
	_, err = Parse([]byte(sample))
	require.Error(t, err)
}

func TestConfig_NoDatabase(t *testing.T) {
	cfg, err := Parse([]byte("workers: 1\n"))
	require.NoError(t, err)
	opts, err := cfg.GenOptions()
	require.NoError(t, err)
	c, err := gen.NewConfig(opts...)
	require.NoError(t, err)

	col := &gen.Collector{}
	e := gen.NewEntity(c, &load.Schema{
		Name:   "Person",
		Fields: []*load.Field{{Name: "id", Type: load.TypeRef{Name: "int64"}.Resolved()}},
	}, col)
	assert.Nil(t, e.Database)
	assert.False(t, e.Valid())
	require.Equal(t, 1, col.Len())
	assert.ErrorIs(t, col.Errors()[0], gen.ErrNoDatabase)
}

func TestConfig_Logger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{Logging: LoggingConfig{Level: "warn", Format: "json"}}
	l := cfg.Logger(&buf)
	l.Info().Msg("hidden")
	l.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)

	buf.Reset()
	cfg.Logging.Format = "console"
	l = cfg.Logger(&buf)
	l.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "WRN")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestConfig_GenOptions(t *testing.T) {
	t.Setenv("DAO_PKG", "example.com/dao")
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)
	opts, err := cfg.GenOptions()
	require.NoError(t, err)
	c, err := gen.NewConfig(opts...)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Workers)
	assert.Equal(t, "example.com/dao.Base", c.BaseDAO)
	assert.Equal(t, "logs", c.Databases.Default().Name)

	g, err := gen.NewGraph(context.Background(), c, &load.Schema{
		Name: "Invoice",
		Fields: []*load.Field{
			{Name: "id", Type: load.TypeRef{Name: "int64"}.Resolved()},
			{Name: "total", Type: load.TypeRef{Name: "example.com/money.Amount"}.Resolved()},
		},
	})
	require.NoError(t, err)
	require.True(t, g.Valid())
	total, ok := g.Nodes[0].FieldByName("total")
	require.True(t, ok)
	assert.Equal(t, "example.com/money/storm.AmountConverter", total.Converter.QualifiedName())
	assert.Equal(t, "logs", g.Nodes[0].Database.Name)
}
