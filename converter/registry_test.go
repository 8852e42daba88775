package converter

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	r := Builtin()
	require.Same(t, r, Builtin(), "builtin registry is created once")

	tests := []struct {
		typ  string
		name string
		sql  SQLType
	}{
		{"bool", "BooleanConverter", Integer},
		{"*bool", "BooleanConverter", Integer},
		{"[]byte", "BlobConverter", Blob},
		{"int8", "ByteConverter", Integer},
		{"uint8", "ByteConverter", Integer},
		{"int16", "ShortConverter", Integer},
		{"int32", "IntegerConverter", Integer},
		{"int", "IntConverter", Integer},
		{"int64", "LongConverter", Integer},
		{"*int64", "LongConverter", Integer},
		{"float32", "FloatConverter", Real},
		{"float64", "DoubleConverter", Real},
		{"string", "StringConverter", Text},
		{"*string", "StringConverter", Text},
		{"time.Time", "TimeConverter", Integer},
		{"*time.Time", "TimeConverter", Integer},
		{"github.com/google/uuid.UUID", "UUIDConverter", Text},
		{"github.com/shopspring/decimal.Decimal", "DecimalConverter", Text},
		{EnumKey, "EnumConverter", Text},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			d, err := r.Lookup(tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.name, d.Name)
			assert.Equal(t, tt.sql, d.SQLType)
			assert.Equal(t, tt.typ, d.Type)
			assert.Equal(t, DefaultPackage, d.Package)
		})
	}
	assert.NotContains(t, r.Names(), "*[]byte", "byte slices have no pointer variant")
}

func TestRegistry_LookupUnsupported(t *testing.T) {
	_, err := Builtin().Lookup("chan int")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedType))
	assert.True(t, IsUnsupportedType(err))
	assert.Contains(t, err.Error(), `"chan int"`)

	var typeErr *UnsupportedTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "chan int", typeErr.Type)
}

func TestRegistry_Enum(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)
	require.NotNil(t, r.Enum(), "enum fallback is always present")
	assert.Equal(t, "EnumConverter", r.Enum().Name)
	assert.Same(t, Builtin().Enum(), r.Enum())

	custom := &Descriptor{Name: "OrdinalConverter", Type: EnumKey, SQLType: Integer, BindType: BindInt}
	r, err = NewRegistry(custom)
	require.NoError(t, err)
	assert.Same(t, custom, r.Enum())
}

func TestRegistry_With(t *testing.T) {
	base := Builtin()
	amount := &Descriptor{
		Name:     "AmountConverter",
		Package:  "example.com/money/storm",
		Type:     "example.com/money.Amount",
		SQLType:  Text,
		BindType: BindString,
	}
	r, err := base.With(amount)
	require.NoError(t, err)

	d, err := r.Lookup("example.com/money.Amount")
	require.NoError(t, err)
	assert.Equal(t, "example.com/money/storm.AmountConverter", d.QualifiedName())
	assert.Equal(t, base.Len()+1, r.Len())

	_, err = base.Lookup("example.com/money.Amount")
	assert.ErrorIs(t, err, ErrUnsupportedType, "receiver is not modified")

	_, err = base.With(&Descriptor{Name: "Other", Type: "int64", SQLType: Integer, BindType: BindLong})
	assert.EqualError(t, err, `converter: type "int64" already served by github.com/syssam/storm/converter/builtin.LongConverter`)
}

func TestNewRegistry_Invalid(t *testing.T) {
	tests := []struct {
		name string
		desc *Descriptor
		err  string
	}{
		{"nil", nil, "converter: nil descriptor"},
		{"no type", &Descriptor{Name: "X", SQLType: Text, BindType: BindString}, `converter: descriptor "X" has no type`},
		{"no name", &Descriptor{Type: "x", SQLType: Text, BindType: BindString}, `converter: descriptor for "x" has no name`},
		{"bad sql", &Descriptor{Name: "X", Type: "x", SQLType: "NUMBER", BindType: BindString}, `converter "X": converter: unknown sql type "NUMBER"`},
		{"bad bind", &Descriptor{Name: "X", Type: "x", SQLType: Text, BindType: "CHAR"}, `converter "X": converter: unknown bind type "CHAR"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.desc)
			assert.EqualError(t, err, tt.err)
		})
	}
}

func TestParseTypes(t *testing.T) {
	st, err := ParseSQLType(" text ")
	require.NoError(t, err)
	assert.Equal(t, Text, st)

	bt, err := ParseBindType("long")
	require.NoError(t, err)
	assert.Equal(t, BindLong, bt)
}

func TestTypeName(t *testing.T) {
	type local struct{}
	tests := []struct {
		typ  reflect.Type
		want string
	}{
		{reflect.TypeFor[int64](), "int64"},
		{reflect.TypeFor[*int64](), "*int64"},
		{reflect.TypeFor[[]byte](), "[]byte"},
		{reflect.TypeFor[[]string](), "[]string"},
		{reflect.TypeFor[time.Time](), "time.Time"},
		{reflect.TypeFor[*uuid.UUID](), "*github.com/google/uuid.UUID"},
		{reflect.TypeFor[decimal.Decimal](), "github.com/shopspring/decimal.Decimal"},
		{reflect.TypeFor[local](), "github.com/syssam/storm/converter.local"},
		{reflect.TypeFor[map[string]int](), "map[string]int"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TypeName(tt.typ))
	}
}
