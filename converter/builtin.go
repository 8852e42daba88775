package converter

import (
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// enumConverter serves every enumeration type.
var enumConverter = &Descriptor{
	Name:     "EnumConverter",
	Package:  DefaultPackage,
	Type:     EnumKey,
	SQLType:  Text,
	BindType: BindString,
}

// builtins holds the converters for builtin value types, their nullable
// (pointer) variants and the common library types.
var builtins = [][]*Descriptor{
	builtin("BooleanConverter", Integer, BindInt, reflect.TypeFor[bool]()),
	builtin("BlobConverter", Blob, BindBlob, reflect.TypeFor[[]byte]()),
	builtin("ByteConverter", Integer, BindInt, reflect.TypeFor[int8](), reflect.TypeFor[uint8]()),
	builtin("ShortConverter", Integer, BindShort, reflect.TypeFor[int16]()),
	builtin("IntegerConverter", Integer, BindInt, reflect.TypeFor[int32]()),
	builtin("IntConverter", Integer, BindLong, reflect.TypeFor[int]()),
	builtin("LongConverter", Integer, BindLong, reflect.TypeFor[int64]()),
	builtin("FloatConverter", Real, BindFloat, reflect.TypeFor[float32]()),
	builtin("DoubleConverter", Real, BindDouble, reflect.TypeFor[float64]()),
	builtin("StringConverter", Text, BindString, reflect.TypeFor[string]()),
	builtin("TimeConverter", Integer, BindLong, reflect.TypeFor[time.Time]()),
	builtin("UUIDConverter", Text, BindString, reflect.TypeFor[uuid.UUID]()),
	builtin("DecimalConverter", Text, BindString, reflect.TypeFor[decimal.Decimal]()),
	{enumConverter},
}

// builtin expands one converter into descriptors for each value type and,
// except for byte slices, its pointer variant.
func builtin(name string, sql SQLType, bind BindType, types ...reflect.Type) []*Descriptor {
	var descs []*Descriptor
	for _, t := range types {
		variants := []reflect.Type{t}
		if t.Kind() != reflect.Slice {
			variants = append(variants, reflect.PointerTo(t))
		}
		for _, v := range variants {
			descs = append(descs, &Descriptor{
				Name:     name,
				Package:  DefaultPackage,
				Type:     TypeName(v),
				SQLType:  sql,
				BindType: bind,
			})
		}
	}
	return descs
}

// Builtin returns the registry of built-in converters. It is created once
// and shared by all callers.
var Builtin = sync.OnceValue(func() *Registry {
	var descs []*Descriptor
	for _, group := range builtins {
		descs = append(descs, group...)
	}
	r, err := NewRegistry(descs...)
	if err != nil {
		panic(err)
	}
	return r
})

// TypeName returns the canonical name of a Go type: builtin names as
// spelled in Go, "*T" for pointers, "[]T" for slices and "importpath.Name"
// for named types declared outside the universe scope.
func TypeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + TypeName(t.Elem())
	case reflect.Slice:
		if t.Name() == "" {
			if e := t.Elem(); e.Kind() == reflect.Uint8 && e.PkgPath() == "" {
				return "[]byte"
			}
			return "[]" + TypeName(t.Elem())
		}
	}
	if t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
