package load

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/syssam/storm/converter"
)

// TagName is the struct tag read by FromStruct.
const TagName = "storm"

// Enum is implemented by Go types that should be stored as enumerations.
type Enum interface {
	EnumValues() []string
}

var enumType = reflect.TypeFor[Enum]()

// FromStruct builds an entity declaration from a Go struct type.
//
// Exported fields become entity fields named like their Go field with the
// first word lower-cased ("ID" → "id", "FirstName" → "firstName"). The
// storm tag overrides the name and sets options:
//
//	Key    int64  `storm:",id"`        // primary-key marker
//	Cache  string `storm:"-"`          // transient
//	Notes  string `storm:",transient"` // transient, keeps the name
//	_      struct{} `storm:"table=people,database=main"`
//
// Fields of embedded structs are promoted in place, so a shared Base{ID int64}
// provides the id. A promoted name that clashes with another field is kept
// and reported as redeclared by the model builder. Tag an embedded field "-"
// to skip it.
//
// Types implementing Enum are declared as enums. Channels, functions,
// maps, interfaces and unnamed arrays or slices other than []byte are
// declared unsupported so the generator reports them.
func FromStruct(v any) (*Schema, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("load: %T is not a struct type", v)
	}
	if t.Name() == "" {
		return nil, fmt.Errorf("load: anonymous struct %s cannot be an entity", t)
	}
	s := &Schema{
		Name:    t.Name(),
		Package: t.PkgPath(),
		Pos:     t.String(),
	}
	if err := s.addFields(t, s.Pos, map[reflect.Type]bool{t: true}); err != nil {
		return nil, err
	}
	return s, nil
}

// addFields appends the fields of struct type t, promoting the fields of
// embedded structs in place.
func (s *Schema) addFields(t reflect.Type, pos string, seen map[reflect.Type]bool) error {
	for i := range t.NumField() {
		sf := t.Field(i)
		tag, hasTag := sf.Tag.Lookup(TagName)
		if sf.Name == "_" {
			if hasTag {
				if err := s.entityOptions(tag); err != nil {
					return fmt.Errorf("load: %s: %w", pos, err)
				}
			}
			continue
		}
		if sf.Anonymous {
			et := sf.Type
			if et.Kind() == reflect.Pointer {
				et = et.Elem()
			}
			if et.Kind() == reflect.Struct && tag != "-" {
				if seen[et] {
					return fmt.Errorf("load: %s.%s: recursive embedding of %s", pos, sf.Name, et)
				}
				seen[et] = true
				if err := s.addFields(et, pos+"."+sf.Name, seen); err != nil {
					return err
				}
				delete(seen, et)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		f := &Field{
			Name: lowerFirstWord(sf.Name),
			Type: typeRef(sf.Type),
			Pos:  pos + "." + sf.Name,
		}
		if err := f.options(tag); err != nil {
			return fmt.Errorf("load: %s: %w", f.Pos, err)
		}
		s.Fields = append(s.Fields, f)
	}
	return nil
}

func (s *Schema) entityOptions(tag string) error {
	for _, opt := range strings.Split(tag, ",") {
		k, v, _ := strings.Cut(strings.TrimSpace(opt), "=")
		switch k {
		case "table":
			s.Table = v
		case "database":
			s.Database = v
		case "":
		default:
			return fmt.Errorf("unknown entity option %q", k)
		}
	}
	return nil
}

func (f *Field) options(tag string) error {
	if tag == "-" {
		f.Transient = true
		return nil
	}
	name, rest, _ := strings.Cut(tag, ",")
	if name != "" {
		f.Name = name
	}
	if rest == "" {
		return nil
	}
	for _, opt := range strings.Split(rest, ",") {
		switch strings.TrimSpace(opt) {
		case "id":
			f.ID = true
		case "transient":
			f.Transient = true
		case "":
		default:
			return fmt.Errorf("unknown field option %q", opt)
		}
	}
	return nil
}

func typeRef(t reflect.Type) TypeRef {
	name := converter.TypeName(t)
	if t.Implements(enumType) || reflect.PointerTo(t).Implements(enumType) {
		return TypeRef{Name: name, Kind: KindEnum}
	}
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Interface, reflect.UnsafePointer:
		return TypeRef{Name: name, Kind: KindUnsupported}
	case reflect.Array, reflect.Slice:
		if t.Name() == "" && name != "[]byte" {
			return TypeRef{Name: name, Kind: KindUnsupported}
		}
	}
	return TypeRef{Name: name}.Resolved()
}

// lowerFirstWord lower-cases the leading word of an exported Go name,
// treating a run of capitals as one word: "ID" → "id", "HTTPCode" → "httpCode".
// A lower-case "s" right after the run pluralises it: "IDs" → "ids",
// "URLsByHost" → "urlsByHost".
func lowerFirstWord(name string) string {
	r := []rune(name)
	n := 0
	for n < len(r) && unicode.IsUpper(r[n]) {
		n++
	}
	switch {
	case n == 0:
		return name
	case n == 1 || n == len(r):
	case r[n] == 's' && (n+1 == len(r) || unicode.IsUpper(r[n+1])):
	default:
		// Keep the last capital of the run; it starts the next word.
		n--
	}
	for i := range n {
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}
