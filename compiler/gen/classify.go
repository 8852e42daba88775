package gen

import (
	"github.com/syssam/storm/compiler/load"
	"github.com/syssam/storm/converter"
)

// Classification is the outcome of classifying a persisted field.
type Classification struct {
	// Field is the field model.
	Field *Field
	// IDCandidate indicates the field carries an explicit id marker.
	IDCandidate bool
}

// Classifier turns field declarations into field models.
type Classifier struct {
	converters *converter.Registry
	reporter   Reporter
}

// NewClassifier returns a classifier resolving converters from the given
// registry and sending diagnostics to r. A nil registry means the builtin one.
func NewClassifier(converters *converter.Registry, r Reporter) *Classifier {
	if converters == nil {
		converters = converter.Builtin()
	}
	return &Classifier{converters: converters, reporter: r}
}

// Classify classifies one field of owner. It returns false when the field
// is not persisted: transient fields, enum fields marked as id and fields
// whose type has no converter. Each of these except a plain transient field
// is reported.
func (c *Classifier) Classify(owner *load.Schema, f *load.Field) (Classification, bool) {
	switch {
	case f.Transient:
		if f.ID {
			c.report(owner, f, "", ErrIDOnTransient)
		}
		return Classification{}, false
	case f.Type.Kind == load.KindEnum:
		if f.ID {
			c.report(owner, f, "enum type "+f.Type.Name+" cannot be an id", ErrIDOnEnum)
			return Classification{}, false
		}
		return Classification{
			Field: c.field(f, f.Type.Name, true, c.converters.Enum()),
		}, true
	case f.Type.Kind == load.KindUnsupported:
		c.report(owner, f, "", &converter.UnsupportedTypeError{Type: f.Type.Name})
		return Classification{}, false
	}
	conv, err := c.converters.Lookup(f.Type.Name)
	if err != nil {
		c.report(owner, f, "", err)
		return Classification{}, false
	}
	return Classification{
		Field:       c.field(f, f.Type.Name, false, conv),
		IDCandidate: f.ID,
	}, true
}

func (c *Classifier) field(f *load.Field, typ string, enum bool, conv *converter.Descriptor) *Field {
	return &Field{
		def:         f,
		Name:        f.Name,
		StorageType: typ,
		Enum:        enum,
		Converter:   conv,
		Pos:         f.Pos,
	}
}

func (c *Classifier) report(owner *load.Schema, f *load.Field, msg string, cause error) {
	if c.reporter == nil {
		return
	}
	c.reporter.Report(&SchemaError{
		Type:    owner.Name,
		Field:   f.Name,
		Pos:     f.Pos,
		Message: msg,
		Cause:   cause,
	})
}
