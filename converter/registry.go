package converter

import (
	"fmt"
	"maps"
	"slices"
)

// Registry maps canonical type names to converter descriptors.
type Registry struct {
	byType map[string]*Descriptor
}

// NewRegistry returns a registry holding the given descriptors. It fails if
// a descriptor is invalid or a type is registered twice. The enum fallback is
// taken from the built-in registry when none of the descriptors provides it.
func NewRegistry(descs ...*Descriptor) (*Registry, error) {
	r := &Registry{byType: make(map[string]*Descriptor, len(descs)+1)}
	if err := r.add(descs); err != nil {
		return nil, err
	}
	if _, ok := r.byType[EnumKey]; !ok {
		r.byType[EnumKey] = enumConverter
	}
	return r, nil
}

// With returns a new registry that holds the receiver's descriptors and the
// given ones. The receiver is not modified.
func (r *Registry) With(descs ...*Descriptor) (*Registry, error) {
	nr := &Registry{byType: maps.Clone(r.byType)}
	if err := nr.add(descs); err != nil {
		return nil, err
	}
	return nr, nil
}

func (r *Registry) add(descs []*Descriptor) error {
	for _, d := range descs {
		if err := d.validate(); err != nil {
			return err
		}
		if prev, ok := r.byType[d.Type]; ok {
			return fmt.Errorf("converter: type %q already served by %s", d.Type, prev.QualifiedName())
		}
		r.byType[d.Type] = d
	}
	return nil
}

// Lookup returns the converter registered for the canonical type name.
func (r *Registry) Lookup(name string) (*Descriptor, error) {
	if d, ok := r.byType[name]; ok {
		return d, nil
	}
	return nil, &UnsupportedTypeError{Type: name}
}

// Enum returns the enum fallback converter.
func (r *Registry) Enum() *Descriptor {
	return r.byType[EnumKey]
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.byType))
}

// Len returns the number of registered types.
func (r *Registry) Len() int { return len(r.byType) }
