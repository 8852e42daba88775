// Package gen builds validated entity models from storm declarations.
//
// The models are the input of the DAO generator: for every entity they fix
// the table name, the database, the persisted fields with their converters
// and the id field.
//
// # Architecture
//
// The build pipeline follows this flow:
//
//	Declarations (YAML files or Go structs)
//	        ↓
//	   load.Schema
//	        ↓
//	   Classifier (per field, consults the converter registry)
//	        ↓
//	   Entity (table, database, fields, id)
//	        ↓
//	   Graph (all entities, cross-entity checks)
//	        ↓
//	   Snapshot / atlas schema / generator
//
// # Key Types
//
//   - Graph: Holds all entities and their diagnostics
//   - Entity: One persistent entity with its fields and id
//   - Field: Field with storage type and converter
//   - Classifier: Turns field declarations into fields
//   - Config: Registries and settings shared by a build
//
// # Id Resolution
//
// A field carrying an explicit id marker is checked when it is declared: the
// first one becomes the id only if its type is int64, and every marker seen
// after an id was accepted is reported as a duplicate. When no marker was
// accepted, the field named "id" is used instead. Either way the id must be
// an int64 field once all fields are processed.
//
// # Error Handling
//
// Problems found in declarations are reported to a Reporter as *SchemaError
// values and never stop a build. Each wraps one of the diagnostic kinds, so
// callers can match on both:
//
//	g, err := gen.NewGraph(ctx, cfg, schemas...)
//	if err != nil {
//	    return err // context canceled
//	}
//	for _, d := range g.Diagnostics() {
//	    if errors.Is(d, gen.ErrDuplicateID) {
//	        // handle a duplicate id
//	    }
//	}
//
// Every diagnostic also matches ErrInvalidSchema. Configuration problems are
// returned as *ConfigError values matching ErrMissingConfig.
package gen
