package gen

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotVersion is the version of the snapshot encoding.
const SnapshotVersion = 1

type (
	// Snapshot is the serializable view of the valid entities of a graph,
	// handed to generators running out of process.
	Snapshot struct {
		Version  int               `msgpack:"version"`
		Entities []*SnapshotEntity `msgpack:"entities"`
	}

	// SnapshotEntity is the serializable view of an entity.
	SnapshotEntity struct {
		Name     string           `msgpack:"name"`
		Package  string           `msgpack:"package,omitempty"`
		Table    string           `msgpack:"table"`
		Database string           `msgpack:"database"`
		ID       string           `msgpack:"id"`
		BaseDAO  string           `msgpack:"base_dao"`
		Imports  []string         `msgpack:"imports"`
		Fields   []*SnapshotField `msgpack:"fields"`
	}

	// SnapshotField is the serializable view of a field.
	SnapshotField struct {
		Name      string `msgpack:"name"`
		Type      string `msgpack:"type"`
		Enum      bool   `msgpack:"enum,omitempty"`
		Converter string `msgpack:"converter"`
		Column    string `msgpack:"column"`
	}
)

// Snapshot returns the serializable view of the valid entities, in graph order.
func (g *Graph) Snapshot() *Snapshot {
	s := &Snapshot{Version: SnapshotVersion}
	for _, e := range g.Nodes {
		if !e.Valid() {
			continue
		}
		se := &SnapshotEntity{
			Name:     e.Name,
			Package:  e.Package,
			Table:    e.TableName,
			Database: e.Database.Name,
			ID:       e.ID.Name,
			BaseDAO:  e.BaseDAO,
			Imports:  e.Imports(),
		}
		for _, f := range e.Fields {
			se.Fields = append(se.Fields, &SnapshotField{
				Name:      f.Name,
				Type:      f.StorageType,
				Enum:      f.Enum,
				Converter: f.Converter.QualifiedName(),
				Column:    f.Column(),
			})
		}
		s.Entities = append(s.Entities, se)
	}
	return s
}

// EncodeSnapshot writes s to w in msgpack format.
func EncodeSnapshot(w io.Writer, s *Snapshot) error {
	if err := msgpack.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot reads a snapshot written by EncodeSnapshot.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("decode snapshot: unsupported version %d", s.Version)
	}
	return &s, nil
}
