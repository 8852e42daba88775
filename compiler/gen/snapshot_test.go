package gen

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/storm/converter"
)

func TestGraph_Snapshot(t *testing.T) {
	g, err := NewGraph(context.Background(), testConfig(t), graphSchemas()...)
	require.NoError(t, err)

	s := g.Snapshot()
	assert.Equal(t, SnapshotVersion, s.Version)
	require.Len(t, s.Entities, 2)

	p := s.Entities[0]
	assert.Equal(t, "Person", p.Name)
	assert.Equal(t, "example.com/app/model", p.Package)
	assert.Equal(t, "people", p.Table)
	assert.Equal(t, "main", p.Database)
	assert.Equal(t, "id", p.ID)
	assert.Equal(t, DefaultBaseDAO, p.BaseDAO)
	assert.Equal(t, []*SnapshotField{
		{Name: "id", Type: "int64", Converter: converter.DefaultPackage + ".LongConverter", Column: "id"},
		{Name: "name", Type: "string", Converter: converter.DefaultPackage + ".StringConverter", Column: "name"},
	}, p.Fields)
	assert.Equal(t, "Event", s.Entities[1].Name)
	assert.Equal(t, "key", s.Entities[1].ID)
}

func TestSnapshot_Encoding(t *testing.T) {
	encode := func() []byte {
		g, err := NewGraph(context.Background(), testConfig(t, WithWorkers(3)), graphSchemas()...)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, EncodeSnapshot(&buf, g.Snapshot()))
		return buf.Bytes()
	}
	first := encode()
	for range 5 {
		assert.Equal(t, first, encode())
	}

	s, err := DecodeSnapshot(bytes.NewReader(first))
	require.NoError(t, err)
	require.Len(t, s.Entities, 2)
	assert.Equal(t, "Person", s.Entities[0].Name)
}

func TestDecodeSnapshot_Errors(t *testing.T) {
	_, err := DecodeSnapshot(bytes.NewReader([]byte{0xc1}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode snapshot")

	data, err := msgpack.Marshal(&Snapshot{Version: 99})
	require.NoError(t, err)
	_, err = DecodeSnapshot(bytes.NewReader(data))
	assert.EqualError(t, err, "decode snapshot: unsupported version 99")
}
