package tree

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/visitree/pkg/geom"
)

func TestExport(t *testing.T) {
	s := Export(sampleDoc())
	require.Equal(t, uint32(VersionV1), s.Version)
	require.Equal(t, "root", s.Root.Name)
	require.Equal(t, []ExportField{{Name: "Health", Type: "Int32", Value: int32(100)}}, s.Root.Fields)

	inv := s.Root.Children[0]
	require.Equal(t, "Inventory", inv.Name)
	require.Equal(t, uint32(1), inv.Fields[0].Value)
	require.Equal(t, "bGVnZW5kYXJ5IHN3b3Jk", inv.Children[0].Fields[0].Value)
}

func TestDecodeValue(t *testing.T) {
	d := NewDocument(VersionV1)
	addField(d, d.Root, "m3", TypeMatrix3, geom.IdentityMat3().AppendLE(nil))
	addField(d, d.Root, "c", TypeColor, geom.Color{R: 9}.AppendLE(nil))
	addField(d, d.Root, "bad", TypeFloat64, []byte{1})

	m, ok := DecodeValue(d, d.Root.Fields[0]).([]float32)
	require.True(t, ok)
	assert.Equal(t, []float32{1, 0, 0, 0, 1, 0, 0, 0, 1}, m)
	assert.Equal(t, geom.Color{R: 9}, DecodeValue(d, d.Root.Fields[1]))
	assert.Nil(t, DecodeValue(d, d.Root.Fields[2]))
}

func TestEncodeYAML(t *testing.T) {
	out, err := EncodeYAML(sampleDoc())
	require.NoError(t, err)

	var s Snapshot
	require.NoError(t, yaml.Unmarshal(out, &s))
	require.Equal(t, "root", s.Root.Name)
	require.Equal(t, "Health", s.Root.Fields[0].Name)
	require.Equal(t, "Int32", s.Root.Fields[0].Type)
	require.EqualValues(t, 100, s.Root.Fields[0].Value)
	require.Equal(t, "Item0", s.Root.Children[0].Children[0].Name)
}

func TestEncodeCBOR(t *testing.T) {
	out, err := EncodeCBOR(sampleDoc())
	require.NoError(t, err)

	var s Snapshot
	require.NoError(t, cbor.Unmarshal(out, &s))
	require.Equal(t, uint32(VersionV1), s.Version)
	require.EqualValues(t, 100, s.Root.Fields[0].Value)
	require.Equal(t, "bGVnZW5kYXJ5IHN3b3Jk", s.Root.Children[0].Children[0].Fields[0].Value)
}
