package tree

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/visitree/internal/common"
	"github.com/rawbytedev/visitree/pkg/geom"
)

// Snapshot is a decoded, self-describing copy of a document meant for
// tooling. It cannot be turned back into a Document.
type Snapshot struct {
	Version uint32      `yaml:"version" cbor:"version"`
	Root    *ExportNode `yaml:"root" cbor:"root"`
}

type ExportNode struct {
	Name     string        `yaml:"name" cbor:"name"`
	Fields   []ExportField `yaml:"fields,omitempty" cbor:"fields,omitempty"`
	Children []*ExportNode `yaml:"children,omitempty" cbor:"children,omitempty"`
}

// ExportField carries the decoded value of one field. Blobs are base64
// strings; a field that cannot be decoded has a nil Value.
type ExportField struct {
	Name  string `yaml:"name" cbor:"name"`
	Type  string `yaml:"type" cbor:"type"`
	Value any    `yaml:"value" cbor:"value"`
}

// Export decodes every field of d into a Snapshot.
func Export(d *Document) *Snapshot {
	return &Snapshot{Version: d.Version, Root: exportNode(d, d.Root)}
}

func exportNode(d *Document, n *Node) *ExportNode {
	en := &ExportNode{Name: n.Name}
	for _, f := range n.Fields {
		en.Fields = append(en.Fields, ExportField{Name: f.Name, Type: f.Type.String(), Value: DecodeValue(d, f)})
	}
	for _, c := range n.Children {
		en.Children = append(en.Children, exportNode(d, c))
	}
	return en
}

// DecodeValue returns the Go value stored in f, or nil when the field does
// not fit its type.
func DecodeValue(d *Document, f Field) any {
	b, err := d.Bytes(f)
	if err != nil {
		return nil
	}
	if f.Type == TypeData {
		return base64.StdEncoding.EncodeToString(b)
	}
	if len(b) != f.Type.FixedSize() {
		return nil
	}
	switch f.Type {
	case TypeBool:
		return common.Bool(b)
	case TypeInt8:
		return int8(b[0])
	case TypeUint8:
		return b[0]
	case TypeInt16:
		return int16(binary.LittleEndian.Uint16(b))
	case TypeUint16:
		return binary.LittleEndian.Uint16(b)
	case TypeInt32:
		return int32(binary.LittleEndian.Uint32(b))
	case TypeUint32:
		return binary.LittleEndian.Uint32(b)
	case TypeInt64:
		return int64(binary.LittleEndian.Uint64(b))
	case TypeUint64:
		return binary.LittleEndian.Uint64(b)
	case TypeFloat32:
		return common.Float32(b)
	case TypeFloat64:
		return common.Float64(b)
	case TypeVector2:
		return geom.DecodeVec2(b)
	case TypeVector3:
		return geom.DecodeVec3(b)
	case TypeVector4:
		return geom.DecodeVec4(b)
	case TypeQuaternion:
		return geom.DecodeQuat(b)
	case TypeMatrix3:
		m := geom.DecodeMat3(b)
		return m[:]
	case TypeMatrix4:
		m := geom.DecodeMat4(b)
		return m[:]
	case TypeRect:
		return geom.DecodeRect(b)
	case TypeColor:
		return geom.DecodeColor(b)
	default:
		return nil
	}
}

// EncodeYAML renders the snapshot of d as YAML.
func EncodeYAML(d *Document) ([]byte, error) {
	out, err := yaml.Marshal(Export(d))
	if err != nil {
		return nil, fmt.Errorf("marshal yaml snapshot: %w", err)
	}
	return out, nil
}

// EncodeCBOR renders the snapshot of d as CBOR.
func EncodeCBOR(d *Document) ([]byte, error) {
	out, err := cbor.Marshal(Export(d))
	if err != nil {
		return nil, fmt.Errorf("marshal cbor snapshot: %w", err)
	}
	return out, nil
}
