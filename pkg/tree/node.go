package tree

import (
	"fmt"

	"github.com/rawbytedev/visitree/pkg/geom"
)

//go:generate go tool stringer -type=DataType -trimprefix=Type -output=datatype_string.go

// DataType tags every stored field so a read with the wrong accessor fails
// instead of reinterpreting bytes. The numeric values are part of the file
// format.
type DataType uint8

const (
	TypeBool DataType = iota
	TypeInt8
	TypeUint8
	TypeInt16
	TypeUint16
	TypeInt32
	TypeUint32
	TypeInt64
	TypeUint64
	TypeFloat32
	TypeFloat64
	TypeVector2
	TypeVector3
	TypeVector4
	TypeQuaternion
	TypeMatrix3
	TypeMatrix4
	TypeRect
	TypeColor
	TypeData // opaque blob, any length
)

// Valid reports whether t is a known tag.
func (t DataType) Valid() bool {
	return t <= TypeData
}

// FixedSize returns the encoded width of t, or -1 for TypeData and unknown tags.
func (t DataType) FixedSize() int {
	switch t {
	case TypeBool, TypeInt8, TypeUint8:
		return 1
	case TypeInt16, TypeUint16:
		return 2
	case TypeInt32, TypeUint32, TypeFloat32:
		return 4
	case TypeInt64, TypeUint64, TypeFloat64:
		return 8
	case TypeVector2:
		return geom.Vec2Size
	case TypeVector3:
		return geom.Vec3Size
	case TypeVector4:
		return geom.Vec4Size
	case TypeQuaternion:
		return geom.QuatSize
	case TypeMatrix3:
		return geom.Mat3Size
	case TypeMatrix4:
		return geom.Mat4Size
	case TypeRect:
		return geom.RectSize
	case TypeColor:
		return geom.ColorSize
	default:
		return -1
	}
}

// Field is a named, typed window into the document's data arena.
type Field struct {
	Name   string
	Type   DataType
	Offset uint32
	Size   uint32
}

// Node mirrors one level of the traversal. Children and fields keep their
// insertion order; lookups by name resolve to the first occurrence. The
// slices may be edited directly: the name index is rebuilt on the next
// lookup whenever their length no longer matches what was indexed.
type Node struct {
	Name     string
	Children []*Node
	Fields   []Field

	parent   *Node
	childIdx map[string]int
	fieldIdx map[string]int
	nchild   int // len(Children) when childIdx was last built
	nfield   int
}

func NewNode(name string) *Node {
	return &Node{Name: name}
}

// Parent returns nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) indexChildren() {
	if n.childIdx != nil && n.nchild == len(n.Children) {
		return
	}
	n.childIdx = make(map[string]int, len(n.Children))
	for i, c := range n.Children {
		c.parent = n
		if _, ok := n.childIdx[c.Name]; !ok {
			n.childIdx[c.Name] = i
		}
	}
	n.nchild = len(n.Children)
}

func (n *Node) indexFields() {
	if n.fieldIdx != nil && n.nfield == len(n.Fields) {
		return
	}
	n.fieldIdx = make(map[string]int, len(n.Fields))
	for i, f := range n.Fields {
		if _, ok := n.fieldIdx[f.Name]; !ok {
			n.fieldIdx[f.Name] = i
		}
	}
	n.nfield = len(n.Fields)
}

// AddChild appends c and makes n its parent.
func (n *Node) AddChild(c *Node) {
	n.indexChildren()
	c.parent = n
	n.Children = append(n.Children, c)
	if _, ok := n.childIdx[c.Name]; !ok {
		n.childIdx[c.Name] = len(n.Children) - 1
	}
	n.nchild = len(n.Children)
}

// Child returns the first child called name.
func (n *Node) Child(name string) (*Node, bool) {
	n.indexChildren()
	i, ok := n.childIdx[name]
	if !ok {
		return nil, false
	}
	return n.Children[i], true
}

func (n *Node) AddField(f Field) {
	n.indexFields()
	n.Fields = append(n.Fields, f)
	if _, ok := n.fieldIdx[f.Name]; !ok {
		n.fieldIdx[f.Name] = len(n.Fields) - 1
	}
	n.nfield = len(n.Fields)
}

// Field returns the first field called name.
func (n *Node) Field(name string) (Field, bool) {
	n.indexFields()
	i, ok := n.fieldIdx[name]
	if !ok {
		return Field{}, false
	}
	return n.Fields[i], true
}

// Path returns the slash separated names from the root down to n.
func (n *Node) Path() string {
	size := 0
	for p := n; p != nil; p = p.parent {
		size += len(p.Name) + 1
	}
	b := make([]byte, size-1)
	i := len(b)
	for p := n; p != nil; p = p.parent {
		i -= len(p.Name)
		copy(b[i:], p.Name)
		if p.parent != nil {
			i--
			b[i] = '/'
		}
	}
	return string(b)
}

// String returns the path of n, so a node can be handed to a logger as is.
func (n *Node) String() string {
	return n.Path()
}

// Document is a complete node tree together with the flat arena its fields
// point into.
type Document struct {
	Version uint32
	Root    *Node
	Data    []byte
}

// RootName is the name given to the root node of every document.
const RootName = "root"

func NewDocument(version uint32) *Document {
	return &Document{Version: version, Root: NewNode(RootName)}
}

// Bytes returns the arena slice f refers to.
func (d *Document) Bytes(f Field) ([]byte, error) {
	end := uint64(f.Offset) + uint64(f.Size)
	if end > uint64(len(d.Data)) {
		return nil, fmt.Errorf("%w: field %q [%d:%d] outside %d byte arena", ErrCorrupt, f.Name, f.Offset, end, len(d.Data))
	}
	return d.Data[f.Offset:end], nil
}
