package tree

import (
	"fmt"
	"io"
	"strings"

	"github.com/rawbytedev/visitree/pkg/geom"
)

// printTags are the short type labels used by Print.
var printTags = [...]string{
	TypeBool:       "b",
	TypeInt8:       "i8",
	TypeUint8:      "u8",
	TypeInt16:      "i16",
	TypeUint16:     "u16",
	TypeInt32:      "i32",
	TypeUint32:     "u32",
	TypeInt64:      "i64",
	TypeUint64:     "u64",
	TypeFloat32:    "f",
	TypeFloat64:    "d",
	TypeVector2:    "v2",
	TypeVector3:    "v3",
	TypeVector4:    "v4",
	TypeQuaternion: "q",
	TypeMatrix3:    "m3",
	TypeMatrix4:    "m4",
	TypeRect:       "rect",
	TypeColor:      "color",
	TypeData:       "data",
}

func printTag(t DataType) string {
	if !t.Valid() {
		return t.String()
	}
	return printTags[t]
}

// Print writes one line per node, indented two spaces per level:
//
//	root: <Health|i32:100>
//	  Name: <Length|u32:5>, <Data|data:aGVsbG8=>
func Print(w io.Writer, d *Document) error {
	var sb strings.Builder
	printNode(&sb, d, d.Root, 0)
	_, err := io.WriteString(w, sb.String())
	return err
}

func printNode(sb *strings.Builder, d *Document, n *Node, level int) {
	sb.WriteString(strings.Repeat("  ", level))
	sb.WriteString(n.Name)
	sb.WriteString(": ")
	for i, f := range n.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(sb, "<%s|%s:%s>", f.Name, printTag(f.Type), FormatValue(d, f))
	}
	sb.WriteByte('\n')
	for _, c := range n.Children {
		printNode(sb, d, c, level+1)
	}
}

// FormatValue renders the stored value of f. Fields whose size does not match
// their type, or that point outside the arena, render as "?".
func FormatValue(d *Document, f Field) string {
	switch v := DecodeValue(d, f).(type) {
	case nil:
		return "?"
	case bool:
		if v {
			return "True"
		}
		return "False"
	case string:
		return v
	case float32, float64:
		return fmt.Sprintf("%f", v)
	case geom.Color:
		return fmt.Sprintf("%d,%d,%d,%d", v.R, v.G, v.B, v.A)
	case geom.Vec2:
		return joinFloats(v.X, v.Y)
	case geom.Vec3:
		return joinFloats(v.X, v.Y, v.Z)
	case geom.Vec4:
		return joinFloats(v.X, v.Y, v.Z, v.W)
	case geom.Quat:
		return joinFloats(v.X, v.Y, v.Z, v.W)
	case geom.Rect:
		return joinFloats(v.X, v.Y, v.W, v.H)
	case []float32:
		return joinFloats(v...)
	default:
		return fmt.Sprint(v)
	}
}

func joinFloats(fs ...float32) string {
	parts := make([]string, len(fs))
	for i, v := range fs {
		parts[i] = fmt.Sprintf("%f", v)
	}
	return strings.Join(parts, ",")
}
