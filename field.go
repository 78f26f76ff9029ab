package visitree

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"

	"github.com/rawbytedev/visitree/internal/common"
	"github.com/rawbytedev/visitree/pkg/geom"
	"github.com/rawbytedev/visitree/pkg/tree"
)

// writeField appends whatever enc produces to the arena and records it in the
// current node under name.
func (v *Visitor) writeField(name string, t tree.DataType, enc func([]byte) []byte) error {
	if !v.opts.AllowDuplicateNames {
		if _, ok := v.cursor.Field(name); ok {
			v.log.Warnw("duplicate field", "field", name, "node", v.cursor)
			return fmt.Errorf("%w: %q in %s", ErrDuplicateField, name, v.cursor.Path())
		}
	}
	off := len(v.doc.Data)
	if uint64(off) > math.MaxUint32 {
		return fmt.Errorf("%w: data arena exceeds 4GiB", ErrCorrupt)
	}
	v.doc.Data = enc(v.doc.Data)
	v.cursor.AddField(tree.Field{
		Name:   name,
		Type:   t,
		Offset: uint32(off),
		Size:   uint32(len(v.doc.Data) - off),
	})
	return nil
}

// readField returns the stored bytes of name after checking its type and,
// when size is not negative, its length.
func (v *Visitor) readField(name string, t tree.DataType, size int) ([]byte, error) {
	f, ok := v.cursor.Field(name)
	if !ok {
		v.log.Debugw("field not found", "field", name, "node", v.cursor)
		return nil, &lookupError{kind: "field", name: name, in: v.cursor}
	}
	if f.Type != t {
		v.log.Debugw("type mismatch", "field", name, "node", v.cursor, "stored", f.Type, "want", t)
		return nil, fmt.Errorf("%w: field %q is %s, want %s", ErrTypeMismatch, name, f.Type, t)
	}
	if size >= 0 && int(f.Size) != size {
		v.log.Debugw("size mismatch", "field", name, "node", v.cursor, "stored", f.Size, "want", size)
		return nil, fmt.Errorf("%w: field %q holds %d bytes, want %d", ErrSizeMismatch, name, f.Size, size)
	}
	return v.doc.Bytes(f)
}

// visitFixed is the shared body of every fixed-width accessor.
func visitFixed[T any](v *Visitor, name string, t tree.DataType, p *T, put func(T, []byte) []byte, get func([]byte) T) error {
	if v.mode == ModeWrite {
		return v.writeField(name, t, func(b []byte) []byte { return put(*p, b) })
	}
	b, err := v.readField(name, t, t.FixedSize())
	if err != nil {
		var zero T
		*p = zero
		return err
	}
	*p = get(b)
	return nil
}

func (v *Visitor) Bool(name string, p *bool) error {
	return visitFixed(v, name, tree.TypeBool, p,
		func(x bool, b []byte) []byte { return common.AppendBool(b, x) },
		common.Bool)
}

func (v *Visitor) Int8(name string, p *int8) error {
	return visitFixed(v, name, tree.TypeInt8, p,
		func(x int8, b []byte) []byte { return append(b, byte(x)) },
		func(b []byte) int8 { return int8(b[0]) })
}

func (v *Visitor) Uint8(name string, p *uint8) error {
	return visitFixed(v, name, tree.TypeUint8, p,
		func(x uint8, b []byte) []byte { return append(b, x) },
		func(b []byte) uint8 { return b[0] })
}

func (v *Visitor) Int16(name string, p *int16) error {
	return visitFixed(v, name, tree.TypeInt16, p,
		func(x int16, b []byte) []byte { return binary.LittleEndian.AppendUint16(b, uint16(x)) },
		func(b []byte) int16 { return int16(binary.LittleEndian.Uint16(b)) })
}

func (v *Visitor) Uint16(name string, p *uint16) error {
	return visitFixed(v, name, tree.TypeUint16, p,
		func(x uint16, b []byte) []byte { return binary.LittleEndian.AppendUint16(b, x) },
		binary.LittleEndian.Uint16)
}

func (v *Visitor) Int32(name string, p *int32) error {
	return visitFixed(v, name, tree.TypeInt32, p,
		func(x int32, b []byte) []byte { return binary.LittleEndian.AppendUint32(b, uint32(x)) },
		func(b []byte) int32 { return int32(binary.LittleEndian.Uint32(b)) })
}

func (v *Visitor) Uint32(name string, p *uint32) error {
	return visitFixed(v, name, tree.TypeUint32, p,
		func(x uint32, b []byte) []byte { return binary.LittleEndian.AppendUint32(b, x) },
		binary.LittleEndian.Uint32)
}

func (v *Visitor) Int64(name string, p *int64) error {
	return visitFixed(v, name, tree.TypeInt64, p,
		func(x int64, b []byte) []byte { return binary.LittleEndian.AppendUint64(b, uint64(x)) },
		func(b []byte) int64 { return int64(binary.LittleEndian.Uint64(b)) })
}

func (v *Visitor) Uint64(name string, p *uint64) error {
	return visitFixed(v, name, tree.TypeUint64, p,
		func(x uint64, b []byte) []byte { return binary.LittleEndian.AppendUint64(b, x) },
		binary.LittleEndian.Uint64)
}

func (v *Visitor) Float32(name string, p *float32) error {
	return visitFixed(v, name, tree.TypeFloat32, p,
		func(x float32, b []byte) []byte { return common.AppendFloat32(b, x) },
		common.Float32)
}

func (v *Visitor) Float64(name string, p *float64) error {
	return visitFixed(v, name, tree.TypeFloat64, p,
		func(x float64, b []byte) []byte { return common.AppendFloat64(b, x) },
		common.Float64)
}

func (v *Visitor) Vec2(name string, p *geom.Vec2) error {
	return visitFixed(v, name, tree.TypeVector2, p, geom.Vec2.AppendLE, geom.DecodeVec2)
}

func (v *Visitor) Vec3(name string, p *geom.Vec3) error {
	return visitFixed(v, name, tree.TypeVector3, p, geom.Vec3.AppendLE, geom.DecodeVec3)
}

func (v *Visitor) Vec4(name string, p *geom.Vec4) error {
	return visitFixed(v, name, tree.TypeVector4, p, geom.Vec4.AppendLE, geom.DecodeVec4)
}

func (v *Visitor) Quat(name string, p *geom.Quat) error {
	return visitFixed(v, name, tree.TypeQuaternion, p, geom.Quat.AppendLE, geom.DecodeQuat)
}

func (v *Visitor) Mat3(name string, p *geom.Mat3) error {
	return visitFixed(v, name, tree.TypeMatrix3, p, geom.Mat3.AppendLE, geom.DecodeMat3)
}

func (v *Visitor) Mat4(name string, p *geom.Mat4) error {
	return visitFixed(v, name, tree.TypeMatrix4, p, geom.Mat4.AppendLE, geom.DecodeMat4)
}

func (v *Visitor) Rect(name string, p *geom.Rect) error {
	return visitFixed(v, name, tree.TypeRect, p, geom.Rect.AppendLE, geom.DecodeRect)
}

func (v *Visitor) Color(name string, p *geom.Color) error {
	return visitFixed(v, name, tree.TypeColor, p, geom.Color.AppendLE, geom.DecodeColor)
}

// Bytes stores an opaque blob. A loaded blob is a copy and does not alias the
// document arena; an empty blob loads as nil.
func (v *Visitor) Bytes(name string, p *[]byte) error {
	if v.mode == ModeWrite {
		return v.writeField(name, tree.TypeData, func(b []byte) []byte { return append(b, *p...) })
	}
	b, err := v.readField(name, tree.TypeData, -1)
	if err != nil {
		*p = nil
		return err
	}
	if len(b) == 0 {
		*p = nil
		return nil
	}
	*p = bytes.Clone(b)
	return nil
}

// String stores s in a child node as a Length field followed by its bytes.
func (v *Visitor) String(name string, s *string) error {
	if err := v.Enter(name); err != nil {
		if v.mode == ModeRead {
			*s = ""
		}
		return err
	}
	defer v.Leave()

	if v.mode == ModeWrite {
		length := uint32(len(*s))
		if err := v.Uint32(lengthField, &length); err != nil {
			return err
		}
		return v.writeField(dataField, tree.TypeData, func(b []byte) []byte { return append(b, *s...) })
	}
	var length uint32
	if err := v.Uint32(lengthField, &length); err != nil {
		*s = ""
		return err
	}
	b, err := v.readField(dataField, tree.TypeData, int(length))
	if err != nil {
		*s = ""
		return err
	}
	*s = string(b)
	return nil
}

// Path stores a filesystem path the same way as String.
func (v *Visitor) Path(name string, p *string) error {
	return v.String(name, p)
}

// Enum stores any integer-backed enumeration as a Uint64 field. Signed
// values round-trip through sign extension.
func Enum[E constraints.Integer](v *Visitor, name string, e *E) error {
	x := uint64(*e)
	err := v.Uint64(name, &x)
	if v.mode == ModeRead {
		*e = E(x)
	}
	return err
}
