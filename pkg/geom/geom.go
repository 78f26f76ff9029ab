// Package geom holds the fixed-size math and colour values a visitor can
// store as single fields. Every type knows its encoded width and how to
// append itself little-endian; decoding never reads past that width.
package geom

import "github.com/rawbytedev/visitree/internal/common"

// Encoded widths in bytes.
const (
	Vec2Size  = 2 * 4
	Vec3Size  = 3 * 4
	Vec4Size  = 4 * 4
	QuatSize  = 4 * 4
	Mat3Size  = 9 * 4
	Mat4Size  = 16 * 4
	RectSize  = 4 * 4
	ColorSize = 4
)

type Vec2 struct {
	X, Y float32
}

type Vec3 struct {
	X, Y, Z float32
}

type Vec4 struct {
	X, Y, Z, W float32
}

// Quat is a rotation quaternion, W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// Mat3 is a 3x3 matrix stored as nine consecutive floats.
type Mat3 [9]float32

// Mat4 is a 4x4 matrix stored as sixteen consecutive floats.
type Mat4 [16]float32

// Rect is an axis aligned rectangle with its origin at X, Y.
type Rect struct {
	X, Y, W, H float32
}

// Color is 8-bit RGBA.
type Color struct {
	R, G, B, A uint8
}

func IdentityQuat() Quat { return Quat{W: 1} }

func IdentityMat3() Mat3 {
	return Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

func IdentityMat4() Mat4 {
	return Mat4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

func (v Vec2) AppendLE(dst []byte) []byte { return common.AppendFloat32s(dst, v.X, v.Y) }
func (v Vec3) AppendLE(dst []byte) []byte { return common.AppendFloat32s(dst, v.X, v.Y, v.Z) }
func (v Vec4) AppendLE(dst []byte) []byte { return common.AppendFloat32s(dst, v.X, v.Y, v.Z, v.W) }
func (q Quat) AppendLE(dst []byte) []byte { return common.AppendFloat32s(dst, q.X, q.Y, q.Z, q.W) }
func (m Mat3) AppendLE(dst []byte) []byte { return common.AppendFloat32s(dst, m[:]...) }
func (m Mat4) AppendLE(dst []byte) []byte { return common.AppendFloat32s(dst, m[:]...) }
func (r Rect) AppendLE(dst []byte) []byte { return common.AppendFloat32s(dst, r.X, r.Y, r.W, r.H) }
func (c Color) AppendLE(dst []byte) []byte { return append(dst, c.R, c.G, c.B, c.A) }

func DecodeVec2(b []byte) Vec2 {
	return Vec2{common.Float32(b[0:]), common.Float32(b[4:])}
}

func DecodeVec3(b []byte) Vec3 {
	return Vec3{common.Float32(b[0:]), common.Float32(b[4:]), common.Float32(b[8:])}
}

func DecodeVec4(b []byte) Vec4 {
	return Vec4{common.Float32(b[0:]), common.Float32(b[4:]), common.Float32(b[8:]), common.Float32(b[12:])}
}

func DecodeQuat(b []byte) Quat {
	return Quat(DecodeVec4(b))
}

func DecodeMat3(b []byte) Mat3 {
	var m Mat3
	common.Float32s(b, m[:])
	return m
}

func DecodeMat4(b []byte) Mat4 {
	var m Mat4
	common.Float32s(b, m[:])
	return m
}

func DecodeRect(b []byte) Rect {
	return Rect{common.Float32(b[0:]), common.Float32(b[4:]), common.Float32(b[8:]), common.Float32(b[12:])}
}

func DecodeColor(b []byte) Color {
	return Color{b[0], b[1], b[2], b[3]}
}
