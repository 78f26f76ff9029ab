package common

import (
	"encoding/binary"
	"math"
)

// AppendBool appends a single byte, 1 for true and 0 for false.
func AppendBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, 1)
	}
	return append(dst, 0)
}

// Bool decodes a byte written by AppendBool.
func Bool(b []byte) bool {
	return b[0] != 0
}

// AppendFloat32 appends the little-endian IEEE 754 bits of f.
func AppendFloat32(dst []byte, f float32) []byte {
	return binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
}

// Float32 decodes a float32 written by AppendFloat32.
func Float32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// AppendFloat64 appends the little-endian IEEE 754 bits of f.
func AppendFloat64(dst []byte, f float64) []byte {
	return binary.LittleEndian.AppendUint64(dst, math.Float64bits(f))
}

// Float64 decodes a float64 written by AppendFloat64.
func Float64(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

// AppendFloat32s appends every element of fs in order.
func AppendFloat32s(dst []byte, fs ...float32) []byte {
	for _, f := range fs {
		dst = AppendFloat32(dst, f)
	}
	return dst
}

// Float32s fills out from consecutive float32 values in b.
// b must hold at least 4*len(out) bytes.
func Float32s(b []byte, out []float32) {
	for i := range out {
		out[i] = Float32(b[i*4:])
	}
}
