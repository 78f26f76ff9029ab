// Package demo holds small engine-style types that persist themselves through
// visitree. They back the tests and the CLI demo command.
package demo

import (
	"errors"

	"github.com/rawbytedev/visitree"
	"github.com/rawbytedev/visitree/pkg/geom"
)

// Texture is reference counted: every owner calls AddRef and Release.
type Texture struct {
	Name   string
	Width  uint32
	Height uint32
	Tint   geom.Color
	Pixels []byte

	refs int32
}

// NewTexture returns a texture holding one reference.
func NewTexture(name string, w, h uint32) *Texture {
	return &Texture{
		Name:   name,
		Width:  w,
		Height: h,
		Tint:   geom.Color{R: 255, G: 255, B: 255, A: 255},
		Pixels: make([]byte, int(w)*int(h)*4),
		refs:   1,
	}
}

func (t *Texture) AddRef() {
	if t == nil {
		return
	}
	t.refs++
}

// Release drops one reference and frees the pixels with the last one. It
// reports whether the texture is gone.
func (t *Texture) Release() bool {
	if t == nil {
		return false
	}
	t.refs--
	if t.refs > 0 {
		return false
	}
	t.Pixels = nil
	return true
}

func (t *Texture) RefCount() int32 {
	return t.refs
}

func (t *Texture) Visit(v *visitree.Visitor) error {
	return errors.Join(
		v.String("Name", &t.Name),
		v.Uint32("Width", &t.Width),
		v.Uint32("Height", &t.Height),
		v.Color("Tint", &t.Tint),
		v.Bytes("Pixels", &t.Pixels),
		v.Int32("RefCount", &t.refs),
	)
}
