package visitree

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/rawbytedev/visitree/pkg/tree"
)

// Primitive lists the element types PrimitiveArray packs into one blob.
type Primitive interface {
	bool | int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 | float32 | float64
}

func primitiveSize[T Primitive]() int {
	var zero T
	switch any(zero).(type) {
	case bool, int8, uint8:
		return 1
	case int16, uint16:
		return 2
	case int32, uint32, float32:
		return 4
	default:
		return 8
	}
}

// enterList enters name and visits its Length field. On a read the cursor is
// left inside the node only when err is nil.
func (v *Visitor) enterList(name string, length *uint32) error {
	if err := v.Enter(name); err != nil {
		return err
	}
	if err := v.Uint32(lengthField, length); err != nil {
		v.Leave()
		return err
	}
	return nil
}

// checkItems rejects a stored length that the node cannot back with items,
// before anything of that size is allocated.
func (v *Visitor) checkItems(length uint32) error {
	if uint64(length) > uint64(len(v.cursor.Children)) {
		v.log.Warnw("length exceeds items", "node", v.cursor, "length", length, "items", len(v.cursor.Children))
		return fmt.Errorf("%w: %s claims %d items, has %d", ErrCountMismatch, v.cursor.Path(), length, len(v.cursor.Children))
	}
	return nil
}

// PrimitiveArray stores s as a Length field plus one packed little-endian
// Bytes blob.
func PrimitiveArray[T Primitive](v *Visitor, name string, s *[]T) error {
	length := uint32(len(*s))
	if err := v.enterList(name, &length); err != nil {
		if v.mode == ModeRead {
			*s = nil
		}
		return err
	}
	defer v.Leave()

	if v.mode == ModeWrite {
		return v.writeField(bytesField, tree.TypeData, func(b []byte) []byte {
			if len(*s) == 0 {
				return b
			}
			// basic element types never fail to encode
			out, _ := binary.Append(b, binary.LittleEndian, *s)
			return out
		})
	}
	b, err := v.readField(bytesField, tree.TypeData, int(length)*primitiveSize[T]())
	if err != nil {
		*s = nil
		return err
	}
	if length == 0 {
		*s = nil
		return nil
	}
	out := make([]T, length)
	if _, err := binary.Decode(b, binary.LittleEndian, out); err != nil {
		*s = nil
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, v.cursor.Path(), err)
	}
	*s = out
	return nil
}

// Array stores every element of s in its own Item<i> child. Elements are
// visited through a pointer into the slice, so T must be addressable as PT.
func Array[T any, PT Ptr[T]](v *Visitor, name string, s *[]T) error {
	length := uint32(len(*s))
	if err := v.enterList(name, &length); err != nil {
		if v.mode == ModeRead {
			*s = nil
		}
		return err
	}
	defer v.Leave()

	if v.mode == ModeRead {
		if err := v.checkItems(length); err != nil {
			*s = nil
			return err
		}
		*s = nil
		if length > 0 {
			*s = make([]T, length)
		}
	}
	var first error
	for i := range *s {
		if err := v.Object(itemName(i), PT(&(*s)[i])); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// PointerArray stores a slice of pointers, each through Pointer, so elements
// shared with the rest of the graph stay shared.
func PointerArray[T any, PT Ptr[T]](v *Visitor, name string, s *[]PT) error {
	length := uint32(len(*s))
	if err := v.enterList(name, &length); err != nil {
		if v.mode == ModeRead {
			*s = nil
		}
		return err
	}
	defer v.Leave()

	if v.mode == ModeRead {
		if err := v.checkItems(length); err != nil {
			*s = nil
			return err
		}
		*s = nil
		if length > 0 {
			*s = make([]PT, length)
		}
	}
	var first error
	for i := range *s {
		if err := Pointer(v, itemName(i), &(*s)[i]); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// The Ex variants also report the capacity of the loaded slice, which always
// equals its length.

func PrimitiveArrayEx[T Primitive](v *Visitor, name string, s *[]T) (int, error) {
	err := PrimitiveArray(v, name, s)
	*s = slices.Clip(*s)
	return cap(*s), err
}

func ArrayEx[T any, PT Ptr[T]](v *Visitor, name string, s *[]T) (int, error) {
	err := Array[T, PT](v, name, s)
	*s = slices.Clip(*s)
	return cap(*s), err
}

func PointerArrayEx[T any, PT Ptr[T]](v *Visitor, name string, s *[]PT) (int, error) {
	err := PointerArray(v, name, s)
	*s = slices.Clip(*s)
	return cap(*s), err
}

// Links tells LinkedList how to walk and relink an intrusive list. Prev is
// optional and only used to check back links while saving.
type Links[P any] struct {
	Next    func(P) P
	SetNext func(P, P)
	Prev    func(P) P
	SetPrev func(P, P)
}

func (l Links[P]) complete() bool {
	return l.Next != nil && l.SetNext != nil && l.SetPrev != nil
}

// LinkedList stores the list starting at *head as Item<i> pointers in walk
// order. Loading rebuilds the next and prev links and sets *head and *tail;
// an empty list loads as two nil pointers. Element Visit methods must not
// visit the links themselves.
func LinkedList[T any, PT Ptr[T]](v *Visitor, name string, head, tail *PT, links Links[PT]) error {
	if !links.complete() {
		return ErrMissingLinks
	}
	var length uint32
	if v.mode == ModeWrite {
		for n := *head; n != nil; n = links.Next(n) {
			length++
		}
	}
	if err := v.enterList(name, &length); err != nil {
		if v.mode == ModeRead {
			*head, *tail = nil, nil
		}
		return err
	}
	defer v.Leave()

	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}

	if v.mode == ModeWrite {
		var prev PT
		i := 0
		for n := *head; n != nil; n = links.Next(n) {
			if links.Prev != nil && links.Prev(n) != prev {
				v.log.Warnw("broken back link", "node", v.cursor, "item", i)
			}
			item := n
			keep(Pointer(v, itemName(i), &item))
			prev = n
			i++
		}
		return first
	}

	*head, *tail = nil, nil
	if err := v.checkItems(length); err != nil {
		return err
	}
	var prev PT
	for i := range int(length) {
		var item PT
		keep(Pointer(v, itemName(i), &item))
		if item == nil {
			continue
		}
		if prev == nil {
			*head = item
		} else {
			links.SetNext(prev, item)
		}
		links.SetPrev(item, prev)
		prev = item
	}
	if prev != nil {
		links.SetNext(prev, nil)
	}
	*tail = prev
	return first
}
