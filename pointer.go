package visitree

import (
	"fmt"
	"strconv"
)

// On-disk names shared by the composite visitors.
const (
	identityField = "IntPtr"
	lengthField   = "Length"
	dataField     = "Data"
	bytesField    = "Bytes"
	itemPrefix    = "Item"
)

func itemName(i int) string {
	return itemPrefix + strconv.Itoa(i)
}

// identityMap keeps shared objects shared. Writers hand out a key per
// distinct pointer, starting at 1 since 0 stands for nil. Readers map each
// key back to the object created the first time it was seen.
type identityMap struct {
	keys    map[any]uint64
	objects map[uint64]any
	next    uint64
}

func newIdentityMap(mode Mode) identityMap {
	if mode == ModeRead {
		return identityMap{objects: make(map[uint64]any)}
	}
	return identityMap{keys: make(map[any]uint64)}
}

// key returns the key of p and whether p had one already.
func (m *identityMap) key(p any) (uint64, bool) {
	if k, ok := m.keys[p]; ok {
		return k, true
	}
	m.next++
	m.keys[p] = m.next
	return m.next, false
}

// Ptr is satisfied by *T when *T implements Visitable. It lets Pointer
// allocate a fresh T during loading without reflection.
type Ptr[T any] interface {
	*T
	Visitable
}

// Pointer stores the object *slot points to, once per session. Every later
// pointer to the same object only records its key, so shared objects and
// cycles load back with the same shape. A nil pointer round-trips as nil.
//
// The key is registered before the object is visited, which is what makes a
// cycle terminate.
func Pointer[T any, PT Ptr[T]](v *Visitor, name string, slot *PT) error {
	if err := v.Enter(name); err != nil {
		if v.mode == ModeRead {
			*slot = nil
		}
		return err
	}
	defer v.Leave()

	if v.mode == ModeWrite {
		if *slot == nil {
			var zero uint64
			return v.Uint64(identityField, &zero)
		}
		key, seen := v.ids.key(*slot)
		if err := v.Uint64(identityField, &key); err != nil {
			return err
		}
		if seen {
			return nil
		}
		return (*slot).Visit(v)
	}

	var key uint64
	if err := v.Uint64(identityField, &key); err != nil {
		*slot = nil
		return err
	}
	if key == 0 {
		*slot = nil
		return nil
	}
	if obj, ok := v.ids.objects[key]; ok {
		p, ok := obj.(PT)
		if !ok {
			*slot = nil
			v.log.Warnw("shared pointer type mismatch", "node", v.cursor, "stored", fmt.Sprintf("%T", obj), "want", fmt.Sprintf("%T", p))
			return fmt.Errorf("%w: %s refers to %T, want %T", ErrTypeMismatch, v.cursor.Path(), obj, p)
		}
		*slot = p
		return nil
	}
	p := PT(new(T))
	v.ids.objects[key] = p
	*slot = p
	return p.Visit(v)
}
