package variant

import (
	"reflect"
	"unsafe"

	"github.com/wippyai/variant/errors"
)

// Make returns a variant of s holding val. The type of val must match
// exactly one alternative; a duplicated type needs MakeAt.
func Make[T any](s *Set, val T) (*Variant, error) {
	v := New(s)
	if err := Emplace(v, val); err != nil {
		return nil, err
	}
	return v, nil
}

// MakeAt returns a variant of s holding val as alternative index.
func MakeAt[T any](s *Set, index int, val T) (*Variant, error) {
	v := New(s)
	if err := EmplaceAt(v, index, val); err != nil {
		return nil, err
	}
	return v, nil
}

// MakeElems returns a variant of s holding the array alternative [len(elems)]E
// built element by element from elems.
func MakeElems[E any](s *Set, elems ...E) (*Variant, error) {
	v := New(s)
	if err := EmplaceElems(v, elems...); err != nil {
		return nil, err
	}
	return v, nil
}

// MakeElemsAt is MakeElems with an explicit alternative index.
func MakeElemsAt[E any](s *Set, index int, elems ...E) (*Variant, error) {
	v := New(s)
	if err := EmplaceElemsAt(v, index, elems...); err != nil {
		return nil, err
	}
	return v, nil
}

// Emplace assigns val to v. The index is resolved from T before anything is
// destroyed, so a resolution error leaves v unchanged. Otherwise the current
// value is destroyed, then val constructed; if construction fails v is empty.
func Emplace[T any](v *Variant, val T) error {
	v.ensure()
	i, err := v.set.IndexOf(reflect.TypeFor[T]())
	if err != nil {
		return err
	}
	return v.emplace(i, unsafe.Pointer(&val))
}

// EmplaceAt assigns val to v as alternative index.
func EmplaceAt[T any](v *Variant, index int, val T) error {
	v.ensure()
	if err := v.set.checkIndex(errors.PhaseResolve, index, reflect.TypeFor[T]()); err != nil {
		return err
	}
	return v.emplace(index, unsafe.Pointer(&val))
}

// EmplaceElems assigns the array alternative [len(elems)]E built from elems.
func EmplaceElems[E any](v *Variant, elems ...E) error {
	v.ensure()
	i, err := v.set.IndexOf(reflect.ArrayOf(len(elems), reflect.TypeFor[E]()))
	if err != nil {
		return err
	}
	return v.emplace(i, elemsPtr(elems))
}

// EmplaceElemsAt is EmplaceElems with an explicit alternative index.
func EmplaceElemsAt[E any](v *Variant, index int, elems ...E) error {
	v.ensure()
	t := reflect.ArrayOf(len(elems), reflect.TypeFor[E]())
	if err := v.set.checkIndex(errors.PhaseResolve, index, t); err != nil {
		return err
	}
	return v.emplace(index, elemsPtr(elems))
}

// elemsPtr returns the address of the backing array of elems, which has the
// memory layout of [len(elems)]E.
func elemsPtr[E any](elems []E) unsafe.Pointer {
	if len(elems) == 0 {
		return unsafe.Pointer(&[0]E{})
	}
	return unsafe.Pointer(unsafe.SliceData(elems))
}

// Has reports whether the active alternative has type T. With duplicated T
// any of its indices counts.
func Has[T any](v *Variant) bool {
	if v.region.Empty() {
		return false
	}
	return v.set.contains(reflect.TypeFor[T](), v.region.Index())
}

// HasAt reports whether alternative index is active.
func HasAt(v *Variant, index int) bool {
	return !v.region.Empty() && v.region.Index() == index
}

// Get returns a pointer to the live value of type T, pointing directly into
// the variant's storage. When T is not active the failure goes to the set's
// Handler; if the handler returns, Get returns the error.
func Get[T any](v *Variant) (*T, error) {
	if p, ok := TryGet[T](v); ok {
		return p, nil
	}
	return nil, v.Set().report(accessError(v, reflect.TypeFor[T]()))
}

// GetAt is Get for one specific index of a duplicated type.
func GetAt[T any](v *Variant, index int) (*T, error) {
	v.ensure()
	t := reflect.TypeFor[T]()
	if err := v.set.checkIndex(errors.PhaseAccess, index, t); err != nil {
		return nil, v.set.report(err)
	}
	if v.region.Index() != index {
		return nil, v.set.report(errors.Inactive(t.String(), v.region.Index()))
	}
	return (*T)(v.region.Ptr()), nil
}

// TryGet is Get without reporting: it returns false when T is not active.
func TryGet[T any](v *Variant) (*T, bool) {
	if !Has[T](v) {
		return nil, false
	}
	return (*T)(v.region.Ptr()), true
}

// IndicesFor returns every index of s declared with type T.
func IndicesFor[T any](s *Set) []int {
	return s.IndicesOf(reflect.TypeFor[T]())
}

func accessError(v *Variant, t reflect.Type) error {
	if len(v.Set().byType[t]) == 0 {
		return errors.NoAlternative(errors.PhaseAccess, t.String())
	}
	return errors.Inactive(t.String(), v.region.Index())
}
