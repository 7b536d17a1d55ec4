package variant

import (
	"reflect"
	"unsafe"

	"github.com/wippyai/variant/internal/dispatch"
	"github.com/wippyai/variant/internal/layout"
)

var (
	destroyerType = reflect.TypeFor[Destroyer]()
	errorType     = reflect.TypeFor[error]()
)

// Alternative describes one declared alternative of a Set.
type Alternative struct {
	typ   reflect.Type
	name  string
	entry dispatch.Entry
	info  layout.Info
	index int
}

// Type returns the exact Go type of the alternative.
func (a Alternative) Type() reflect.Type { return a.typ }

// Name returns the declared name, or the Go type name when none was given.
func (a Alternative) Name() string {
	if a.name != "" {
		return a.name
	}
	return a.typ.String()
}

// Index returns the position of the alternative in its Set.
func (a Alternative) Index() int { return a.index }

func (a Alternative) Size() uintptr { return a.info.Size }

func (a Alternative) Align() uintptr { return a.info.Align }

// Inline reports whether the alternative lives in the shared byte region
// rather than the box slot.
func (a Alternative) Inline() bool { return a.info.Inline }

// Len returns the length of an array alternative, 0 otherwise.
func (a Alternative) Len() int { return a.info.Len }

// Elem returns the element type of an array alternative, nil otherwise.
func (a Alternative) Elem() reflect.Type { return a.info.Elem }

// Copyable reports whether Clone and CopyFrom can copy this alternative.
func (a Alternative) Copyable() bool { return a.entry.Copy != nil }

type altSpec struct {
	typ   reflect.Type
	name  string
	entry dispatch.Entry
}

func (s altSpec) apply(b *builder) error {
	b.alts = append(b.alts, Alternative{
		typ:   s.typ,
		name:  s.name,
		entry: s.entry,
	})
	return nil
}

// Alt declares an alternative of type T. T may be any Go type, including an
// array type or a type already declared in the same set.
func Alt[T any](opts ...AltOption[T]) Spec {
	var h Hooks[T]
	for _, opt := range opts {
		opt(&h)
	}
	typ := reflect.TypeFor[T]()
	if typ.Kind() == reflect.Array {
		elementHooks(&h, typ)
	}
	h.resolve()
	// detected Mover methods count as move hooks
	bitwise := h.bitwise()

	return altSpec{
		typ:   typ,
		name:  h.Name,
		entry: valueEntry(&h, bitwise, typ.String()),
	}
}

func valueEntry[T any](h *Hooks[T], bitwise bool, typeName string) dispatch.Entry {
	construct := h.Construct
	e := dispatch.Entry{
		Name:    typeName,
		Bitwise: bitwise,
		Construct: func(dst, src unsafe.Pointer) error {
			return construct((*T)(dst), *(*T)(src))
		},
	}
	if h.Name != "" {
		e.Name = h.Name
	}

	if move := h.Move; move != nil {
		e.Move = func(dst, src unsafe.Pointer) error {
			return move((*T)(dst), (*T)(src))
		}
	} else {
		e.Move = func(dst, src unsafe.Pointer) error {
			*(*T)(dst) = *(*T)(src)
			return nil
		}
	}
	if cp := h.Copy; cp != nil {
		e.Copy = func(dst, src unsafe.Pointer) error {
			return cp((*T)(dst), (*T)(src))
		}
	}
	if ca := h.CopyAssign; ca != nil {
		e.CopyAssign = func(dst, src unsafe.Pointer) error {
			return ca((*T)(dst), (*T)(src))
		}
	}
	if ma := h.MoveAssign; ma != nil {
		e.MoveAssign = func(dst, src unsafe.Pointer) error {
			return ma((*T)(dst), (*T)(src))
		}
	}
	if d := h.Destroy; d != nil {
		e.Destroy = func(p unsafe.Pointer) { d((*T)(p)) }
	}
	return e
}

// elementHooks fills unset hooks of array type T from the Destroyer, Copier
// and Mover methods of its element. Copies and moves run in forward order;
// when element k fails, elements k-1..0 of dst are destroyed. Destruction
// runs last element first. Methods declared on a named array type itself
// take precedence over its element's.
func elementHooks[T any](h *Hooks[T], typ reflect.Type) {
	own := reflect.PointerTo(typ)
	elem := typ.Elem()
	ptr := reflect.PointerTo(elem)
	n, size := typ.Len(), elem.Size()
	at := func(p *T, i int) reflect.Value {
		return reflect.NewAt(elem, unsafe.Add(unsafe.Pointer(p), uintptr(i)*size))
	}

	destroys := ptr.Implements(destroyerType) && !own.Implements(destroyerType)
	unwind := func(p *T, built int) {
		if !destroys {
			return
		}
		for j := built - 1; j >= 0; j-- {
			at(p, j).Interface().(Destroyer).Destroy()
		}
	}
	each := func(method string) func(dst, src *T) error {
		if _, declared := own.MethodByName(method); declared {
			return nil
		}
		m, ok := ptr.MethodByName(method)
		if !ok || !isElemHook(m.Type, ptr) {
			return nil
		}
		return func(dst, src *T) error {
			for i := 0; i < n; i++ {
				out := m.Func.Call([]reflect.Value{at(dst, i), at(src, i)})
				if err, _ := out[0].Interface().(error); err != nil {
					unwind(dst, i)
					return err
				}
			}
			return nil
		}
	}

	if h.Destroy == nil && destroys {
		h.Destroy = func(p *T) { unwind(p, n) }
	}
	if h.Copy == nil && !h.NoCopy {
		h.Copy = each("CopyFrom")
	}
	if h.Move == nil {
		h.Move = each("MoveFrom")
	}
}

// isElemHook reports whether method type ft is func(*E, *E) error with the
// receiver first.
func isElemHook(ft, ptr reflect.Type) bool {
	return ft.NumIn() == 2 && ft.In(0) == ptr && ft.In(1) == ptr &&
		ft.NumOut() == 1 && ft.Out(0) == errorType
}

// ArrayAlt declares an alternative of type [n]E whose lifecycle is driven per
// element by the hooks of E. Elements are constructed and copied in forward
// order and destroyed in reverse order. When element k fails to construct,
// elements k-1..0 are destroyed before the error is returned.
func ArrayAlt[E any](n int, opts ...AltOption[E]) Spec {
	var h Hooks[E]
	for _, opt := range opts {
		opt(&h)
	}
	h.resolve()
	bitwise := h.bitwise()

	typ := reflect.ArrayOf(n, reflect.TypeFor[E]())
	return altSpec{
		typ:   typ,
		name:  h.Name,
		entry: arrayEntry(&h, n, bitwise, typ.String()),
	}
}

func arrayEntry[E any](h *Hooks[E], n int, bitwise bool, typeName string) dispatch.Entry {
	size := reflect.TypeFor[E]().Size()
	at := func(p unsafe.Pointer, i int) *E {
		return (*E)(unsafe.Add(p, uintptr(i)*size))
	}
	destroy := h.Destroy
	unwind := func(p unsafe.Pointer, built int) {
		if destroy == nil {
			return
		}
		for j := built - 1; j >= 0; j-- {
			destroy(at(p, j))
		}
	}
	forward := func(op func(dst, src *E) error) dispatch.Op {
		return func(dst, src unsafe.Pointer) error {
			for i := 0; i < n; i++ {
				if err := op(at(dst, i), at(src, i)); err != nil {
					unwind(dst, i)
					return err
				}
			}
			return nil
		}
	}

	construct := h.Construct
	e := dispatch.Entry{
		Name:    typeName,
		Bitwise: bitwise,
		Construct: forward(func(dst, src *E) error {
			return construct(dst, *src)
		}),
	}

	if move := h.Move; move != nil {
		e.Move = forward(move)
	} else {
		e.Move = forward(func(dst, src *E) error {
			*dst = *src
			return nil
		})
	}
	if cp := h.Copy; cp != nil {
		e.Copy = forward(cp)
	}
	if ca := h.CopyAssign; ca != nil {
		e.CopyAssign = assignEach(ca, n, at)
	}
	if ma := h.MoveAssign; ma != nil {
		e.MoveAssign = assignEach(ma, n, at)
	}
	if destroy != nil {
		e.Destroy = func(p unsafe.Pointer) { unwind(p, n) }
	}
	return e
}

func assignEach[E any](op func(dst, src *E) error, n int, at func(unsafe.Pointer, int) *E) dispatch.Op {
	return func(dst, src unsafe.Pointer) error {
		for i := 0; i < n; i++ {
			if err := op(at(dst, i), at(src, i)); err != nil {
				return err
			}
		}
		return nil
	}
}
