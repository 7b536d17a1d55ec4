// Package variant provides a discriminated union container for Go.
//
// A Set declares an ordered list of alternative types. A Variant of that set
// holds at most one live value of one alternative at a time, selected by a
// discriminator. Alternatives may repeat a type, in which case an explicit
// index selects the slot, and may be array types whose elements are built in
// forward order and torn down in reverse.
//
// # Storage
//
// Pointer-free alternatives share one byte region sized for the largest and
// aligned for the strictest of them; the region is allocated once per Variant
// and reused across assignments. Alternatives containing Go pointers are kept
// in a single box slot so the collector always sees a precise pointer map.
//
// # Lifecycle
//
// Every alternative has a construct, destroy, copy and move operation, plus
// optional in-place copy and move assignment. They default to Go assignment
// and can be supplied per alternative (OnDestroy, OnCopy, ...) or detected on
// the type (Destroyer, Copier, Mover). A lifecycle table built once per Set
// dispatches them by discriminator.
//
//	shapes := variant.MustSet(
//		variant.Alt[int32](),
//		variant.Alt[float32](),
//	)
//
//	v, _ := variant.Make(shapes, int32(1234))
//	variant.Has[int32](v)      // true
//	p, _ := variant.Get[int32](v) // *p == 1234
//
//	_ = variant.Emplace(v, float32(5)) // destroys the int32, builds the float32
//	defer v.Reset()
//
// Duplicates are addressed by index:
//
//	chars := variant.MustSet(variant.Alt[byte](), variant.Alt[byte]())
//	v, _ := variant.MakeAt(chars, 1, byte('x'))
//
// # Errors
//
// Resolving a type that is not declared, or that is declared more than once,
// returns an error from the constructing call and leaves the variant as it
// was. Accessing an alternative that is not active is reported to the set's
// Handler; the default handler panics. See the errors package for the error
// taxonomy.
//
// A Variant is not safe for concurrent use.
package variant
