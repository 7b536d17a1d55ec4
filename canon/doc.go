// Package canon lowers variants to and lifts them from WebAssembly linear
// memory using the Component Model canonical ABI.
//
// A Codec is compiled from a WIT variant, enum, option or result type
// definition. It carries the variant.Set derived from the cases, one
// alternative per case in case order, and the canonical layout: a
// little-endian discriminant followed by the payload at an offset aligned
// to the strictest case.
//
//	td := &wit.TypeDef{Kind: &wit.Variant{Cases: []wit.Case{
//		{Name: "none"},
//		{Name: "some", Type: wit.U32{}},
//	}}}
//	c, err := canon.Compile(td)
//	v, _ := variant.MakeAt(c.Set(), 1, uint32(42))
//	err = c.Store(mem, alloc, addr, v)
//	back, err := c.Load(mem, addr)
//
// Payload-less cases map to struct{}, so enums and option::none produce
// duplicated alternatives addressed by index.
package canon
