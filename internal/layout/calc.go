package layout

import (
	"reflect"

	"github.com/wippyai/variant/internal/abi"
)

// Info describes one alternative.
type Info struct {
	Type   reflect.Type
	Elem   reflect.Type // element type for array alternatives
	Size   uintptr
	Align  uintptr
	Len    int // array length, 0 otherwise
	Inline bool
}

// Region describes the storage of a whole alternative list.
type Region struct {
	Slots       []Info
	MaxSize     uintptr
	MaxAlign    uintptr
	InlineSize  uintptr
	InlineAlign uintptr
	Boxed       bool
}

type Calculator struct {
	cache map[reflect.Type]bool
}

func NewCalculator() *Calculator {
	return &Calculator{
		cache: make(map[reflect.Type]bool),
	}
}

func (c *Calculator) Calculate(t reflect.Type) Info {
	info := Info{
		Type:   t,
		Size:   t.Size(),
		Align:  uintptr(t.Align()),
		Inline: c.PointerFree(t),
	}
	if t.Kind() == reflect.Array {
		info.Elem = t.Elem()
		info.Len = t.Len()
	}
	return info
}

// Region lays out types in declaration order. An empty list yields a
// zero-size region aligned to 1.
func (c *Calculator) Region(types []reflect.Type) Region {
	r := Region{
		Slots:       make([]Info, len(types)),
		MaxAlign:    1,
		InlineAlign: 1,
	}

	for i, t := range types {
		info := c.Calculate(t)
		r.Slots[i] = info

		if info.Size > r.MaxSize {
			r.MaxSize = info.Size
		}
		if info.Align > r.MaxAlign {
			r.MaxAlign = info.Align
		}

		if !info.Inline {
			r.Boxed = true
			continue
		}
		if info.Size > r.InlineSize {
			r.InlineSize = info.Size
		}
		if info.Align > r.InlineAlign {
			r.InlineAlign = info.Align
		}
	}

	r.MaxSize = abi.AlignPtr(r.MaxSize, r.MaxAlign)
	r.InlineSize = abi.AlignPtr(r.InlineSize, r.InlineAlign)
	return r
}

// PointerFree reports whether t holds no Go pointers at any depth.
func (c *Calculator) PointerFree(t reflect.Type) bool {
	if cached, ok := c.cache[t]; ok {
		return cached
	}

	var free bool
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		free = true
	case reflect.Array:
		free = t.Len() == 0 || c.PointerFree(t.Elem())
	case reflect.Struct:
		free = true
		for i := 0; i < t.NumField(); i++ {
			if !c.PointerFree(t.Field(i).Type) {
				free = false
				break
			}
		}
	default:
		// pointer, unsafe.Pointer, string, slice, map, chan, func, interface
		free = false
	}

	c.cache[t] = free
	return free
}
