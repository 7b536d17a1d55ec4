package storage

import (
	"reflect"
	"unsafe"

	"github.com/wippyai/variant/internal/abi"
	"github.com/wippyai/variant/internal/layout"
)

// Empty is the discriminator value of a region with no live object.
const Empty = -1

const wordSize = unsafe.Sizeof(uint64(0))

// zeroBase backs zero-size inline regions.
var zeroBase uint64

// Region holds one variant's value and discriminator. Pointer-free
// alternatives live in the inline words; others live in a single box.
type Region struct {
	layout *layout.Region
	base   unsafe.Pointer
	box    unsafe.Pointer
	words  []uint64
	tag    int // discriminator + 1, so the zero Region is empty
}

// Init acquires the inline region described by l. A Region must be
// initialized exactly once before use.
func (r *Region) Init(l *layout.Region) {
	r.layout = l
	r.tag = 0
	r.box = nil

	if l.InlineSize == 0 {
		r.base = unsafe.Pointer(&zeroBase)
		return
	}

	extra := uintptr(0)
	if l.InlineAlign > wordSize {
		extra = l.InlineAlign - wordSize
	}
	n := (l.InlineSize + extra + wordSize - 1) / wordSize
	r.words = make([]uint64, n)

	p := unsafe.Pointer(unsafe.SliceData(r.words))
	off := abi.AlignPtr(uintptr(p), l.InlineAlign) - uintptr(p)
	r.base = unsafe.Add(p, off)
}

func (r *Region) Layout() *layout.Region {
	return r.layout
}

// Index returns the discriminator.
func (r *Region) Index() int {
	return r.tag - 1
}

func (r *Region) Empty() bool {
	return r.tag == 0
}

// Ptr returns the address of the live object, or nil when empty.
func (r *Region) Ptr() unsafe.Pointer {
	if r.tag == 0 {
		return nil
	}
	return r.slotPtr(r.tag - 1)
}

func (r *Region) slotPtr(i int) unsafe.Pointer {
	if r.layout.Slots[i].Inline {
		return r.base
	}
	return r.box
}

// Reserve returns zeroed memory for alternative i. The region must be empty;
// the discriminator is left untouched until Commit.
func (r *Region) Reserve(i int) unsafe.Pointer {
	slot := r.layout.Slots[i]
	if slot.Inline {
		clear(r.words)
		return r.base
	}
	r.box = reflect.New(slot.Type).UnsafePointer()
	return r.box
}

// Commit marks alternative i live. Call only after construction completed.
func (r *Region) Commit(i int) {
	r.tag = i + 1
}

// Detach clears the discriminator and returns the index and address of the
// object that was live, so it can be destroyed. Memory stays reserved until
// Release.
func (r *Region) Detach() (int, unsafe.Pointer) {
	if r.tag == 0 {
		return Empty, nil
	}
	i := r.tag - 1
	p := r.slotPtr(i)
	r.tag = 0
	return i, p
}

// Release drops the memory of a detached or abandoned object.
func (r *Region) Release() {
	clear(r.words)
	r.box = nil
}

// Adopt takes over the boxed object of src without copying. Both regions
// must share a layout, r must be empty and src must hold a boxed object.
// src is left empty.
func (r *Region) Adopt(src *Region) {
	r.box = src.box
	r.tag = src.tag
	src.box = nil
	src.tag = 0
}

// Boxed reports whether alternative i lives in the box slot.
func (r *Region) Boxed(i int) bool {
	return !r.layout.Slots[i].Inline
}
