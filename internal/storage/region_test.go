package storage

import (
	"reflect"
	"testing"
	"unsafe"

	"github.com/wippyai/variant/internal/layout"
)

func newRegion(types ...reflect.Type) *Region {
	l := layout.NewCalculator().Region(types)
	r := &Region{}
	r.Init(&l)
	return r
}

func TestRegion_InitEmpty(t *testing.T) {
	r := newRegion(reflect.TypeFor[int32](), reflect.TypeFor[float32]())

	if !r.Empty() {
		t.Error("new region should be empty")
	}
	if r.Index() != Empty {
		t.Errorf("index: got %d, want %d", r.Index(), Empty)
	}
	if r.Ptr() != nil {
		t.Error("Ptr() should be nil when empty")
	}
}

func TestRegion_ZeroAlternatives(t *testing.T) {
	r := newRegion()
	if !r.Empty() {
		t.Error("zero-alternative region should be empty")
	}
	i, p := r.Detach()
	if i != Empty || p != nil {
		t.Errorf("Detach on empty: got %d/%v", i, p)
	}
	r.Release()
}

func TestRegion_InlineLifecycle(t *testing.T) {
	r := newRegion(reflect.TypeFor[int32](), reflect.TypeFor[float32]())

	p := r.Reserve(0)
	*(*int32)(p) = 1234
	if !r.Empty() {
		t.Error("Reserve must not set the discriminator")
	}
	r.Commit(0)

	if r.Index() != 0 {
		t.Errorf("index: got %d, want 0", r.Index())
	}
	if got := *(*int32)(r.Ptr()); got != 1234 {
		t.Errorf("value: got %d, want 1234", got)
	}

	i, dp := r.Detach()
	if i != 0 || dp != p {
		t.Errorf("Detach: got %d/%v, want 0/%v", i, dp, p)
	}
	if !r.Empty() {
		t.Error("Detach should clear the discriminator")
	}
	r.Release()

	// same memory is reused for the next alternative
	p2 := r.Reserve(1)
	if p2 != p {
		t.Error("inline region should be reused across alternatives")
	}
	if got := *(*float32)(p2); got != 0 {
		t.Errorf("reserved memory should be zeroed, got %v", got)
	}
}

func TestRegion_Alignment(t *testing.T) {
	r := newRegion(reflect.TypeFor[uint8](), reflect.TypeFor[uint64](), reflect.TypeFor[[3]uint16]())

	p := r.Reserve(1)
	align := uintptr(reflect.TypeFor[uint64]().Align())
	if uintptr(p)%align != 0 {
		t.Errorf("region base %#x not aligned to %d", uintptr(p), align)
	}
}

func TestRegion_Boxed(t *testing.T) {
	r := newRegion(reflect.TypeFor[uint8](), reflect.TypeFor[string]())

	if r.Boxed(0) {
		t.Error("uint8 should be inline")
	}
	if !r.Boxed(1) {
		t.Error("string should be boxed")
	}

	p := r.Reserve(1)
	*(*string)(p) = "hello"
	r.Commit(1)

	if got := *(*string)(r.Ptr()); got != "hello" {
		t.Errorf("value: got %q, want hello", got)
	}

	_, dp := r.Detach()
	if dp != p {
		t.Error("Detach should return the box pointer")
	}
	r.Release()
	if r.box != nil {
		t.Error("Release should drop the box")
	}
}

func TestRegion_Adopt(t *testing.T) {
	src := newRegion(reflect.TypeFor[string]())
	dst := &Region{}
	dst.Init(src.Layout())

	p := src.Reserve(0)
	*(*string)(p) = "moved"
	src.Commit(0)

	dst.Adopt(src)

	if !src.Empty() {
		t.Error("source should be empty after Adopt")
	}
	if dst.Index() != 0 {
		t.Errorf("index: got %d, want 0", dst.Index())
	}
	if dst.Ptr() != p {
		t.Error("Adopt should transfer the box without copying")
	}
	if got := *(*string)(dst.Ptr()); got != "moved" {
		t.Errorf("value: got %q, want moved", got)
	}
}

func TestRegion_ZeroSizeInline(t *testing.T) {
	r := newRegion(reflect.TypeFor[struct{}]())
	p := r.Reserve(0)
	if p == nil {
		t.Fatal("zero-size reserve must return a non-nil pointer")
	}
	r.Commit(0)
	if r.Ptr() != unsafe.Pointer(&zeroBase) {
		t.Error("zero-size region should use the shared zero base")
	}
}

func TestRegion_ZeroValueIsEmpty(t *testing.T) {
	var r Region
	if !r.Empty() {
		t.Error("zero Region should be empty")
	}
	if r.Index() != Empty {
		t.Errorf("index: got %d, want %d", r.Index(), Empty)
	}
}
