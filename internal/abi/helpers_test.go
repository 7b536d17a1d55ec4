package abi

import (
	"math"
	"reflect"
	"testing"
)

func TestSafeAddU32(t *testing.T) {
	if got, ok := SafeAddU32(1, 2); !ok || got != 3 {
		t.Errorf("SafeAddU32(1, 2) = %d, %v, want 3, true", got, ok)
	}
	if _, ok := SafeAddU32(math.MaxUint32, 1); ok {
		t.Error("SafeAddU32(max, 1) should overflow")
	}
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		want string
	}{
		{"nil", nil, "nil"},
		{"int", reflect.TypeFor[int](), "int"},
		{"array", reflect.TypeFor[[3]uint8](), "[3]uint8"},
		{"pointer", reflect.TypeFor[*int](), "*int"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypeName(tt.typ); got != tt.want {
				t.Errorf("TypeName(%v) = %q, want %q", tt.typ, got, tt.want)
			}
		})
	}
}

func TestValueTypeName(t *testing.T) {
	if got := ValueTypeName(nil); got != "nil" {
		t.Errorf("ValueTypeName(nil) = %q, want nil", got)
	}
	if got := ValueTypeName(float32(1)); got != "float32" {
		t.Errorf("ValueTypeName(float32) = %q, want float32", got)
	}
}

func TestAlignTo(t *testing.T) {
	tests := []struct {
		name   string
		offset uint32
		align  uint32
		want   uint32
	}{
		{"align 0", 5, 0, 5},
		{"align 1", 5, 1, 5},
		{"already aligned", 8, 4, 8},
		{"round up", 5, 4, 8},
		{"zero offset", 0, 8, 0},
		{"one to eight", 1, 8, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AlignTo(tt.offset, tt.align); got != tt.want {
				t.Errorf("AlignTo(%d, %d) = %d, want %d", tt.offset, tt.align, got, tt.want)
			}
		})
	}
}

func TestAlignPtr(t *testing.T) {
	if got := AlignPtr(9, 8); got != 16 {
		t.Errorf("AlignPtr(9, 8) = %d, want 16", got)
	}
	if got := AlignPtr(7, 0); got != 7 {
		t.Errorf("AlignPtr(7, 0) = %d, want 7", got)
	}
}

func TestDiscriminantSize(t *testing.T) {
	tests := []struct {
		cases int
		want  uint32
	}{
		{0, 1},
		{1, 1},
		{256, 1},
		{257, 2},
		{65536, 2},
		{65537, 4},
	}

	for _, tt := range tests {
		if got := DiscriminantSize(tt.cases); got != tt.want {
			t.Errorf("DiscriminantSize(%d) = %d, want %d", tt.cases, got, tt.want)
		}
	}
}

func TestCanonicalize(t *testing.T) {
	nan32 := math.Float32bits(float32(math.NaN())) | 1
	if got := CanonicalizeF32(nan32); got != CanonicalNaN32 {
		t.Errorf("CanonicalizeF32(NaN) = %#x, want %#x", got, CanonicalNaN32)
	}
	if got := CanonicalizeF32(math.Float32bits(1.5)); got != math.Float32bits(1.5) {
		t.Errorf("CanonicalizeF32(1.5) changed bits: %#x", got)
	}
	nan64 := math.Float64bits(math.NaN()) | 1
	if got := CanonicalizeF64(nan64); got != CanonicalNaN64 {
		t.Errorf("CanonicalizeF64(NaN) = %#x, want %#x", got, uint64(CanonicalNaN64))
	}
}

func TestValidateChar(t *testing.T) {
	tests := []struct {
		r    rune
		want bool
	}{
		{'a', true},
		{0x10FFFF, true},
		{0xD800, false},
		{0xDFFF, false},
		{0x110000, false},
		{-1, false},
	}

	for _, tt := range tests {
		if got := ValidateChar(tt.r); got != tt.want {
			t.Errorf("ValidateChar(%#x) = %v, want %v", tt.r, got, tt.want)
		}
	}
}
