package canon

import (
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/variant/errors"
	"github.com/wippyai/variant/internal/abi"
)

// Memory represents WASM linear memory
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
}

// Allocator allocates memory in WASM linear memory
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
	Free(ptr, size, align uint32)
}

// WazeroMemory adapts a wazero module memory.
type WazeroMemory struct {
	mem api.Memory
}

func NewWazeroMemory(mem api.Memory) *WazeroMemory {
	return &WazeroMemory{mem: mem}
}

func (m *WazeroMemory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, fmt.Errorf("read out of bounds: offset=%d, length=%d", offset, length)
	}
	return data, nil
}

func (m *WazeroMemory) Write(offset uint32, data []byte) error {
	ok := m.mem.Write(offset, data)
	if !ok {
		return fmt.Errorf("write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	return nil
}

func (m *WazeroMemory) Size() uint32 {
	return m.mem.Size()
}

// BumpAllocator hands out memory from [next, limit) without reuse. It serves
// hosts that lower into a scratch area of a module without cabi_realloc.
type BumpAllocator struct {
	base  uint32
	next  uint32
	limit uint32
}

func NewBumpAllocator(base, limit uint32) *BumpAllocator {
	return &BumpAllocator{base: base, next: base, limit: limit}
}

func (a *BumpAllocator) Alloc(size, align uint32) (uint32, error) {
	addr := abi.AlignTo(a.next, align)
	end, ok := abi.SafeAddU32(addr, size)
	if !ok || addr < a.next || end > a.limit {
		return 0, errors.AllocationFailed(errors.PhaseLower, size, align)
	}
	a.next = end
	return addr, nil
}

// Free is a no-op; memory comes back only through Reset.
func (a *BumpAllocator) Free(ptr, size, align uint32) {}

// Reset releases every allocation.
func (a *BumpAllocator) Reset() {
	a.next = a.base
}
