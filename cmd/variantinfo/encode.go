package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tetratelabs/wazero"

	"github.com/wippyai/variant"
	"github.com/wippyai/variant/canon"
)

// Minimal module exporting one page of memory as "memory"
var memoryWASM = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: min 1 page
	0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00, // export "memory"
}

// heapBase is where string payloads are allocated; variants are stored at 0.
const heapBase = 1024

// scratch is a wazero module memory used to lower values for display.
type scratch struct {
	rt    wazero.Runtime
	mem   *canon.WazeroMemory
	alloc *canon.BumpAllocator
}

type encodeResult struct {
	value   string
	lifted  string
	caseIdx int
	layout  canon.Layout
	bytes   []byte
	heap    []byte
}

func newScratch() (*scratch, error) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	mod, err := rt.Instantiate(ctx, memoryWASM)
	if err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("instantiate scratch memory: %w", err)
	}
	mem := canon.NewWazeroMemory(mod.Memory())
	return &scratch{
		rt:    rt,
		mem:   mem,
		alloc: canon.NewBumpAllocator(heapBase, mem.Size()),
	}, nil
}

func (s *scratch) close() {
	s.rt.Close(context.Background())
}

// encode lowers "case=value" for e into scratch memory and lifts it back.
func (s *scratch) encode(e entry, input string) (*encodeResult, error) {
	caseName, text, _ := strings.Cut(input, "=")
	caseName = strings.TrimSpace(caseName)

	idx := -1
	cases := e.codec.Cases()
	for i, c := range cases {
		if c.Name == caseName {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%s has no case %q", e.name, caseName)
	}

	val, err := parseValue(cases[idx], text)
	if err != nil {
		return nil, err
	}

	v := variant.New(e.codec.Set())
	defer v.Reset()
	if err := v.EmplaceValue(idx, val); err != nil {
		return nil, err
	}

	s.alloc.Reset()
	if err := e.codec.Store(s.mem, s.alloc, 0, v); err != nil {
		return nil, err
	}

	l := e.codec.Layout()
	raw, err := s.mem.Read(0, l.Size)
	if err != nil {
		return nil, err
	}
	res := &encodeResult{
		value:   v.String(),
		caseIdx: idx,
		layout:  l,
		bytes:   append([]byte(nil), raw...),
	}
	if str, ok := val.(string); ok && str != "" {
		heap, err := s.mem.Read(heapBase, uint32(len(str)))
		if err == nil {
			res.heap = append([]byte(nil), heap...)
		}
	}

	back, err := e.codec.Load(s.mem, 0)
	if err != nil {
		return nil, fmt.Errorf("lift: %w", err)
	}
	res.lifted = back.String()
	back.Reset()
	return res, nil
}

// parseValue converts text to the Go value of the case payload.
func parseValue(c canon.Case, text string) (any, error) {
	text = strings.TrimSpace(text)
	switch c.WitType() {
	case "":
		return struct{}{}, nil
	case "bool":
		return strconv.ParseBool(text)
	case "u8":
		v, err := strconv.ParseUint(text, 10, 8)
		return uint8(v), err
	case "s8":
		v, err := strconv.ParseInt(text, 10, 8)
		return int8(v), err
	case "u16":
		v, err := strconv.ParseUint(text, 10, 16)
		return uint16(v), err
	case "s16":
		v, err := strconv.ParseInt(text, 10, 16)
		return int16(v), err
	case "u32":
		v, err := strconv.ParseUint(text, 10, 32)
		return uint32(v), err
	case "s32":
		v, err := strconv.ParseInt(text, 10, 32)
		return int32(v), err
	case "u64":
		return strconv.ParseUint(text, 10, 64)
	case "s64":
		return strconv.ParseInt(text, 10, 64)
	case "f32":
		v, err := strconv.ParseFloat(text, 32)
		return float32(v), err
	case "f64":
		return strconv.ParseFloat(text, 64)
	case "char":
		r, size := utf8.DecodeRuneInString(text)
		if r == utf8.RuneError || size != len(text) {
			return nil, fmt.Errorf("char payload needs exactly one character, got %q", text)
		}
		return r, nil
	case "string":
		return text, nil
	default:
		return nil, fmt.Errorf("unsupported payload %s", c.WitType())
	}
}
