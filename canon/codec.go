package canon

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/variant"
	"github.com/wippyai/variant/errors"
	"github.com/wippyai/variant/internal/abi"
)

// Codec converts variants of one WIT type between Go and linear memory.
// A Codec is immutable and safe for concurrent use; the variants it
// produces are not.
type Codec struct {
	set    *variant.Set
	name   string
	cases  []Case
	layout Layout
}

// Compile builds a codec for a WIT variant, enum, option or result type.
// Extra set options, such as variant.WithHandler, apply to the derived set.
func Compile(td *wit.TypeDef, opts ...variant.Spec) (*Codec, error) {
	if td == nil {
		return nil, errors.NilPointer(errors.PhaseDeclare, "type definition")
	}

	var (
		names    []string
		payloads []wit.Type
	)
	switch kind := td.Kind.(type) {
	case *wit.Variant:
		for _, c := range kind.Cases {
			names = append(names, c.Name)
			payloads = append(payloads, c.Type)
		}
	case *wit.Enum:
		for _, c := range kind.Cases {
			names = append(names, c.Name)
			payloads = append(payloads, nil)
		}
	case *wit.Option:
		names = []string{"none", "some"}
		payloads = []wit.Type{nil, kind.Type}
	case *wit.Result:
		names = []string{"ok", "err"}
		payloads = []wit.Type{kind.OK, kind.Err}
	default:
		return nil, errors.New(errors.PhaseDeclare, errors.KindUnsupported).
			WitType(typeDefName(td)).
			Detail("not a variant-like type").
			Build()
	}

	cases := make([]Case, len(names))
	specs := make([]variant.Spec, 0, len(names)+len(opts))
	for i, name := range names {
		c, err := payloadCase(name, payloads[i])
		if err != nil {
			return nil, err
		}
		cases[i] = c
		specs = append(specs, c.alt(name))
	}
	specs = append(specs, opts...)

	set, err := variant.NewSet(specs...)
	if err != nil {
		return nil, err
	}

	return &Codec{
		set:    set,
		name:   typeDefName(td),
		cases:  cases,
		layout: computeLayout(cases),
	}, nil
}

// Set returns the alternative set derived from the cases.
func (c *Codec) Set() *variant.Set { return c.set }

// Name returns the WIT type name, or its kind for anonymous types.
func (c *Codec) Name() string { return c.name }

func (c *Codec) Layout() Layout { return c.layout }

// Cases returns the compiled cases in discriminant order.
func (c *Codec) Cases() []Case {
	out := make([]Case, len(c.cases))
	copy(out, c.cases)
	return out
}

// Store lowers v to addr. String payloads are copied into memory obtained
// from alloc; alloc may be nil when no case carries a string.
func (c *Codec) Store(mem Memory, alloc Allocator, addr uint32, v *variant.Variant) error {
	if mem == nil {
		return errors.NilPointer(errors.PhaseLower, "memory")
	}
	if v == nil || v.Set() != c.set {
		return errors.SetMismatch(errors.PhaseLower)
	}
	if v.Empty() {
		return errors.NotInitialized(errors.PhaseLower, "variant")
	}
	if addr%c.layout.Align != 0 {
		return errors.InvalidInput(errors.PhaseLower, "misaligned address")
	}

	i := v.Index()
	cs := c.cases[i]
	buf := make([]byte, c.layout.Size)
	putDisc(buf, c.layout.DiscSize, uint32(i))
	payload := buf[c.layout.PayloadOffset:]
	var heapPtr, heapLen uint32

	switch cs.kind {
	case kindNone:
	case kindBool:
		if v.Interface().(bool) {
			payload[0] = 1
		}
	case kindU8:
		payload[0] = v.Interface().(uint8)
	case kindS8:
		payload[0] = byte(v.Interface().(int8))
	case kindU16:
		binary.LittleEndian.PutUint16(payload, v.Interface().(uint16))
	case kindS16:
		binary.LittleEndian.PutUint16(payload, uint16(v.Interface().(int16)))
	case kindU32:
		binary.LittleEndian.PutUint32(payload, v.Interface().(uint32))
	case kindS32:
		binary.LittleEndian.PutUint32(payload, uint32(v.Interface().(int32)))
	case kindU64:
		binary.LittleEndian.PutUint64(payload, v.Interface().(uint64))
	case kindS64:
		binary.LittleEndian.PutUint64(payload, uint64(v.Interface().(int64)))
	case kindF32:
		bits := abi.CanonicalizeF32(math.Float32bits(v.Interface().(float32)))
		binary.LittleEndian.PutUint32(payload, bits)
	case kindF64:
		bits := abi.CanonicalizeF64(math.Float64bits(v.Interface().(float64)))
		binary.LittleEndian.PutUint64(payload, bits)
	case kindChar:
		r := v.Interface().(rune)
		if !abi.ValidateChar(r) {
			return errors.New(errors.PhaseLower, errors.KindInvalidData).
				Path(cs.Name).
				Detail("invalid char U+%04X", r).
				Value(r).
				Build()
		}
		binary.LittleEndian.PutUint32(payload, uint32(r))
	case kindString:
		ptr, n, err := c.storeString(mem, alloc, cs.Name, v.Interface().(string))
		if err != nil {
			return err
		}
		binary.LittleEndian.PutUint32(payload, ptr)
		binary.LittleEndian.PutUint32(payload[4:], n)
		heapPtr, heapLen = ptr, n
	}

	if err := mem.Write(addr, buf); err != nil {
		if heapLen > 0 {
			alloc.Free(heapPtr, heapLen, 1)
		}
		return errors.OutOfBounds(errors.PhaseLower, []string{cs.Name}, addr, c.layout.Size)
	}
	c.trace("store", addr, i)
	return nil
}

func (c *Codec) storeString(mem Memory, alloc Allocator, path, s string) (uint32, uint32, error) {
	if !utf8.ValidString(s) {
		return 0, 0, errors.InvalidUTF8(errors.PhaseLower, []string{path}, []byte(s))
	}
	if len(s) > abi.MaxStringSize {
		return 0, 0, errors.InvalidData(errors.PhaseLower, []string{path}, "string exceeds maximum size")
	}
	if len(s) == 0 {
		return 0, 0, nil
	}
	if alloc == nil {
		return 0, 0, errors.NilPointer(errors.PhaseLower, "allocator")
	}

	n := uint32(len(s))
	ptr, err := alloc.Alloc(n, 1)
	if err != nil {
		return 0, 0, errors.Wrap(errors.PhaseLower, errors.KindAllocation, err, "string payload")
	}
	if err := mem.Write(ptr, []byte(s)); err != nil {
		alloc.Free(ptr, n, 1)
		return 0, 0, errors.OutOfBounds(errors.PhaseLower, []string{path}, ptr, n)
	}
	return ptr, n, nil
}

// Load lifts the variant stored at addr into a new variant of the codec's
// set.
func (c *Codec) Load(mem Memory, addr uint32) (*variant.Variant, error) {
	if mem == nil {
		return nil, errors.NilPointer(errors.PhaseLift, "memory")
	}
	if len(c.cases) == 0 {
		return nil, errors.Unsupported(errors.PhaseLift, "variant without cases has no values")
	}
	if addr%c.layout.Align != 0 {
		return nil, errors.InvalidInput(errors.PhaseLift, "misaligned address")
	}

	buf, err := mem.Read(addr, c.layout.Size)
	if err != nil {
		return nil, errors.OutOfBounds(errors.PhaseLift, []string{c.name}, addr, c.layout.Size)
	}

	disc := getDisc(buf, c.layout.DiscSize)
	if disc >= uint32(len(c.cases)) {
		return nil, errors.InvalidDiscriminant(errors.PhaseLift, []string{c.name}, disc, uint32(len(c.cases)-1))
	}

	i := int(disc)
	cs := c.cases[i]
	payload := buf[c.layout.PayloadOffset:]

	var val any
	switch cs.kind {
	case kindNone:
		val = struct{}{}
	case kindBool:
		val = payload[0] != 0
	case kindU8:
		val = payload[0]
	case kindS8:
		val = int8(payload[0])
	case kindU16:
		val = binary.LittleEndian.Uint16(payload)
	case kindS16:
		val = int16(binary.LittleEndian.Uint16(payload))
	case kindU32:
		val = binary.LittleEndian.Uint32(payload)
	case kindS32:
		val = int32(binary.LittleEndian.Uint32(payload))
	case kindU64:
		val = binary.LittleEndian.Uint64(payload)
	case kindS64:
		val = int64(binary.LittleEndian.Uint64(payload))
	case kindF32:
		val = math.Float32frombits(abi.CanonicalizeF32(binary.LittleEndian.Uint32(payload)))
	case kindF64:
		val = math.Float64frombits(abi.CanonicalizeF64(binary.LittleEndian.Uint64(payload)))
	case kindChar:
		r := rune(binary.LittleEndian.Uint32(payload))
		if !abi.ValidateChar(r) {
			return nil, errors.InvalidData(errors.PhaseLift, []string{c.name, cs.Name}, "invalid char")
		}
		val = r
	case kindString:
		s, err := c.loadString(mem, cs.Name, binary.LittleEndian.Uint32(payload), binary.LittleEndian.Uint32(payload[4:]))
		if err != nil {
			return nil, err
		}
		val = s
	}

	v := variant.New(c.set)
	if err := v.EmplaceValue(i, val); err != nil {
		return nil, err
	}
	c.trace("load", addr, i)
	return v, nil
}

func (c *Codec) loadString(mem Memory, path string, ptr, n uint32) (string, error) {
	if n == 0 {
		return "", nil
	}
	if n > abi.MaxStringSize {
		return "", errors.InvalidData(errors.PhaseLift, []string{c.name, path}, "string exceeds maximum size")
	}
	data, err := mem.Read(ptr, n)
	if err != nil {
		return "", errors.OutOfBounds(errors.PhaseLift, []string{c.name, path}, ptr, n)
	}
	if !utf8.Valid(data) {
		return "", errors.InvalidUTF8(errors.PhaseLift, []string{c.name, path}, data)
	}
	return string(data), nil
}

func (c *Codec) trace(op string, addr uint32, i int) {
	if ce := variant.Logger().Check(zap.DebugLevel, op); ce != nil {
		ce.Write(
			zap.String("type", c.name),
			zap.Uint32("addr", addr),
			zap.String("case", c.cases[i].Name),
		)
	}
}

func putDisc(buf []byte, size, disc uint32) {
	switch size {
	case 1:
		buf[0] = byte(disc)
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(disc))
	case 4:
		binary.LittleEndian.PutUint32(buf, disc)
	}
}

func getDisc(buf []byte, size uint32) uint32 {
	switch size {
	case 1:
		return uint32(buf[0])
	case 2:
		return uint32(binary.LittleEndian.Uint16(buf))
	default:
		return binary.LittleEndian.Uint32(buf)
	}
}
