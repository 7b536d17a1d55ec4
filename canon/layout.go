package canon

import (
	"reflect"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/variant"
	"github.com/wippyai/variant/errors"
	"github.com/wippyai/variant/internal/abi"
)

// Layout is the canonical ABI memory layout of a variant-like type.
type Layout struct {
	Size          uint32
	Align         uint32
	DiscSize      uint32
	PayloadOffset uint32
}

type payloadKind uint8

const (
	kindNone payloadKind = iota
	kindBool
	kindU8
	kindS8
	kindU16
	kindS16
	kindU32
	kindS32
	kindU64
	kindS64
	kindF32
	kindF64
	kindChar
	kindString
)

var kindNames = [...]string{
	kindNone:   "",
	kindBool:   "bool",
	kindU8:     "u8",
	kindS8:     "s8",
	kindU16:    "u16",
	kindS16:    "s16",
	kindU32:    "u32",
	kindS32:    "s32",
	kindU64:    "u64",
	kindS64:    "s64",
	kindF32:    "f32",
	kindF64:    "f64",
	kindChar:   "char",
	kindString: "string",
}

func (k payloadKind) String() string {
	return kindNames[k]
}

// Case is one compiled case of a codec.
type Case struct {
	alt   func(name string) variant.Spec
	Type  reflect.Type
	Name  string
	Size  uint32
	Align uint32
	kind  payloadKind
}

// WitType returns the WIT name of the payload, empty for payload-less cases.
func (c Case) WitType() string {
	return c.kind.String()
}

func named[T any](name string) variant.Spec {
	return variant.Alt[T](variant.Named[T](name))
}

func payloadCase(name string, t wit.Type) (Case, error) {
	c := Case{Name: name}
	switch typ := t.(type) {
	case nil:
		c.kind, c.Size, c.Align, c.alt = kindNone, 0, 1, named[struct{}]
		c.Type = reflect.TypeFor[struct{}]()
	case wit.Bool:
		c.kind, c.Size, c.Align, c.alt = kindBool, 1, 1, named[bool]
		c.Type = reflect.TypeFor[bool]()
	case wit.U8:
		c.kind, c.Size, c.Align, c.alt = kindU8, 1, 1, named[uint8]
		c.Type = reflect.TypeFor[uint8]()
	case wit.S8:
		c.kind, c.Size, c.Align, c.alt = kindS8, 1, 1, named[int8]
		c.Type = reflect.TypeFor[int8]()
	case wit.U16:
		c.kind, c.Size, c.Align, c.alt = kindU16, 2, 2, named[uint16]
		c.Type = reflect.TypeFor[uint16]()
	case wit.S16:
		c.kind, c.Size, c.Align, c.alt = kindS16, 2, 2, named[int16]
		c.Type = reflect.TypeFor[int16]()
	case wit.U32:
		c.kind, c.Size, c.Align, c.alt = kindU32, 4, 4, named[uint32]
		c.Type = reflect.TypeFor[uint32]()
	case wit.S32:
		c.kind, c.Size, c.Align, c.alt = kindS32, 4, 4, named[int32]
		c.Type = reflect.TypeFor[int32]()
	case wit.U64:
		c.kind, c.Size, c.Align, c.alt = kindU64, 8, 8, named[uint64]
		c.Type = reflect.TypeFor[uint64]()
	case wit.S64:
		c.kind, c.Size, c.Align, c.alt = kindS64, 8, 8, named[int64]
		c.Type = reflect.TypeFor[int64]()
	case wit.F32:
		c.kind, c.Size, c.Align, c.alt = kindF32, 4, 4, named[float32]
		c.Type = reflect.TypeFor[float32]()
	case wit.F64:
		c.kind, c.Size, c.Align, c.alt = kindF64, 8, 8, named[float64]
		c.Type = reflect.TypeFor[float64]()
	case wit.Char:
		c.kind, c.Size, c.Align, c.alt = kindChar, 4, 4, named[rune]
		c.Type = reflect.TypeFor[rune]()
	case wit.String:
		// [ptr: u32, len: u32]
		c.kind, c.Size, c.Align, c.alt = kindString, 8, 4, named[string]
		c.Type = reflect.TypeFor[string]()
	case *wit.TypeDef:
		// aliases of primitives resolve to their target
		if inner, ok := typ.Kind.(wit.Type); ok {
			return payloadCase(name, inner)
		}
		return c, errors.New(errors.PhaseDeclare, errors.KindUnsupported).
			Path(name).
			Detail("payload type %s", typeDefName(typ)).
			Build()
	default:
		return c, errors.New(errors.PhaseDeclare, errors.KindUnsupported).
			Path(name).
			Detail("payload type %T", t).
			Build()
	}
	return c, nil
}

func computeLayout(cases []Case) Layout {
	if len(cases) == 0 {
		return Layout{Size: 0, Align: 1}
	}

	discSize := abi.DiscriminantSize(len(cases))
	maxAlign := discSize
	maxSize := uint32(0)
	for _, c := range cases {
		if c.Align > maxAlign {
			maxAlign = c.Align
		}
		if c.Size > maxSize {
			maxSize = c.Size
		}
	}

	payloadOffset := abi.AlignTo(discSize, maxAlign)
	return Layout{
		Size:          abi.AlignTo(payloadOffset+maxSize, maxAlign),
		Align:         maxAlign,
		DiscSize:      discSize,
		PayloadOffset: payloadOffset,
	}
}

func typeDefName(td *wit.TypeDef) string {
	if td.Name != nil && *td.Name != "" {
		return *td.Name
	}
	switch td.Kind.(type) {
	case *wit.Variant:
		return "variant"
	case *wit.Enum:
		return "enum"
	case *wit.Option:
		return "option"
	case *wit.Result:
		return "result"
	case *wit.Record:
		return "record"
	case *wit.List:
		return "list"
	case *wit.Tuple:
		return "tuple"
	case *wit.Flags:
		return "flags"
	default:
		return "type"
	}
}
