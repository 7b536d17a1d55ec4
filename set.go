package variant

import (
	"reflect"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/variant/errors"
	"github.com/wippyai/variant/internal/abi"
	"github.com/wippyai/variant/internal/dispatch"
	"github.com/wippyai/variant/internal/layout"
)

// Spec is one element of a set declaration: an alternative from Alt or
// ArrayAlt, or a set option such as WithHandler.
type Spec interface {
	apply(b *builder) error
}

type builder struct {
	handler Handler
	logger  *zap.Logger
	alts    []Alternative
}

type optionSpec func(b *builder)

func (o optionSpec) apply(b *builder) error {
	o(b)
	return nil
}

// WithHandler routes access failures of variants of this set to h instead of
// the package handler.
func WithHandler(h Handler) Spec {
	return optionSpec(func(b *builder) { b.handler = h })
}

// WithLogger sets the logger used for lifecycle events of this set.
func WithLogger(l *zap.Logger) Spec {
	return optionSpec(func(b *builder) { b.logger = l })
}

// Set is an ordered list of alternatives together with its storage layout
// and lifecycle table. A Set is immutable once declared and may be shared by
// any number of variants.
type Set struct {
	byType  map[reflect.Type][]int
	table   *dispatch.Table
	handler Handler
	logger  *zap.Logger
	alts    []Alternative
	region  layout.Region
}

// NewSet declares an alternative set. Alternatives keep the order in which
// they are given; their position is their index. Zero alternatives are
// allowed: such variants are always empty.
func NewSet(specs ...Spec) (*Set, error) {
	b := &builder{}
	for i, spec := range specs {
		if spec == nil {
			return nil, errors.InvalidInput(errors.PhaseDeclare, "nil spec at position "+strconv.Itoa(i))
		}
		if err := spec.apply(b); err != nil {
			return nil, err
		}
	}

	types := make([]reflect.Type, len(b.alts))
	for i := range b.alts {
		types[i] = b.alts[i].typ
	}
	region := layout.NewCalculator().Region(types)

	s := &Set{
		byType:  make(map[reflect.Type][]int, len(b.alts)),
		handler: b.handler,
		logger:  b.logger,
		alts:    b.alts,
		region:  region,
	}

	entries := make([]dispatch.Entry, len(s.alts))
	for i := range s.alts {
		a := &s.alts[i]
		a.index = i
		a.info = region.Slots[i]
		s.byType[a.typ] = append(s.byType[a.typ], i)
		entries[i] = a.entry
	}
	s.table = dispatch.NewTable(entries)

	return s, nil
}

// MustSet is like NewSet but panics on error. It is meant for package-level
// declarations.
func MustSet(specs ...Spec) *Set {
	s, err := NewSet(specs...)
	if err != nil {
		panic(err)
	}
	return s
}

var emptySet = MustSet()

// Len returns the number of declared alternatives.
func (s *Set) Len() int {
	return len(s.alts)
}

// Alternative returns the alternative at index i.
func (s *Set) Alternative(i int) (Alternative, bool) {
	if i < 0 || i >= len(s.alts) {
		return Alternative{}, false
	}
	return s.alts[i], true
}

// Alternatives returns a copy of the declared alternatives in order.
func (s *Set) Alternatives() []Alternative {
	out := make([]Alternative, len(s.alts))
	copy(out, s.alts)
	return out
}

// MaxSize is the size of the largest alternative, rounded up to MaxAlign.
func (s *Set) MaxSize() uintptr { return s.region.MaxSize }

// MaxAlign is the strictest alignment among the alternatives.
func (s *Set) MaxAlign() uintptr { return s.region.MaxAlign }

// InlineSize is the byte capacity of the shared inline region.
func (s *Set) InlineSize() uintptr { return s.region.InlineSize }

// InlineAlign is the alignment of the shared inline region.
func (s *Set) InlineAlign() uintptr { return s.region.InlineAlign }

// IndicesOf returns every index whose alternative has exactly type t, in
// declaration order.
func (s *Set) IndicesOf(t reflect.Type) []int {
	idx := s.byType[t]
	if len(idx) == 0 {
		return nil
	}
	out := make([]int, len(idx))
	copy(out, idx)
	return out
}

// IndexOf resolves t to its single index. It fails when t is not declared or
// is declared more than once; duplicated types need an explicit index.
func (s *Set) IndexOf(t reflect.Type) (int, error) {
	idx := s.byType[t]
	switch len(idx) {
	case 0:
		return -1, errors.NoAlternative(errors.PhaseResolve, abi.TypeName(t))
	case 1:
		return idx[0], nil
	default:
		return -1, errors.Ambiguous(errors.PhaseResolve, abi.TypeName(t), idx)
	}
}

// FirstIndexOf returns the first index declared with type t.
func (s *Set) FirstIndexOf(t reflect.Type) (int, bool) {
	idx := s.byType[t]
	if len(idx) == 0 {
		return -1, false
	}
	return idx[0], true
}

// contains reports whether index i is declared with type t.
func (s *Set) contains(t reflect.Type, i int) bool {
	for _, j := range s.byType[t] {
		if j == i {
			return true
		}
	}
	return false
}

// checkIndex validates an explicit disambiguation index for type t.
func (s *Set) checkIndex(phase errors.Phase, i int, t reflect.Type) error {
	if i < 0 || i >= len(s.alts) {
		return errors.IndexOutOfRange(phase, i, len(s.alts))
	}
	if s.alts[i].typ != t {
		return errors.TypeMismatch(phase, i, abi.TypeName(t), s.alts[i].typ.String())
	}
	return nil
}

// String renders the set as variant<T0, T1, ...>.
func (s *Set) String() string {
	var b strings.Builder
	b.WriteString("variant<")
	for i, a := range s.alts {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.Name())
	}
	b.WriteByte('>')
	return b.String()
}

func (s *Set) log() *zap.Logger {
	if s.logger != nil {
		return s.logger
	}
	return Logger()
}
