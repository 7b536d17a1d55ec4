package variant

import (
	stderrors "errors"
	"reflect"
	"testing"
	"unsafe"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/variant/errors"
)

func TestNewSet_Order(t *testing.T) {
	s, err := NewSet(Alt[int32](), Alt[string](), Alt[int32](), ArrayAlt[uint16](4))
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	if s.Len() != 4 {
		t.Fatalf("Len: got %d, want 4", s.Len())
	}

	want := []reflect.Type{
		reflect.TypeFor[int32](),
		reflect.TypeFor[string](),
		reflect.TypeFor[int32](),
		reflect.TypeFor[[4]uint16](),
	}
	for i, a := range s.Alternatives() {
		if a.Index() != i {
			t.Errorf("alternative %d: index %d", i, a.Index())
		}
		if a.Type() != want[i] {
			t.Errorf("alternative %d: got %v, want %v", i, a.Type(), want[i])
		}
	}

	if _, ok := s.Alternative(4); ok {
		t.Error("Alternative(4) should not exist")
	}
	if _, ok := s.Alternative(-1); ok {
		t.Error("Alternative(-1) should not exist")
	}
}

func TestNewSet_NilSpec(t *testing.T) {
	_, err := NewSet(Alt[int](), nil)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDeclare, Kind: errors.KindInvalidInput}) {
		t.Errorf("NewSet(nil): got %v, want invalid_input", err)
	}
}

func TestMustSet_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustSet should panic on a bad declaration")
		}
	}()
	MustSet(nil)
}

func TestSet_Resolution(t *testing.T) {
	s := MustSet(Alt[int32](), Alt[string](), Alt[int32]())

	tests := []struct {
		name    string
		typ     reflect.Type
		indices []int
		first   int
		unique  bool
	}{
		{"unique", reflect.TypeFor[string](), []int{1}, 1, true},
		{"duplicated", reflect.TypeFor[int32](), []int{0, 2}, 0, false},
		{"absent", reflect.TypeFor[float64](), nil, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.IndicesOf(tt.typ)
			if !reflect.DeepEqual(got, tt.indices) {
				t.Errorf("IndicesOf: got %v, want %v", got, tt.indices)
			}
			first, ok := s.FirstIndexOf(tt.typ)
			if first != tt.first || ok != (tt.indices != nil) {
				t.Errorf("FirstIndexOf: got %d/%v, want %d", first, ok, tt.first)
			}
			i, err := s.IndexOf(tt.typ)
			if tt.unique {
				if err != nil || i != tt.first {
					t.Errorf("IndexOf: got %d/%v, want %d", i, err, tt.first)
				}
			} else if err == nil {
				t.Errorf("IndexOf: got %d, want error", i)
			}
		})
	}

	if got := IndicesFor[int32](s); !reflect.DeepEqual(got, []int{0, 2}) {
		t.Errorf("IndicesFor: got %v", got)
	}

	// callers own the returned slice
	idx := s.IndicesOf(reflect.TypeFor[int32]())
	idx[0] = 99
	if s.IndicesOf(reflect.TypeFor[int32]())[0] != 0 {
		t.Error("IndicesOf must return a copy")
	}
}

func TestSet_Ambiguous(t *testing.T) {
	s := MustSet(Alt[int32](), Alt[int32]())
	_, err := s.IndexOf(reflect.TypeFor[int32]())

	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("got %T, want *errors.Error", err)
	}
	if e.Kind != errors.KindAmbiguous {
		t.Errorf("kind: got %s, want ambiguous", e.Kind)
	}
}

type wide struct {
	A uint64
	B uint8
}

func TestSet_Layout(t *testing.T) {
	s := MustSet(Alt[uint8](), Alt[wide](), Alt[string](), Alt[[3]uint16]())

	wideSize := unsafe.Sizeof(wide{})
	wideAlign := unsafe.Alignof(wide{})
	strSize := unsafe.Sizeof("")

	wantMax := max(wideSize, strSize, 6)
	if s.MaxSize() != wantMax {
		t.Errorf("MaxSize: got %d, want %d", s.MaxSize(), wantMax)
	}
	if s.MaxAlign() < wideAlign {
		t.Errorf("MaxAlign: got %d, want >= %d", s.MaxAlign(), wideAlign)
	}
	if s.InlineSize() != wideSize {
		t.Errorf("InlineSize: got %d, want %d", s.InlineSize(), wideSize)
	}
	if s.InlineAlign() != wideAlign {
		t.Errorf("InlineAlign: got %d, want %d", s.InlineAlign(), wideAlign)
	}

	inline := []bool{true, true, false, true}
	for i, a := range s.Alternatives() {
		if a.Inline() != inline[i] {
			t.Errorf("alternative %d: inline got %v, want %v", i, a.Inline(), inline[i])
		}
	}

	arr, _ := s.Alternative(3)
	if arr.Len() != 3 || arr.Elem() != reflect.TypeFor[uint16]() {
		t.Errorf("array alternative: len %d elem %v", arr.Len(), arr.Elem())
	}
	if arr.Size() != 6 || arr.Align() != 2 {
		t.Errorf("array alternative: size %d align %d, want 6/2", arr.Size(), arr.Align())
	}
}

func TestSet_Names(t *testing.T) {
	s := MustSet(
		Alt[int](Named[int]("count")),
		Alt[string](),
		ArrayAlt[byte](2, Named[byte]("pair")),
	)
	if got := s.String(); got != "variant<count, string, pair>" {
		t.Errorf("String: got %q", got)
	}
	if got := MustSet().String(); got != "variant<>" {
		t.Errorf("String(empty): got %q", got)
	}
}

func TestAlternative_Copyable(t *testing.T) {
	s := MustSet(Alt[int](), Alt[string](NoCopy[string]()), ArrayAlt(2, NoCopy[int8]()))
	want := []bool{true, false, false}
	for i, a := range s.Alternatives() {
		if a.Copyable() != want[i] {
			t.Errorf("alternative %d: copyable got %v, want %v", i, a.Copyable(), want[i])
		}
	}
}

func TestWithHooks(t *testing.T) {
	var destroyed int
	s := MustSet(Alt(WithHooks(Hooks[alpha]{
		Name:    "tracked",
		Destroy: func(p *alpha) { destroyed += p.N },
	})))

	v, _ := Make(s, alpha{N: 3})
	v.Reset()
	if destroyed != 3 {
		t.Errorf("destroyed: got %d, want 3", destroyed)
	}
	if a, _ := s.Alternative(0); a.Name() != "tracked" {
		t.Errorf("Name: got %q, want tracked", a.Name())
	}
}

func TestWithLogger_TracesLifecycle(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := MustSet(Alt[int](), Alt[string](), WithLogger(zap.New(core)))

	v, _ := Make(s, 1)
	_ = Emplace(v, "two")
	w, _ := v.Take()
	w.Reset()

	var got []string
	for _, entry := range logs.All() {
		got = append(got, entry.Message)
	}
	want := []string{"construct", "destroy", "construct", "adopt", "destroy"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("log messages: got %v, want %v", got, want)
	}

	first := logs.All()[0].ContextMap()
	if first["index"] != int64(0) || first["alternative"] != "int" {
		t.Errorf("fields: got %v", first)
	}
}

func TestSetLogger(t *testing.T) {
	prev := Logger()
	t.Cleanup(func() { SetLogger(prev) })

	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))

	s := MustSet(Alt[int](), WithHandler(ReturnHandler))
	v := New(s)
	_, _ = Get[int](v)

	if logs.FilterMessage("variant access failed").Len() != 1 {
		t.Errorf("expected one access failure to be logged, got %d entries", logs.Len())
	}

	SetLogger(nil)
	if Logger() == nil {
		t.Error("SetLogger(nil) should install a no-op logger")
	}
}
