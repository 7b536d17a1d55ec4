package dispatch

import (
	stderrors "errors"
	"testing"
	"unsafe"

	"github.com/wippyai/variant/errors"
)

func intEntry(log *[]string) Entry {
	return Entry{
		Name: "int",
		Construct: func(dst, src unsafe.Pointer) error {
			*(*int)(dst) = *(*int)(src)
			*log = append(*log, "construct")
			return nil
		},
		Copy: func(dst, src unsafe.Pointer) error {
			*(*int)(dst) = *(*int)(src)
			*log = append(*log, "copy")
			return nil
		},
		Move: func(dst, src unsafe.Pointer) error {
			*(*int)(dst) = *(*int)(src)
			*(*int)(src) = 0
			*log = append(*log, "move")
			return nil
		},
		Destroy: func(p unsafe.Pointer) {
			*log = append(*log, "destroy")
		},
		Bitwise: true,
	}
}

func TestTable_Empty(t *testing.T) {
	tbl := NewTable(nil)
	if tbl.Len() != 0 {
		t.Errorf("Len: got %d, want 0", tbl.Len())
	}

	var x int
	err := tbl.Construct(0, unsafe.Pointer(&x), unsafe.Pointer(&x))
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseResolve, Kind: errors.KindIndexOutOfRange}) {
		t.Errorf("Construct on empty table: got %v, want index_out_of_range", err)
	}

	// no-op, must not panic
	tbl.Destroy(0, unsafe.Pointer(&x))
	if tbl.Bitwise(0) {
		t.Error("Bitwise on empty table should be false")
	}
}

func TestTable_Dispatch(t *testing.T) {
	var log []string
	tbl := NewTable([]Entry{intEntry(&log), {Name: "unit", Construct: func(dst, src unsafe.Pointer) error { return nil }}})

	src, dst := 42, 0
	if err := tbl.Construct(0, unsafe.Pointer(&dst), unsafe.Pointer(&src)); err != nil {
		t.Fatalf("Construct: %v", err)
	}
	if dst != 42 {
		t.Errorf("dst: got %d, want 42", dst)
	}

	other := 0
	if err := tbl.Copy(0, unsafe.Pointer(&other), unsafe.Pointer(&dst)); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	moved := 0
	if err := tbl.Move(0, unsafe.Pointer(&moved), unsafe.Pointer(&other)); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if moved != 42 || other != 0 {
		t.Errorf("Move: got %d/%d, want 42/0", moved, other)
	}

	tbl.Destroy(0, unsafe.Pointer(&moved))
	tbl.Destroy(1, unsafe.Pointer(&moved)) // trivially destructible

	want := []string{"construct", "copy", "move", "destroy"}
	if len(log) != len(want) {
		t.Fatalf("log: got %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d]: got %q, want %q", i, log[i], want[i])
		}
	}
}

func TestTable_NotCopyable(t *testing.T) {
	tbl := NewTable([]Entry{{Name: "handle"}})

	var a, b int
	err := tbl.Copy(0, unsafe.Pointer(&a), unsafe.Pointer(&b))
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseConstruct, Kind: errors.KindNotCopyable}) {
		t.Errorf("Copy: got %v, want not_copyable", err)
	}
}

func TestTable_AssignOptional(t *testing.T) {
	var log []string
	e := intEntry(&log)
	tbl := NewTable([]Entry{e})

	a, b := 1, 2
	handled, err := tbl.CopyAssign(0, unsafe.Pointer(&a), unsafe.Pointer(&b))
	if err != nil || handled {
		t.Errorf("CopyAssign without hook: got %v/%v, want false/nil", handled, err)
	}
	handled, err = tbl.MoveAssign(0, unsafe.Pointer(&a), unsafe.Pointer(&b))
	if err != nil || handled {
		t.Errorf("MoveAssign without hook: got %v/%v, want false/nil", handled, err)
	}

	e.CopyAssign = func(dst, src unsafe.Pointer) error {
		*(*int)(dst) = *(*int)(src)
		return nil
	}
	tbl = NewTable([]Entry{e})
	handled, err = tbl.CopyAssign(0, unsafe.Pointer(&a), unsafe.Pointer(&b))
	if err != nil || !handled {
		t.Fatalf("CopyAssign with hook: got %v/%v, want true/nil", handled, err)
	}
	if a != 2 {
		t.Errorf("a: got %d, want 2", a)
	}

	if _, err := tbl.CopyAssign(5, unsafe.Pointer(&a), unsafe.Pointer(&b)); err == nil {
		t.Error("CopyAssign out of range should error")
	}
}
