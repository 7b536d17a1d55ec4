package dispatch

import (
	"unsafe"

	"github.com/wippyai/variant/errors"
)

// Op runs a two-address lifecycle operation. src points at a live object of
// the entry's type; dst points at reserved memory (Construct, Copy, Move) or a
// live object (CopyAssign, MoveAssign).
type Op func(dst, src unsafe.Pointer) error

// Entry is the lifecycle of one alternative.
type Entry struct {
	Construct  Op
	Copy       Op // nil when the alternative is not copyable
	Move       Op
	CopyAssign Op // optional in-place assignment
	MoveAssign Op // optional in-place assignment
	Destroy    func(p unsafe.Pointer)
	Name       string
	// Bitwise is set when Move is a plain transfer with no user hook, so a
	// boxed object may change owner without running Move.
	Bitwise bool
}

type Table struct {
	entries []Entry
}

func NewTable(entries []Entry) *Table {
	return &Table{entries: entries}
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Entry returns the entry at index i.
func (t *Table) Entry(i int) (*Entry, error) {
	if i < 0 || i >= len(t.entries) {
		return nil, errors.IndexOutOfRange(errors.PhaseResolve, i, len(t.entries))
	}
	return &t.entries[i], nil
}

func (t *Table) Construct(i int, dst, src unsafe.Pointer) error {
	e, err := t.Entry(i)
	if err != nil {
		return err
	}
	return e.Construct(dst, src)
}

// Destroy runs the destructor of alternative i. Alternatives without one are
// trivially destructible and nothing runs.
func (t *Table) Destroy(i int, p unsafe.Pointer) {
	if i < 0 || i >= len(t.entries) {
		return
	}
	if d := t.entries[i].Destroy; d != nil {
		d(p)
	}
}

func (t *Table) Copy(i int, dst, src unsafe.Pointer) error {
	e, err := t.Entry(i)
	if err != nil {
		return err
	}
	if e.Copy == nil {
		return errors.NotCopyable(errors.PhaseConstruct, e.Name)
	}
	return e.Copy(dst, src)
}

func (t *Table) Move(i int, dst, src unsafe.Pointer) error {
	e, err := t.Entry(i)
	if err != nil {
		return err
	}
	return e.Move(dst, src)
}

// CopyAssign assigns src over the live dst in place. It reports false without
// running anything when alternative i has no in-place copy assignment.
func (t *Table) CopyAssign(i int, dst, src unsafe.Pointer) (bool, error) {
	e, err := t.Entry(i)
	if err != nil {
		return false, err
	}
	if e.CopyAssign == nil {
		return false, nil
	}
	return true, e.CopyAssign(dst, src)
}

// MoveAssign is the move counterpart of CopyAssign.
func (t *Table) MoveAssign(i int, dst, src unsafe.Pointer) (bool, error) {
	e, err := t.Entry(i)
	if err != nil {
		return false, err
	}
	if e.MoveAssign == nil {
		return false, nil
	}
	return true, e.MoveAssign(dst, src)
}

// Bitwise reports whether alternative i moves by plain transfer.
func (t *Table) Bitwise(i int) bool {
	if i < 0 || i >= len(t.entries) {
		return false
	}
	return t.entries[i].Bitwise
}
