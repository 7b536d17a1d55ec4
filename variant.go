package variant

import (
	"fmt"
	"reflect"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/variant/errors"
	"github.com/wippyai/variant/internal/abi"
	"github.com/wippyai/variant/internal/storage"
)

// Variant holds at most one live value of one of the alternatives of its Set.
//
// A Variant is a single-owner value: it performs no synchronization. Pointers
// returned by Get stay valid until the next operation that changes the active
// alternative. Go has no destructors, so owners call Reset when a value with
// Destroy hooks goes out of use.
//
// The zero Variant is empty and belongs to the set with no alternatives.
// Variants are used through *Variant only; a copied Variant shares storage
// with the original. Use Clone or Take instead.
type Variant struct {
	_      noCopy
	set    *Set
	region storage.Region
}

// noCopy makes go vet's copylocks check report Variants copied by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// New returns an empty variant of s. A nil s is the set with no alternatives.
func New(s *Set) *Variant {
	v := &Variant{}
	v.init(s)
	return v
}

func (v *Variant) init(s *Set) {
	if s == nil {
		s = emptySet
	}
	v.set = s
	v.region.Init(&s.region)
}

// ensure initializes a zero Variant in place.
func (v *Variant) ensure() {
	if v.set == nil {
		v.init(emptySet)
	}
}

// Set returns the alternative set of v.
func (v *Variant) Set() *Set {
	v.ensure()
	return v.set
}

// Index returns the active alternative index, or -1 when v is empty.
func (v *Variant) Index() int {
	return v.region.Index()
}

// Empty reports whether v holds no live value.
func (v *Variant) Empty() bool {
	return v.region.Empty()
}

// Alternative returns the active alternative.
func (v *Variant) Alternative() (Alternative, bool) {
	if v.region.Empty() {
		return Alternative{}, false
	}
	return v.set.alts[v.region.Index()], true
}

// Reset destroys the live value, if any, and leaves v empty.
func (v *Variant) Reset() {
	v.destroy()
}

// Clone copy-constructs a new variant from v. An empty v yields an empty
// clone.
func (v *Variant) Clone() (*Variant, error) {
	v.ensure()
	out := New(v.set)
	i, src := v.region.Index(), v.region.Ptr()
	if i < 0 {
		return out, nil
	}
	if err := out.copyIn(errors.PhaseConstruct, i, src); err != nil {
		return nil, err
	}
	return out, nil
}

// Take move-constructs a new variant from v. v is empty afterwards in every
// case. If the move hook fails, the value left in v is destroyed and the
// error returned.
func (v *Variant) Take() (*Variant, error) {
	v.ensure()
	out := New(v.set)
	if err := out.moveIn(errors.PhaseConstruct, v); err != nil {
		return nil, err
	}
	return out, nil
}

// CopyFrom copy-assigns o to v. Both must share a Set.
//
// When both hold the same alternative and it declares a copy-assign hook,
// the hook assigns in place and a failure keeps the current value. Otherwise
// the current value is destroyed first and a copy of o's value constructed;
// if that fails v is left empty. The previous value is never restored.
func (v *Variant) CopyFrom(o *Variant) error {
	if o == v {
		return nil
	}
	v.ensure()
	o.ensure()
	if o.set != v.set {
		return errors.SetMismatch(errors.PhaseAssign)
	}

	j := o.region.Index()
	if j < 0 {
		v.destroy()
		return nil
	}

	if entry, _ := v.set.table.Entry(j); entry.Copy == nil {
		return errors.NotCopyable(errors.PhaseAssign, v.set.alts[j].Name())
	}

	if v.region.Index() == j {
		handled, err := v.set.table.CopyAssign(j, v.region.Ptr(), o.region.Ptr())
		if handled {
			if err != nil {
				return errors.HookFailed(errors.PhaseAssign, v.set.alts[j].Name(), err)
			}
			return nil
		}
	}

	v.destroy()
	return v.copyIn(errors.PhaseAssign, j, o.region.Ptr())
}

// MoveFrom move-assigns o to v. Both must share a Set. o is empty afterwards
// in every case.
//
// When both hold the same alternative and it declares a move-assign hook, the
// hook assigns in place. Otherwise the current value is destroyed and o's
// value moved in; if the move fails v is left empty.
func (v *Variant) MoveFrom(o *Variant) error {
	if o == v {
		return nil
	}
	v.ensure()
	o.ensure()
	if o.set != v.set {
		return errors.SetMismatch(errors.PhaseAssign)
	}

	j := o.region.Index()
	if j < 0 {
		v.destroy()
		return nil
	}

	if v.region.Index() == j {
		handled, err := v.set.table.MoveAssign(j, v.region.Ptr(), o.region.Ptr())
		if handled {
			if err != nil {
				o.destroy()
				return errors.HookFailed(errors.PhaseAssign, v.set.alts[j].Name(), err)
			}
			o.region.Detach()
			o.region.Release()
			return nil
		}
	}

	v.destroy()
	return v.moveIn(errors.PhaseAssign, o)
}

// EmplaceValue assigns val as alternative index. The dynamic type of val must
// be exactly the alternative's type. The current value is destroyed before
// the new one is constructed; if construction fails v is left empty.
func (v *Variant) EmplaceValue(index int, val any) error {
	v.ensure()
	t := reflect.TypeOf(val)
	// interface alternatives accept any implementation, including nil
	if a, ok := v.set.Alternative(index); ok && a.typ.Kind() == reflect.Interface {
		if t == nil || t.Implements(a.typ) {
			t = a.typ
		}
	}
	if err := v.set.checkIndex(errors.PhaseResolve, index, t); err != nil {
		return err
	}
	rv := reflect.New(t)
	if val != nil {
		rv.Elem().Set(reflect.ValueOf(val))
	}
	return v.emplace(index, rv.UnsafePointer())
}

// Interface returns a copy of the live value, or nil when v is empty.
func (v *Variant) Interface() any {
	if v.region.Empty() {
		return nil
	}
	t := v.set.alts[v.region.Index()].typ
	return reflect.NewAt(t, v.region.Ptr()).Elem().Interface()
}

// String renders v as its set followed by the live value.
func (v *Variant) String() string {
	v.ensure()
	if v.region.Empty() {
		return v.set.String() + "{}"
	}
	return fmt.Sprintf("%s{%d: %v}", v.set, v.region.Index(), v.Interface())
}

// emplace destroys the live value and constructs alternative i from the
// value at src.
func (v *Variant) emplace(i int, src unsafe.Pointer) error {
	v.destroy()
	return v.construct(errors.PhaseConstruct, i, src)
}

// construct builds alternative i from src into empty storage. The
// discriminator is committed only after the hook succeeded.
func (v *Variant) construct(phase errors.Phase, i int, src unsafe.Pointer) error {
	dst := v.region.Reserve(i)
	if err := v.set.table.Construct(i, dst, src); err != nil {
		v.region.Release()
		return v.hookError(phase, i, err)
	}
	v.region.Commit(i)
	v.trace("construct", i)
	return nil
}

func (v *Variant) copyIn(phase errors.Phase, i int, src unsafe.Pointer) error {
	dst := v.region.Reserve(i)
	if err := v.set.table.Copy(i, dst, src); err != nil {
		v.region.Release()
		return v.hookError(phase, i, err)
	}
	v.region.Commit(i)
	v.trace("copy", i)
	return nil
}

// moveIn transfers the live value of o into empty v and leaves o empty.
func (v *Variant) moveIn(phase errors.Phase, o *Variant) error {
	i := o.region.Index()
	if i < 0 {
		return nil
	}

	if o.region.Boxed(i) && v.set.table.Bitwise(i) {
		v.region.Adopt(&o.region)
		v.trace("adopt", i)
		return nil
	}

	dst := v.region.Reserve(i)
	_, src := o.region.Detach()
	if err := v.set.table.Move(i, dst, src); err != nil {
		v.region.Release()
		v.set.table.Destroy(i, src)
		o.region.Release()
		return v.hookError(phase, i, err)
	}
	v.region.Commit(i)
	o.region.Release()
	v.trace("move", i)
	return nil
}

// destroy clears the discriminator, runs the destructor of the detached
// object and releases its memory.
func (v *Variant) destroy() {
	i, p := v.region.Detach()
	if i < 0 {
		return
	}
	v.set.table.Destroy(i, p)
	v.region.Release()
	v.trace("destroy", i)
}

func (v *Variant) hookError(phase errors.Phase, i int, err error) error {
	// table errors are already classified
	if e, ok := err.(*errors.Error); ok && (e.Kind == errors.KindNotCopyable || e.Kind == errors.KindIndexOutOfRange) {
		return e
	}
	name := abi.TypeName(nil)
	if i >= 0 && i < len(v.set.alts) {
		name = v.set.alts[i].Name()
	}
	return errors.HookFailed(phase, name, err)
}

func (v *Variant) trace(event string, i int) {
	if ce := v.set.log().Check(zap.DebugLevel, event); ce != nil {
		ce.Write(
			zap.Int("index", i),
			zap.String("alternative", v.set.alts[i].Name()),
		)
	}
}
