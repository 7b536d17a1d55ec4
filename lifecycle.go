package variant

// Destroyer is implemented by alternatives that release something when their
// value ends. Destroy is called on the live object exactly once, when the
// variant is reset, reassigned, or after a failed move.
type Destroyer interface {
	Destroy()
}

// Copier is implemented by alternatives that need more than Go assignment to
// produce an independent copy. dst is zeroed memory on entry.
type Copier[T any] interface {
	CopyFrom(src *T) error
}

// Mover is implemented by alternatives that need more than Go assignment to
// transfer ownership. dst is zeroed memory on entry; src is released without
// Destroy afterwards.
type Mover[T any] interface {
	MoveFrom(src *T) error
}

// Hooks is the lifecycle of an alternative of type T. Nil hooks fall back to
// methods detected on *T, then to Go assignment. Destroy defaults to nothing.
type Hooks[T any] struct {
	// Construct builds a new object in zeroed dst from a value handed over by
	// the caller.
	Construct func(dst *T, v T) error
	Destroy   func(p *T)
	Copy      func(dst, src *T) error
	Move      func(dst, src *T) error
	// CopyAssign and MoveAssign assign over a live object of the same
	// alternative. Without them, assignment destroys and reconstructs.
	CopyAssign func(dst, src *T) error
	MoveAssign func(dst, src *T) error
	Name       string
	NoCopy     bool
}

// AltOption configures the hooks of one alternative.
type AltOption[T any] func(h *Hooks[T])

func OnConstruct[T any](fn func(dst *T, v T) error) AltOption[T] {
	return func(h *Hooks[T]) { h.Construct = fn }
}

func OnDestroy[T any](fn func(p *T)) AltOption[T] {
	return func(h *Hooks[T]) { h.Destroy = fn }
}

func OnCopy[T any](fn func(dst, src *T) error) AltOption[T] {
	return func(h *Hooks[T]) { h.Copy = fn }
}

func OnMove[T any](fn func(dst, src *T) error) AltOption[T] {
	return func(h *Hooks[T]) { h.Move = fn }
}

func OnCopyAssign[T any](fn func(dst, src *T) error) AltOption[T] {
	return func(h *Hooks[T]) { h.CopyAssign = fn }
}

func OnMoveAssign[T any](fn func(dst, src *T) error) AltOption[T] {
	return func(h *Hooks[T]) { h.MoveAssign = fn }
}

// NoCopy marks the alternative as move-only. Clone and CopyFrom fail with
// KindNotCopyable while it is active.
func NoCopy[T any]() AltOption[T] {
	return func(h *Hooks[T]) { h.NoCopy = true }
}

// Named labels the alternative, for example with a WIT case name.
func Named[T any](name string) AltOption[T] {
	return func(h *Hooks[T]) { h.Name = name }
}

// WithHooks replaces every hook at once.
func WithHooks[T any](hooks Hooks[T]) AltOption[T] {
	return func(h *Hooks[T]) { *h = hooks }
}

// resolve fills unset hooks from methods on *T and Go assignment.
func (h *Hooks[T]) resolve() {
	var probe T
	p := any(&probe)

	if h.Destroy == nil {
		if _, ok := p.(Destroyer); ok {
			h.Destroy = func(p *T) { any(p).(Destroyer).Destroy() }
		}
	}
	if h.Copy == nil && !h.NoCopy {
		if _, ok := p.(Copier[T]); ok {
			h.Copy = func(dst, src *T) error { return any(dst).(Copier[T]).CopyFrom(src) }
		} else {
			h.Copy = func(dst, src *T) error {
				*dst = *src
				return nil
			}
		}
	}
	if h.NoCopy {
		h.Copy = nil
		h.CopyAssign = nil
	}
	if h.Move == nil {
		if _, ok := p.(Mover[T]); ok {
			h.Move = func(dst, src *T) error { return any(dst).(Mover[T]).MoveFrom(src) }
		}
	}
	if h.Construct == nil {
		if move := h.Move; move != nil {
			h.Construct = func(dst *T, v T) error { return move(dst, &v) }
		} else {
			h.Construct = func(dst *T, v T) error {
				*dst = v
				return nil
			}
		}
	}
}

// bitwise reports whether moves are plain transfers. Call after resolve.
func (h *Hooks[T]) bitwise() bool {
	return h.Move == nil
}
