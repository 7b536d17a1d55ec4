package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDeclare   Phase = "declare"   // alternative set declaration
	PhaseResolve   Phase = "resolve"   // type to index resolution
	PhaseConstruct Phase = "construct" // construction into empty storage
	PhaseAssign    Phase = "assign"    // assignment over a live value
	PhaseAccess    Phase = "access"    // typed access to the live value
	PhaseLower     Phase = "lower"     // Go to linear memory
	PhaseLift      Phase = "lift"      // linear memory to Go
	PhaseParse     Phase = "parse"     // WIT loading
)

// Kind categorizes the error
type Kind string

const (
	KindNoAlternative   Kind = "no_alternative"
	KindAmbiguous       Kind = "ambiguous"
	KindIndexOutOfRange Kind = "index_out_of_range"
	KindTypeMismatch    Kind = "type_mismatch"
	KindInactive        Kind = "inactive"
	KindNotCopyable     Kind = "not_copyable"
	KindSetMismatch     Kind = "set_mismatch"
	KindHookFailed      Kind = "hook_failed"
	KindUnsupported     Kind = "unsupported"
	KindOutOfBounds     Kind = "out_of_bounds"
	KindInvalidVariant  Kind = "invalid_variant"
	KindInvalidUTF8     Kind = "invalid_utf8"
	KindInvalidData     Kind = "invalid_data"
	KindNotInitialized  Kind = "not_initialized"
	KindAllocation      Kind = "allocation"
	KindInvalidInput    Kind = "invalid_input"
	KindNilPointer      Kind = "nil_pointer"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value   any
	Cause   error
	Phase   Phase
	Kind    Kind
	GoType  string
	WitType string
	Detail  string
	Path    []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.WitType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.WitType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", WIT type ")
			b.WriteString(e.WitType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("WIT type ")
			b.WriteString(e.WitType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.WitType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the case path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// WitType sets the WIT type name
func (b *Builder) WitType(t string) *Builder {
	b.err.WitType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NoAlternative creates an error for a type that matches no declared alternative
func NoAlternative(phase Phase, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNoAlternative,
		GoType: goType,
		Detail: "type is not a declared alternative",
	}
}

// Ambiguous creates an error for a duplicated type supplied without an index
func Ambiguous(phase Phase, goType string, indices []int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAmbiguous,
		GoType: goType,
		Detail: fmt.Sprintf("type matches alternatives %v, an explicit index is required", indices),
		Value:  indices,
	}
}

// IndexOutOfRange creates an error for an alternative index outside the set
func IndexOutOfRange(phase Phase, index, count int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIndexOutOfRange,
		Detail: fmt.Sprintf("alternative index %d out of range (count %d)", index, count),
		Value:  index,
	}
}

// TypeMismatch creates an error for a value whose type differs from the alternative at an index
func TypeMismatch(phase Phase, index int, goType, want string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		GoType: goType,
		Detail: fmt.Sprintf("alternative %d has type %s", index, want),
		Value:  index,
	}
}

// Inactive creates an error for access to an alternative that is not live
func Inactive(goType string, active int) *Error {
	detail := "variant is empty"
	if active >= 0 {
		detail = fmt.Sprintf("active alternative is %d", active)
	}
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindInactive,
		GoType: goType,
		Detail: detail,
		Value:  active,
	}
}

// NotCopyable creates an error for copying an alternative declared non-copyable
func NotCopyable(phase Phase, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotCopyable,
		GoType: goType,
		Detail: "alternative is not copyable",
	}
}

// SetMismatch creates an error for an operation between variants of different sets
func SetMismatch(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindSetMismatch,
		Detail: "variants belong to different alternative sets",
	}
}

// HookFailed wraps an error returned by a lifecycle hook
func HookFailed(phase Phase, goType string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindHookFailed,
		GoType: goType,
		Cause:  cause,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// InvalidDiscriminant creates an invalid discriminant error for variants/enums
func InvalidDiscriminant(phase Phase, path []string, disc uint32, maxValid uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidVariant,
		Path:   path,
		Detail: fmt.Sprintf("discriminant %d out of range (max %d)", disc, maxValid),
		Value:  disc,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// OutOfBounds creates an out of bounds memory access error
func OutOfBounds(phase Phase, path []string, offset, length uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("memory access at %d (length %d) out of bounds", offset, length),
		Value:  offset,
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Detail: fmt.Sprintf("%s is nil", what),
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// NotInitialized creates a not-initialized error
func NotInitialized(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", what),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}
