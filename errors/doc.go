// Package errors provides structured error types for the variant module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: case path, Go/WIT type names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseAccess, errors.KindInactive).
//		GoType("float32").
//		Detail("active alternative is %d", idx).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NoAlternative(errors.PhaseResolve, "string")
//	err := errors.IndexOutOfRange(errors.PhaseResolve, 3, 2)
//
// All errors implement the standard error interface and support errors.Is/As.
// Is matches on Phase and Kind only, so a bare &Error{Phase, Kind} works as a
// sentinel.
package errors
