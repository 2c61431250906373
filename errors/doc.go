// Package errors provides structured error types for the protoobj library.
//
// Errors are categorized by Phase (which component raised them) and Kind
// (error category). The Error type carries the offending property key, a
// detail message, an optional value and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseStore, errors.KindInvalidArgument).
//		Key("name").
//		Detail("payload too large: %d bytes", n).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Cycle("child", "root")
//	err := errors.AllocationFailed(errors.PhaseArena, 1024, 8)
//
// Lookup misses are not errors in this library; accessors report absence
// with a boolean. All errors implement the standard error interface and
// support errors.Is/As:
//
//	if errors.Is(err, errors.ErrCycle) { ... }
package errors
