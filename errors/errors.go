package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which component raised the error
type Phase string

const (
	PhaseObject    Phase = "object"    // object lifecycle
	PhasePrototype Phase = "prototype" // prototype chain mutation
	PhaseStore     Phase = "store"     // property storage
	PhaseIntern    Phase = "intern"    // key interning
	PhaseArena     Phase = "arena"     // payload memory
	PhaseConfig    Phase = "config"    // runtime configuration
	PhaseResource  Phase = "resource"  // handle table
	PhaseShell     Phase = "shell"     // command shell
)

// Kind categorizes the error
type Kind string

const (
	KindCycle           Kind = "cycle"
	KindNotFound        Kind = "not_found"
	KindInvalidArgument Kind = "invalid_argument"
	KindAllocation      Kind = "allocation"
	KindOutOfBounds     Kind = "out_of_bounds"
	KindReleased        Kind = "released"
	KindClosed          Kind = "closed"
	KindForeign         Kind = "foreign"
)

// Sentinels for errors.Is. Matching compares Phase and Kind only.
var (
	ErrCycle    = &Error{Phase: PhasePrototype, Kind: KindCycle}
	ErrReleased = &Error{Phase: PhaseObject, Kind: KindReleased}
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Key    string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Key != "" {
		b.WriteString(" at key ")
		b.WriteString(fmt.Sprintf("%q", e.Key))
	}

	if e.Detail != "" {
		b.WriteString(": ")
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

// Key sets the property key involved
func (b *Builder) Key(key string) *Builder {
	b.err.Key = key
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

// Cycle creates a prototype cycle error. target is the object whose
// prototype was being set, proto the rejected prototype; either may be empty.
func Cycle(target, proto string) *Error {
	detail := "prototype link would create a cycle"
	if target != "" && proto != "" {
		detail = fmt.Sprintf("setting prototype of %s to %s would create a cycle", target, proto)
	}
	return &Error{
		Phase:  PhasePrototype,
		Kind:   KindCycle,
		Detail: detail,
	}
}

// InvalidArgument creates an invalid argument error
func InvalidArgument(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidArgument,
		Detail: detail,
	}
}

// InvalidKey creates an invalid argument error for an unusable property key
func InvalidKey(phase Phase, key string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidArgument,
		Key:    key,
		Detail: "key must be non-empty",
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
		Value:  size,
	}
}

// OutOfBounds creates an out of bounds memory access error
func OutOfBounds(phase Phase, offset, length, size uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("range [%d, %d) out of bounds (size %d)", offset, uint64(offset)+uint64(length), size),
		Value:  offset,
	}
}

// Released creates an error for a mutation attempted on a destroyed object
func Released(key string) *Error {
	return &Error{
		Phase:  PhaseObject,
		Kind:   KindReleased,
		Key:    key,
		Detail: "object has been released",
	}
}

// Closed creates an error for use of a closed component
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s closed", what),
	}
}

// Foreign creates an error for objects that belong to a different runtime
func Foreign(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindForeign,
		Detail: detail,
	}
}

// NotFound creates a not-found error. Library accessors never return it;
// it exists for front ends such as the shell that must report misses.
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
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
