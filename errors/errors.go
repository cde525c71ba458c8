package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseConstruct Phase = "construct" // skeleton construction
	PhaseWiring    Phase = "wiring"    // port/operation binding
	PhaseDispatch  Phase = "dispatch"  // event delivery
	PhaseRunnable  Phase = "runnable"  // handler execution
	PhaseConfig    Phase = "config"    // network description loading
)

// Kind categorizes the error
type Kind string

const (
	KindNoValue       Kind = "no_value"       // port read before first write
	KindUnbound       Kind = "unbound"        // required element with no provider
	KindDuplicateName Kind = "duplicate_name" // name already registered
	KindTypeMismatch  Kind = "type_mismatch"  // payload type assertion failed
	KindInvariant     Kind = "invariant"      // user-supplied function broke a state invariant
	KindQueueFull     Kind = "queue_full"     // event queue capacity exceeded
	KindNotFound      Kind = "not_found"      // named element does not exist
	KindInvalidInput  Kind = "invalid_input"  // bad argument or configuration
	KindStopped       Kind = "stopped"        // runtime no longer accepting work
)

// Error is the structured error type used throughout the library
type Error struct {
	Value     any
	Cause     error
	Phase     Phase
	Kind      Kind
	Component string
	Element   string // port, operation, or runnable name
	Detail    string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Component != "" || e.Element != "" {
		b.WriteString(" at ")
		if e.Component != "" && e.Element != "" {
			b.WriteString(e.Component)
			b.WriteByte('.')
			b.WriteString(e.Element)
		} else if e.Component != "" {
			b.WriteString(e.Component)
		} else {
			b.WriteString(e.Element)
		}
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

// Component sets the owning component name
func (b *Builder) Component(name string) *Builder {
	b.err.Component = name
	return b
}

// Element sets the port, operation, or runnable name
func (b *Builder) Element(name string) *Builder {
	b.err.Element = name
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

// NoValue reports a read of a port that has never been written.
func NoValue(component, port string) *Error {
	return &Error{
		Phase:     PhaseRunnable,
		Kind:      KindNoValue,
		Component: component,
		Element:   port,
		Detail:    "port has no value yet",
	}
}

// Unbound reports a required element with no bound provider.
func Unbound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindUnbound,
		Element: name,
		Detail:  fmt.Sprintf("%s %q is not bound to a provider", what, name),
	}
}

// DuplicateName reports a name collision during registration.
func DuplicateName(phase Phase, what, name string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindDuplicateName,
		Element: name,
		Detail:  fmt.Sprintf("%s %q already registered", what, name),
	}
}

// TypeMismatch reports a payload whose dynamic type does not match the
// declared element type.
func TypeMismatch(phase Phase, element, want string, got any) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindTypeMismatch,
		Element: element,
		Detail:  fmt.Sprintf("want %s, got %T", want, got),
		Value:   got,
	}
}

// Invariant reports a state invariant broken by a user-supplied function.
func Invariant(component, detail string) *Error {
	return &Error{
		Phase:     PhaseRunnable,
		Kind:      KindInvariant,
		Component: component,
		Detail:    detail,
	}
}

// QueueFull reports that the event queue rejected a submission.
func QueueFull(capacity int) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindQueueFull,
		Detail: fmt.Sprintf("event queue full (capacity %d)", capacity),
	}
}

// NotFound reports a reference to an element that was never created.
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindNotFound,
		Element: name,
		Detail:  fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput reports a bad argument or configuration value.
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Stopped reports an operation attempted after the runtime stopped.
func Stopped(detail string) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindStopped,
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

// IsKind reports whether err or any error in its chain is a structured
// error of the given kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == kind {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
