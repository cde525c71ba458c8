// Package errors provides structured error types for the component runtime.
//
// Every error carries a Phase (where processing was when it occurred) and a
// Kind (what went wrong), plus optional component/element names identifying
// the port, operation, or runnable involved. Errors compare by Phase and
// Kind under errors.Is, so callers can match categories without string
// inspection:
//
//	if stderrors.Is(err, &errors.Error{Phase: errors.PhaseRunnable, Kind: errors.KindNoValue}) {
//	    // a handler read a port before its first write
//	}
//
// IsKind matches on Kind alone anywhere in a wrap chain.
package errors
