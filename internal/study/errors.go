// Package study implements the session state machine, pool construction and
// the due-word query on top of the pure srs core and a persistence store.
package study

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies engine failures for callers. All kinds are synchronous
// caller errors with no retry semantics.
type ErrorKind int

const (
	// KindInternal is anything that is not the caller's fault.
	KindInternal ErrorKind = iota
	// KindConflict marks operations invalid in the current lifecycle state,
	// such as starting a second active session.
	KindConflict
	// KindNotFound marks references to sessions, items or words that do not
	// exist or belong to someone else.
	KindNotFound
	// KindInvalid marks malformed requests.
	KindInvalid
)

// Error is a structured engine error: a kind plus a message.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Conflictf builds a KindConflict error.
func Conflictf(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a KindNotFound error.
func NotFoundf(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Invalidf builds a KindInvalid error.
func Invalidf(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalid, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, unwrapping as needed. Unclassified errors
// report KindInternal.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
