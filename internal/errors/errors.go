// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. Commands use the kind to decide how a failure is
// presented; the message is the only text a user ever sees.
//
// The package supports wrapping underlying errors while maintaining error kind information,
// so errors.Is / errors.As from the standard library keep working on the cause.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// Validation indicates caller-supplied credentials were malformed.
	// It is raised before any network attempt.
	Validation Kind = "validation"
	// Authentication indicates the server rejected the credentials or request (4xx).
	Authentication Kind = "authentication"
	// Server indicates the server failed to process the request (5xx).
	Server Kind = "server"
	// Transport indicates no response reached the client.
	Transport Kind = "transport"
	// Initialization indicates a backing store could not be opened.
	Initialization Kind = "initialization"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the kind of the first *E in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
