// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package result provides the three-state outcome of an asynchronous operation.
//
// A Result is exactly one of Loading, Success or Error. Payloads are only
// reachable through the accessor for their own state, and Match requires a
// handler for every state so callers cannot forget one.
package result

import "fmt"

// Status identifies which state a Result is in.
type Status int

const (
	// StatusLoading is the zero value: the operation is in flight.
	StatusLoading Status = iota
	// StatusSuccess means the operation finished and produced a value.
	StatusSuccess
	// StatusError means the operation finished with a user-facing message.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is an immutable value; copies never alias each other.
type Result[T any] struct {
	status  Status
	value   T
	message string
}

// Loading returns the in-flight state. It carries no payload.
func Loading[T any]() Result[T] {
	return Result[T]{status: StatusLoading}
}

// Success returns a terminal state holding v.
func Success[T any](v T) Result[T] {
	return Result[T]{status: StatusSuccess, value: v}
}

// Error returns a terminal state holding a human-readable message.
func Error[T any](message string) Result[T] {
	return Result[T]{status: StatusError, message: message}
}

// Status reports the active state.
func (r Result[T]) Status() Status { return r.status }

// IsLoading reports whether r is the in-flight state.
func (r Result[T]) IsLoading() bool { return r.status == StatusLoading }

// IsSuccess reports whether r finished with a value.
func (r Result[T]) IsSuccess() bool { return r.status == StatusSuccess }

// IsError reports whether r finished with a message.
func (r Result[T]) IsError() bool { return r.status == StatusError }

// IsTerminal reports whether no further state follows r.
func (r Result[T]) IsTerminal() bool { return r.status != StatusLoading }

// Value returns the success payload. ok is false for any other state.
func (r Result[T]) Value() (v T, ok bool) {
	if r.status != StatusSuccess {
		var zero T
		return zero, false
	}
	return r.value, true
}

// Message returns the error message. ok is false for any other state.
func (r Result[T]) Message() (string, bool) {
	if r.status != StatusError {
		return "", false
	}
	return r.message, true
}

func (r Result[T]) String() string {
	switch r.status {
	case StatusError:
		return fmt.Sprintf("error(%s)", r.message)
	default:
		return r.status.String()
	}
}

// Match calls the handler for the active state and returns its value.
func Match[T, R any](r Result[T], loading func() R, success func(T) R, failure func(string) R) R {
	switch r.status {
	case StatusSuccess:
		return success(r.value)
	case StatusError:
		return failure(r.message)
	default:
		return loading()
	}
}

// Last drains ch and returns the final value received, which is the terminal
// state for a well-behaved producer. It blocks until ch is closed.
func Last[T any](ch <-chan Result[T]) Result[T] {
	last := Loading[T]()
	for r := range ch {
		last = r
	}
	return last
}
