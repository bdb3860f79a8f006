// Package errkind classifies failures of the remote feed and the local cache
// into the closed set of kinds the controllers store in observable state.
package errkind

import (
	"errors"
	"fmt"
)

// Kind is a classified failure category.
type Kind int

const (
	None Kind = iota
	RateLimited
	Unauthorized
	Unreachable
	CacheFault
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case RateLimited:
		return "rate_limited"
	case Unauthorized:
		return "unauthorized"
	case Unreachable:
		return "unreachable"
	case CacheFault:
		return "cache_fault"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error carries a Kind together with the operation that failed and, for
// HTTP failures, the response status.
type Error struct {
	Kind   Kind
	Op     string
	Status int
	Err    error
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.String()
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// E builds an *Error.
func E(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Of returns the Kind of err. Errors that were never classified count as
// Unreachable, nil as None.
func Of(err error) Kind {
	if err == nil {
		return None
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unreachable
}
