package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument covers missing or malformed fields, empty required
	// collections, out-of-range values and unknown enumeration values.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound is returned when a referenced id does not resolve.
	ErrNotFound = errors.New("not found")
)

// OpError is an expected domain failure. Its message is shown to the caller
// as is, so it must not leak store internals.
type OpError struct {
	Kind error
	Msg  string
}

func (e *OpError) Error() string {
	return e.Msg
}

func (e *OpError) Unwrap() error {
	return e.Kind
}

func invalidArgument(format string, args ...interface{}) error {
	return &OpError{Kind: ErrInvalidArgument, Msg: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...interface{}) error {
	return &OpError{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}
