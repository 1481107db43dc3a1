// Package apperrors defines the error taxonomy shared across services and
// handlers: NotFound maps to 404, validation failures map to 400, and
// external-service failures are wrapped so the HTTP boundary can answer 502
// instead of crashing the request. Missing identity is not an error here;
// page routes render the login view instead.
package apperrors

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// ExternalError wraps a failure from an external collaborator (document
// store, blob store). It carries the collaborator name for logging.
type ExternalError struct {
	Service string
	Err     error
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalError) Unwrap() error { return e.Err }

// External wraps err as an ExternalError unless it is already part of the
// taxonomy (NotFound passes through untouched).
func External(service string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	var ee *ExternalError
	if errors.As(err, &ee) {
		return err
	}
	return &ExternalError{Service: service, Err: err}
}

// IsExternal reports whether err originated from an external collaborator.
func IsExternal(err error) bool {
	var ee *ExternalError
	return errors.As(err, &ee)
}
