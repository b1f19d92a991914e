package services

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a request that failed input validation
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a missing customer or loan
	ErrNotFound = errors.New("not found")
)

// RequestError carries a client-facing message and its error kind
type RequestError struct {
	Kind    error
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Kind
}

func validationError(format string, args ...any) error {
	return &RequestError{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func notFoundError(format string, args ...any) error {
	return &RequestError{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}
