package services

import (
	"errors"
	"fmt"
)

// Sentinel errors raised synchronously by services. Handlers map these onto
// HTTP statuses; background pipeline failures never reach a caller and are
// only logged.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)

// StorageError wraps a persistence failure with the operation that caused it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// UpstreamStatusError reports a non-2xx response from the NLP service.
type UpstreamStatusError struct {
	Status int
	Body   string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("nlp service returned %d: %s", e.Status, e.Body)
}

// UpstreamUnavailableError reports a connection or timeout failure reaching
// the NLP service.
type UpstreamUnavailableError struct {
	Err error
}

func (e *UpstreamUnavailableError) Error() string {
	return fmt.Sprintf("nlp service unreachable: %v", e.Err)
}

func (e *UpstreamUnavailableError) Unwrap() error { return e.Err }

// UpstreamContractError reports a 2xx NLP response whose body is missing an
// expected field or carries a value outside the documented contract.
type UpstreamContractError struct {
	Field string
	Raw   string
}

func (e *UpstreamContractError) Error() string {
	return fmt.Sprintf("nlp response missing or invalid field %q: %s", e.Field, e.Raw)
}
