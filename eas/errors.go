package eas

import (
	"errors"
	"fmt"
)

// ErrInvalidRange rejects a malformed time filter before any network call.
var ErrInvalidRange = errors.New("invalid time range: start must be before end")

// TransportError is a non-success gateway response. It aborts the whole
// fetch; no partial results survive it.
type TransportError struct {
	Status int
	Body   string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gateway request failed with status %d: %s", e.Status, e.Body)
}

// DecodeError is a payload that does not match its schema. Fatal to the
// single record only, never to a batch.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decoding payload: %s: %v", e.Reason, e.Err)
	}
	return "decoding payload: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DuplicateFieldError is returned when collapsing decoded fields to a
// name->value map and the schema repeats a field name.
type DuplicateFieldError struct {
	Name string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("schema repeats field name %q", e.Name)
}
