package alpaca

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable reports a 2xx response whose payload lacks the
// expected shape (for example a bars response without a bars object).
var ErrDataUnavailable = errors.New("alpaca: response missing expected payload")

// APIError is a non-2xx response from the brokerage, with the status code
// attached so callers can log or map it.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("alpaca: api returned status %d: %s", e.StatusCode, e.Body)
}

// TransportError wraps connection, TLS and request-build failures.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("alpaca: transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError wraps a JSON deserialization failure.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("alpaca: decode error: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
