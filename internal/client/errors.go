package client

import (
	"errors"
	"fmt"
)

// ErrResponseTooLarge is returned instead of a silently truncated body
var ErrResponseTooLarge = errors.New("response body exceeds 8 MiB limit")

// TransportError represents a connection or TLS failure before a response arrived
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError represents a non-2xx response from the domain server
type ServerError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s failed with code %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s failed with code %d: %s", e.Op, e.StatusCode, e.Body)
}

// DecodeError represents a success response whose body does not match the expected shape
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to parse %s response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
