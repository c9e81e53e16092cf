package submission

import "fmt"

// TransportError means the request never produced an HTTP response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("submission transport failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError means the webhook answered with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("submission rejected with status %d", e.StatusCode)
}

// UnrecognizedResponseError means the body was neither a report nor an
// acknowledgement.
type UnrecognizedResponseError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *UnrecognizedResponseError) Error() string {
	return fmt.Sprintf("unrecognized submission response: %v", e.Err)
}

func (e *UnrecognizedResponseError) Unwrap() error { return e.Err }
