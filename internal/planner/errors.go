package planner

import "fmt"

// RequestFailedError reports a non-2xx reply from the planning engine.
type RequestFailedError struct {
	StatusCode int
	Status     string
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("plan request failed: %s", e.Status)
}

// TransportError reports that the request never produced an HTTP response
// (DNS, connection, context deadline).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("plan request transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
