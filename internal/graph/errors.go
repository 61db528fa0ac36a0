package graph

import "fmt"

const upstreamName = "graph backend"

// TransportError means the backend could not be reached or did not answer
// in time. Timeout is set when the request deadline expired.
type TransportError struct {
	Op      string
	Timeout bool
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Upstream() string {
	return upstreamName
}

// APIError means the backend answered with a non-2xx status or a body that
// could not be decoded.
type APIError struct {
	Status  int
	Message string
	Code    string
	Details map[string]any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("graph api error (%d): %s", e.Status, e.Message)
}

func (e *APIError) Upstream() string {
	return upstreamName
}
