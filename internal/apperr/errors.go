package apperr

import (
	"fmt"
	"time"
)

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// NotFoundError reports that a valid resource has no data yet,
// e.g. a retriever whose evaluation run has not been produced.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// RemoteFetchError carries the upstream status and body for diagnostics.
// The body is never sent to API clients.
type RemoteFetchError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *RemoteFetchError) Error() string {
	msg := fmt.Sprintf("remote fetch failed (%d): %s", e.StatusCode, e.Body)
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *RemoteFetchError) Unwrap() error {
	return e.Err
}

func NewRemoteFetch(status int, body string, err error) *RemoteFetchError {
	return &RemoteFetchError{StatusCode: status, Body: body, Err: err}
}

type RowError struct {
	Line int
	Err  error
}

func (r RowError) String() string {
	return fmt.Sprintf("line %d: %v", r.Line, r.Err)
}

// ParseError collects row-level problems found while reading a delimited file.
type ParseError struct {
	File string
	Rows []RowError
}

func (e *ParseError) Error() string {
	if len(e.Rows) == 0 {
		return fmt.Sprintf("parse %s: malformed input", e.File)
	}
	return fmt.Sprintf("parse %s: %d malformed rows, first: %s", e.File, len(e.Rows), e.Rows[0])
}

func NewParse(file string, rows []RowError) *ParseError {
	return &ParseError{File: file, Rows: rows}
}

type TimeoutError struct {
	Op      string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Op, e.Timeout)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

func NewTimeout(op string, timeout time.Duration, err error) *TimeoutError {
	return &TimeoutError{Op: op, Timeout: timeout, Err: err}
}
