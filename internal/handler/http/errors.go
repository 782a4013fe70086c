// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors produced by the pipeline stages. Callers can match against
// them with [errors.Is].
var (
	// ErrNotFound is reported by the catchall for requests no route handled.
	ErrNotFound = errors.New("not found")

	// ErrMalformedBody is returned when a request body cannot be decoded.
	ErrMalformedBody = errors.New("malformed request body")

	// ErrBodyTooLarge is returned when a request body exceeds the limit.
	ErrBodyTooLarge = errors.New("request body too large")

	// ErrInsecureTransport is returned when a non-idempotent request arrives
	// over plain HTTP while TLS is enforced.
	ErrInsecureTransport = errors.New("secure transport required")

	// ErrRateLimited is returned when a client exceeds the request rate.
	ErrRateLimited = errors.New("too many requests")

	// ErrInvalidPipeline is returned by NewPipeline for incomplete options.
	ErrInvalidPipeline = errors.New("invalid pipeline options")
)

// HTTPError is an error carrying its own response status. Route handlers
// return it to choose the status and message of the error response.
type HTTPError struct {
	Status  int
	Message string
	Err     error
}

// NewHTTPError returns an HTTPError with the given status. An empty message
// defaults to the status text.
func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

// Error implements error.
func (e *HTTPError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped error.
func (e *HTTPError) Unwrap() error {
	return e.Err
}
