package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-web-server/internal/service"
	"github.com/MKhiriev/go-web-server/internal/session"
)

// ErrorTranslator turns an error into the status and body of the error
// response.
type ErrorTranslator interface {
	Translate(err error) (status int, body any)
}

// ErrorTranslatorFunc adapts a function to [ErrorTranslator].
type ErrorTranslatorFunc func(err error) (int, any)

// Translate implements [ErrorTranslator].
func (f ErrorTranslatorFunc) Translate(err error) (int, any) {
	return f(err)
}

// ErrorBody is the JSON body of error responses.
type ErrorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

var errorStatusMap = map[error]int{
	ErrNotFound:          http.StatusNotFound,
	ErrMalformedBody:     http.StatusBadRequest,
	ErrBodyTooLarge:      http.StatusRequestEntityTooLarge,
	ErrInsecureTransport: http.StatusForbidden,
	ErrRateLimited:       http.StatusTooManyRequests,

	service.ErrInvalidToken:        http.StatusUnauthorized,
	service.ErrInvalidDataProvided: http.StatusBadRequest,

	session.ErrDecodingValues:   http.StatusInternalServerError,
	session.ErrEncodingValues:   http.StatusInternalServerError,
	session.ErrStoreNotMigrated: http.StatusInternalServerError,
}

func statusFromError(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Status != 0 {
		return httpErr.Status
	}

	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// DefaultTranslator maps errors through the package status table.
//
// *HTTPError values keep their status and message. Other client errors
// expose the error text; server errors only expose the status text.
var DefaultTranslator ErrorTranslator = ErrorTranslatorFunc(translate)

func translate(err error) (int, any) {
	status := statusFromError(err)

	message := http.StatusText(status)
	var httpErr *HTTPError
	switch {
	case errors.As(err, &httpErr) && httpErr.Message != "":
		message = httpErr.Message
	case status < http.StatusInternalServerError && err != nil:
		message = err.Error()
	}

	return status, ErrorBody{Error: message, Status: status}
}
