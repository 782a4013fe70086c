package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-web-server/internal/service"
	"github.com/MKhiriev/go-web-server/internal/session"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ErrNotFound, http.StatusNotFound},
		{"malformed body wrapped", fmt.Errorf("%w: eof", ErrMalformedBody), http.StatusBadRequest},
		{"body too large", ErrBodyTooLarge, http.StatusRequestEntityTooLarge},
		{"insecure transport", ErrInsecureTransport, http.StatusForbidden},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests},
		{"invalid token", fmt.Errorf("auth: %w", service.ErrInvalidToken), http.StatusUnauthorized},
		{"invalid data", service.ErrInvalidDataProvided, http.StatusBadRequest},
		{"store not migrated", session.ErrStoreNotMigrated, http.StatusInternalServerError},
		{"http error keeps status", NewHTTPError(http.StatusConflict, "taken"), http.StatusConflict},
		{"wrapped http error", fmt.Errorf("outer: %w", &HTTPError{Status: http.StatusTeapot}), http.StatusTeapot},
		{"http error without status", &HTTPError{Err: ErrNotFound}, http.StatusNotFound},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}

func TestDefaultTranslator(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "client error exposes message",
			err:        fmt.Errorf("%w: unexpected EOF", ErrMalformedBody),
			wantStatus: http.StatusBadRequest,
			wantError:  "malformed request body: unexpected EOF",
		},
		{
			name:       "server error hides message",
			err:        errors.New("dial tcp 10.0.0.1:5432: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal Server Error",
		},
		{
			name:       "http error message is used as is",
			err:        &HTTPError{Status: http.StatusServiceUnavailable, Message: "maintenance", Err: errors.New("secret")},
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "maintenance",
		},
		{
			name:       "http error without message",
			err:        NewHTTPError(http.StatusUnprocessableEntity, ""),
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "Unprocessable Entity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := DefaultTranslator.Translate(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, ErrorBody{Error: tt.wantError, Status: tt.wantStatus}, body)
		})
	}
}

func TestHTTPError_Error(t *testing.T) {
	assert.Equal(t, "Not Found", NewHTTPError(http.StatusNotFound, "").Error())
	assert.Equal(t, "taken", NewHTTPError(http.StatusConflict, "taken").Error())

	inner := errors.New("inner")
	err := &HTTPError{Status: http.StatusBadGateway, Message: "upstream", Err: inner}
	assert.Equal(t, "upstream: inner", err.Error())
	assert.ErrorIs(t, err, inner)
}
