package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-web-server/internal/logger"
	"github.com/MKhiriev/go-web-server/internal/request"
)

const multipartMemory = 32 << 20

// withBody decodes the query string into State.Query and the request body
// into the request state: JSON into State.Body, url-encoded and multipart
// forms into State.Form. The raw JSON bytes stay readable through r.Body for
// handlers that decode their own types.
func (p *Pipeline) withBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state := stateOf(r)
		if r.URL.RawQuery != "" {
			state.Query = request.ParseQuery(r.URL.Query())
		}

		if !hasBody(r) {
			next.ServeHTTP(w, r)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, p.bodyLimit)

		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		switch {
		case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
			data, err := io.ReadAll(r.Body)
			if err != nil {
				Fail(w, r, bodyError(err))
				return
			}
			if len(bytes.TrimSpace(data)) > 0 {
				var v any
				if err := json.Unmarshal(data, &v); err != nil {
					Fail(w, r, fmt.Errorf("%w: %w", ErrMalformedBody, err))
					return
				}
				state.Body = v
			}
			r.Body = io.NopCloser(bytes.NewReader(data))

		case mediaType == "application/x-www-form-urlencoded":
			if err := r.ParseForm(); err != nil {
				Fail(w, r, bodyError(err))
				return
			}
			state.Form = r.PostForm

		case mediaType == "multipart/form-data":
			if err := r.ParseMultipartForm(multipartMemory); err != nil {
				Fail(w, r, bodyError(err))
				return
			}
			state.Form = r.PostForm
		}

		logger.FromRequest(r).Debug().Str("content_type", mediaType).Msg("request body parsed")
		next.ServeHTTP(w, r)
	})
}

func hasBody(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return false
	}
	return r.Body != nil && r.Body != http.NoBody
}

func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, maxErr.Limit)
	}
	return fmt.Errorf("%w: %w", ErrMalformedBody, err)
}
