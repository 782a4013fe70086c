// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-web-server/internal/logger"
)

// Catchall returns the terminal handler of the pipeline. It answers every
// request no route produced a response for with the translated not-found
// error.
//
// It is registered both as the router's NotFound and MethodNotAllowed
// handler: a path that exists but does not handle the requested method is
// answered with 404 as well, so callers using an unsupported method cannot
// tell the route exists.
//
// The catchall does not go through the error trap: an unmatched route is an
// expected outcome, not a failure, and is not reported to error listeners.
func (p *Pipeline) Catchall() http.HandlerFunc {
	translator := p.errors.Translator()

	return func(w http.ResponseWriter, r *http.Request) {
		status, body := translator.Translate(ErrNotFound)
		if _, err := WriteJSON(w, body, status); err != nil {
			logger.FromRequest(r).Err(err).Msg("error writing catchall response")
		}
	}
}
