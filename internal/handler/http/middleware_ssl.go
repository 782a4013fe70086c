package http

import (
	"net/http"
	"strings"
)

// withSSL enforces TLS. Safe requests over plain HTTP are redirected to the
// https URL; everything else is rejected with 403 through the pipeline's
// error boundary, so the configured translator and error listeners see it.
func (p *Pipeline) withSSL(next http.Handler) http.Handler {
	if !p.ssl {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isSecure(r) {
			next.ServeHTTP(w, r)
			return
		}

		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			http.Redirect(w, r, "https://"+r.Host+r.URL.RequestURI(), http.StatusMovedPermanently)
			return
		}

		p.errors.handle(w, r, nil, ErrInsecureTransport, nil)
	})
}

// isSecure trusts X-Forwarded-Proto set by a TLS terminating proxy.
func isSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
