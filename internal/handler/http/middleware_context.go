package http

import (
	"net/http"

	"github.com/MKhiriev/go-web-server/internal/logger"
	"github.com/MKhiriev/go-web-server/internal/request"
)

// withRequestContext freezes the request state into the request context
// snapshot. It runs once per request: a snapshot already present is kept.
func withRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := request.FromContext(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}

		rc := request.Build(request.StateFrom(r.Context()))

		ctx := request.WithContext(r.Context(), rc)
		if rc.User != nil {
			l := logger.FromRequest(r).With().Str("user_id", rc.User.ID).Logger()
			ctx = l.WithContext(ctx)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
