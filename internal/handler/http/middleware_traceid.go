package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-web-server/internal/request"
)

const traceIDHeader = "X-Trace-ID"

func (p *Pipeline) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		l := p.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("trace_id", traceID)
		})
		r = r.WithContext(l.WithContext(ctx))

		w.Header().Set(traceIDHeader, traceID)
		next.ServeHTTP(w, r)
	})
}

// withRequestState creates the per-request state every later stage fills in.
func (p *Pipeline) withRequestState(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state := &request.State{Host: r.Host}
		next.ServeHTTP(w, r.WithContext(request.WithState(r.Context(), state)))
	})
}

// stateOf returns the request state, creating a detached one when the entry
// stage has not run (stages used on their own, in tests).
func stateOf(r *http.Request) *request.State {
	if s := request.StateFrom(r.Context()); s != nil {
		return s
	}
	return &request.State{Host: r.Host}
}
