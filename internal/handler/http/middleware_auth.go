package http

import (
	"net/http"
	"net/url"

	"github.com/MKhiriev/go-web-server/internal/logger"
	"github.com/MKhiriev/go-web-server/internal/session"
)

// attachSession records the session loaded by the session stage.
func attachSession(r *http.Request, s *session.Session) {
	stateOf(r).Session = s
}

// withOrigin records the caller origin: the Origin header, or the scheme
// and host of the Referer.
func withOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stateOf(r).Origin = requestOrigin(r)
		next.ServeHTTP(w, r)
	})
}

func requestOrigin(r *http.Request) string {
	if origin := r.Header.Get("Origin"); origin != "" && origin != "null" {
		return origin
	}

	referer := r.Header.Get("Referer")
	if referer == "" {
		return ""
	}
	u, err := url.Parse(referer)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// withAuthentication resolves the request user with the authenticator.
//
// The stage never rejects a request: missing credentials leave it
// anonymous, and so do credentials that fail verification (the failure is
// logged). Routes that require a user check the request context.
func (p *Pipeline) withAuthentication(next http.Handler) http.Handler {
	if p.auth == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state := stateOf(r)

		user, token, err := p.auth.Authenticate(r.Context(), r, state.Session)
		switch {
		case err != nil:
			logger.FromRequest(r).Warn().Err(err).Msg("authentication failed, continuing anonymously")
		case user != nil:
			state.User = user
			state.Token = token
		}

		next.ServeHTTP(w, r)
	})
}
