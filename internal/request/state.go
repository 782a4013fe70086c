// Package request holds the per-request data shared by the pipeline stages.
//
// [State] is the mutable bag filled in by the stages as the request moves
// through the pipeline. [Context] is the read-only snapshot derived from it
// by [Build] once session, origin and authentication have run; everything
// downstream (logging, custom middleware, route handlers, the catchall) reads
// the snapshot.
package request

import (
	"context"
	"net/url"

	"github.com/MKhiriev/go-web-server/internal/session"
	"github.com/MKhiriev/go-web-server/models"
)

// State is the mutable per-request state. It is created at pipeline entry
// and discarded with the request. Fields not populated by a stage keep their
// zero value, which is the explicit "absent" value.
type State struct {
	// Host is the request host as seen by the server.
	Host string

	// Origin is the caller origin: the Origin header, or the scheme and host
	// of the Referer.
	Origin string

	// Body is the decoded JSON body, when the request carried one.
	Body any

	// Form holds url-encoded and multipart form values.
	Form url.Values

	// Query is the query string with bracketed keys expanded (see
	// [ParseQuery]). Nil when the URL has no query.
	Query map[string]any

	// Session is the session attached by the session stage.
	Session *session.Session

	// User is the authenticated principal, nil for anonymous requests.
	User *models.User

	// Token is the raw credential the user was authenticated with.
	Token string
}

type stateKey struct{}

// WithState returns a copy of ctx carrying s.
func WithState(ctx context.Context, s *State) context.Context {
	return context.WithValue(ctx, stateKey{}, s)
}

// StateFrom returns the state attached to ctx, or nil.
func StateFrom(ctx context.Context) *State {
	s, _ := ctx.Value(stateKey{}).(*State)
	return s
}
