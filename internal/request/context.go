package request

import (
	"context"

	"github.com/MKhiriev/go-web-server/internal/session"
	"github.com/MKhiriev/go-web-server/models"
)

// Context is the immutable request snapshot handed to everything after the
// context stage. It is a value type; User is a private copy.
type Context struct {
	Host    string           `json:"host"`
	Origin  string           `json:"origin,omitempty"`
	Session *session.Session `json:"-"`
	User    *models.User     `json:"user,omitempty"`
	Token   string           `json:"-"`
}

// Build derives the snapshot from s. It has no side effects, so calling it
// twice on the same state yields equal results. A nil state yields the zero
// Context.
func Build(s *State) Context {
	if s == nil {
		return Context{}
	}

	return Context{
		Host:    s.Host,
		Origin:  s.Origin,
		Session: s.Session,
		User:    s.User.Clone(),
		Token:   s.Token,
	}
}

// Authenticated reports whether the request carries a user.
func (c Context) Authenticated() bool {
	return c.User != nil
}

type contextKey struct{}

// WithContext returns a copy of ctx carrying rc.
func WithContext(ctx context.Context, rc Context) context.Context {
	return context.WithValue(ctx, contextKey{}, rc)
}

// FromContext returns the snapshot stored by the context stage. ok is false
// when the stage has not run for this request.
func FromContext(ctx context.Context) (rc Context, ok bool) {
	rc, ok = ctx.Value(contextKey{}).(Context)
	return rc, ok
}
