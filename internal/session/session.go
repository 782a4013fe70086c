// Package session provides server-side sessions referenced by an unsigned
// cookie.
//
// A [Session] is loaded by [Middleware] at the start of a request and
// committed to the configured [Store] right before the response headers are
// written. Expiration is rolling: every response that carries an existing
// session refreshes its TTL.
package session

import (
	"context"
	"maps"
	"sync"

	"github.com/google/uuid"
)

// Values is the payload stored for a session. Values must be JSON
// serialisable for the redis and SQL stores.
type Values map[string]any

// Session is the per-request view of a stored session. It is safe for
// concurrent use by the handlers of a single request.
type Session struct {
	mu sync.RWMutex

	id     string
	prevID string
	values Values

	isNew     bool
	modified  bool
	destroyed bool
}

// New returns an empty, unsaved session with a fresh id.
func New() *Session {
	return &Session{
		id:     newID(),
		values: Values{},
		isNew:  true,
	}
}

// load returns a session restored from a store.
func load(id string, values Values) *Session {
	if values == nil {
		values = Values{}
	}
	return &Session{id: id, values: values}
}

func newID() string {
	return uuid.NewString()
}

// ID returns the session id carried by the cookie.
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// IsNew reports whether the session was created during this request.
func (s *Session) IsNew() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isNew
}

// Get returns the value stored under key.
func (s *Session) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// GetString returns the string stored under key, or "".
func (s *Session) GetString(key string) string {
	v, _ := s.Get(key)
	str, _ := v.(string)
	return str
}

// Set stores value under key and marks the session as modified.
func (s *Session) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.modified = true
	s.destroyed = false
}

// Delete removes key.
func (s *Session) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; ok {
		delete(s.values, key)
		s.modified = true
	}
}

// Values returns a copy of the session payload.
func (s *Session) Values() Values {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}

// Destroy clears the session. On commit it is removed from the store and the
// cookie is expired.
func (s *Session) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = Values{}
	s.destroyed = true
	s.modified = false
}

// Destroyed reports whether Destroy was called and not followed by Set.
func (s *Session) Destroyed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.destroyed
}

// Regenerate assigns a new id while keeping the payload. The old id is
// removed from the store on commit. Call it after a privilege change such as
// a login.
func (s *Session) Regenerate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prevID == "" && !s.isNew {
		s.prevID = s.id
	}
	s.id = newID()
	s.modified = true
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session attached by [Middleware], or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
