package session

import (
	"errors"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/MKhiriev/go-web-server/internal/logger"
)

const (
	// DefaultCookieName is the session cookie name when none is configured.
	DefaultCookieName = "sid"

	// TTL is the rolling session lifetime: 7 days.
	TTL = 7 * 24 * time.Hour
)

// Options configures [Middleware].
type Options struct {
	Store Store

	// CookieName defaults to DefaultCookieName.
	CookieName string

	// TTL defaults to the package TTL.
	TTL time.Duration

	// Secure sets the Secure attribute on the cookie.
	Secure bool

	// OnError reports store failures while loading the session. The request
	// is not forwarded after OnError is called. When nil a plain 500 is
	// written.
	OnError func(w http.ResponseWriter, r *http.Request, err error)

	// Attach, when set, is called with the loaded session before the rest of
	// the chain runs.
	Attach func(r *http.Request, s *Session)
}

// Middleware loads the session referenced by the request cookie (or creates
// a new one), attaches it to the request context and commits it right before
// the response headers are sent.
//
// Commit rules:
//   - destroyed: the stored entry is removed and the cookie expired;
//   - modified, or loaded from the store: the entry is written with a fresh
//     TTL and the cookie re-issued (rolling expiration);
//   - new and untouched: nothing is stored and no cookie is sent.
func Middleware(opts Options) func(http.Handler) http.Handler {
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.TTL <= 0 {
		opts.TTL = TTL
	}
	if opts.OnError == nil {
		opts.OnError = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := loadSession(r, opts)
			if err != nil {
				opts.OnError(w, r, err)
				return
			}

			r = r.WithContext(WithSession(r.Context(), sess))
			if opts.Attach != nil {
				opts.Attach(r, sess)
			}

			cw := &commitWriter{ResponseWriter: w, r: r, sess: sess, opts: opts}
			defer cw.commit()

			next.ServeHTTP(cw, r)
		})
	}
}

func loadSession(r *http.Request, opts Options) (*Session, error) {
	cookie, err := r.Cookie(opts.CookieName)
	if err != nil || cookie.Value == "" {
		return New(), nil
	}

	values, err := opts.Store.Get(r.Context(), cookie.Value)
	if errors.Is(err, ErrNotFound) {
		return New(), nil
	}
	if err != nil {
		return nil, err
	}
	return load(cookie.Value, values), nil
}

// commitWriter commits the session on the first WriteHeader or Write.
type commitWriter struct {
	http.ResponseWriter
	r    *http.Request
	sess *Session
	opts Options

	once sync.Once
}

func (cw *commitWriter) WriteHeader(status int) {
	cw.commit()
	cw.ResponseWriter.WriteHeader(status)
}

func (cw *commitWriter) Write(b []byte) (int, error) {
	cw.commit()
	return cw.ResponseWriter.Write(b)
}

func (cw *commitWriter) Flush() {
	cw.commit()
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (cw *commitWriter) Unwrap() http.ResponseWriter {
	return cw.ResponseWriter
}

func (cw *commitWriter) commit() {
	cw.once.Do(cw.save)
}

func (cw *commitWriter) save() {
	s := cw.sess
	ctx := cw.r.Context()
	log := logger.FromContext(ctx)

	s.mu.Lock()
	id, prevID := s.id, s.prevID
	isNew, modified, destroyed := s.isNew, s.modified, s.destroyed
	values := maps.Clone(s.values)
	s.mu.Unlock()

	if prevID != "" {
		if err := cw.opts.Store.Destroy(ctx, prevID); err != nil {
			log.Err(err).Msg("error removing regenerated session")
		}
	}

	switch {
	case destroyed:
		if !isNew {
			if err := cw.opts.Store.Destroy(ctx, id); err != nil {
				log.Err(err).Msg("error destroying session")
			}
		}
		http.SetCookie(cw.ResponseWriter, cw.cookie("", -1))
	case modified || !isNew:
		if err := cw.opts.Store.Set(ctx, id, values, cw.opts.TTL); err != nil {
			log.Err(err).Msg("error saving session")
			return
		}
		http.SetCookie(cw.ResponseWriter, cw.cookie(id, int(cw.opts.TTL/time.Second)))
	}
}

func (cw *commitWriter) cookie(value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     cw.opts.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cw.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge > 0 {
		c.Expires = time.Now().Add(time.Duration(maxAge) * time.Second)
	}
	return c
}
