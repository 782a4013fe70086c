package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-web-server/internal/config"
	"github.com/MKhiriev/go-web-server/internal/logger"
)

var (
	defaultCORSMethods = []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}
	defaultCORSHeaders = []string{"Content-Type", "Authorization", methodOverrideHeader, traceIDHeader}
)

// corsPolicy is the cross-origin policy built from the http:cors setting.
type corsPolicy struct {
	anyOrigin   bool
	allowed     map[string]struct{}
	credentials bool

	methods string
	headers string
	exposed string
	maxAge  string
}

func newCORSPolicy(cfg config.CORS) (*corsPolicy, error) {
	policy := &corsPolicy{
		allowed:     make(map[string]struct{}, len(cfg.Origins)),
		credentials: cfg.Credentials,
	}

	for _, origin := range cfg.Origins {
		if strings.TrimSpace(origin) == "*" {
			policy.anyOrigin = true
			continue
		}
		normalized, err := normalizeOrigin(origin)
		if err != nil {
			return nil, fmt.Errorf("parse origin %q: %w", origin, err)
		}
		if normalized != "" {
			policy.allowed[normalized] = struct{}{}
		}
	}

	methods := cfg.Methods
	if len(methods) == 0 {
		methods = defaultCORSMethods
	}
	headers := cfg.Headers
	if len(headers) == 0 {
		headers = defaultCORSHeaders
	}

	policy.methods = strings.ToUpper(strings.Join(methods, ", "))
	policy.headers = strings.Join(headers, ", ")
	policy.exposed = strings.Join(cfg.ExposedHeaders, ", ")
	if cfg.MaxAge > 0 {
		policy.maxAge = strconv.Itoa(cfg.MaxAge)
	}

	return policy, nil
}

func normalizeOrigin(origin string) (string, error) {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return "", nil
	}
	parsed, err := url.Parse(origin)
	if err != nil {
		return "", err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("origin must include scheme and host")
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), nil
}

func (c *corsPolicy) allows(origin string) bool {
	if c.anyOrigin {
		return true
	}
	normalized, err := normalizeOrigin(origin)
	if err != nil || normalized == "" {
		return false
	}
	_, ok := c.allowed[normalized]
	return ok
}

// allowOrigin is the Access-Control-Allow-Origin value. Credentialed
// policies never answer with the wildcard.
func (c *corsPolicy) allowOrigin(origin string) string {
	if c.anyOrigin && !c.credentials {
		return "*"
	}
	return origin
}

func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
}

// withCORS applies the cross-origin policy. Requests without an Origin
// header pass through untouched; so does everything when no origins are
// configured.
func (p *Pipeline) withCORS(next http.Handler) http.Handler {
	policy := p.cors
	if policy == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		h := w.Header()
		h.Add("Vary", "Origin")

		if !policy.allows(origin) {
			if isPreflight(r) {
				logger.FromRequest(r).Warn().Str("origin", origin).Str("path", r.URL.Path).Msg("blocked CORS preflight")
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		h.Set("Access-Control-Allow-Origin", policy.allowOrigin(origin))
		if policy.credentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}

		if isPreflight(r) {
			h.Add("Vary", "Access-Control-Request-Method")
			h.Add("Vary", "Access-Control-Request-Headers")
			h.Set("Access-Control-Allow-Methods", policy.methods)
			h.Set("Access-Control-Allow-Headers", policy.headers)
			if policy.maxAge != "" {
				h.Set("Access-Control-Max-Age", policy.maxAge)
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if policy.exposed != "" {
			h.Set("Access-Control-Expose-Headers", policy.exposed)
		}
		next.ServeHTTP(w, r)
	})
}
