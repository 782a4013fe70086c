package config

import (
	"reflect"
	"strconv"
	"time"
)

// Provider is a read-only key-path lookup over configuration values.
//
// Key paths are colon separated ("logging:format", "http:cors"). Get reports
// false when the key is unknown or holds no value, so callers can fall back
// to their own defaults. Implementations must be safe for concurrent use;
// values are resolved on every call and never cached by consumers.
type Provider interface {
	Get(keyPath string) (any, bool)
}

var keyPaths = map[string]func(*StructuredConfig) any{
	"name":                func(c *StructuredConfig) any { return c.Name },
	"environment":         func(c *StructuredConfig) any { return c.Environment },
	"port":                func(c *StructuredConfig) any { return c.Port },
	"routes":              func(c *StructuredConfig) any { return c.Routes },
	"logging:format":      func(c *StructuredConfig) any { return c.Logging.Format },
	"logging:stack":       func(c *StructuredConfig) any { return c.Logging.Stack },
	"http:ssl":            func(c *StructuredConfig) any { return c.HTTP.SSL },
	"http:body_limit":     func(c *StructuredConfig) any { return c.HTTP.BodyLimit },
	"http:cors":           func(c *StructuredConfig) any { return c.HTTP.CORS },
	"http:rate":           func(c *StructuredConfig) any { return c.HTTP.Rate.Max },
	"http:rate:enabled":   func(c *StructuredConfig) any { return c.HTTP.Rate.Enabled },
	"http:rate:window":    func(c *StructuredConfig) any { return c.HTTP.Rate.Window },
	"session":             func(c *StructuredConfig) any { return c.Session.Store },
	"session:key":         func(c *StructuredConfig) any { return c.Session.Key },
	"session:dsn":         func(c *StructuredConfig) any { return c.Session.DSN },
	"session:redis":       func(c *StructuredConfig) any { return c.Session.Redis },
	"auth:token_sign_key": func(c *StructuredConfig) any { return c.Auth.TokenSignKey },
	"auth:token_issuer":   func(c *StructuredConfig) any { return c.Auth.TokenIssuer },
	"auth:token_duration": func(c *StructuredConfig) any { return c.Auth.TokenDuration },
}

// Get implements [Provider]. Zero values are reported as absent.
func (cfg *StructuredConfig) Get(keyPath string) (any, bool) {
	if cfg == nil {
		return nil, false
	}

	get, ok := keyPaths[keyPath]
	if !ok {
		return nil, false
	}

	value := get(cfg)
	if reflect.ValueOf(value).IsZero() {
		return nil, false
	}

	return value, true
}

// MapProvider is a [Provider] backed by a flat map of key paths.
type MapProvider map[string]any

// Get implements [Provider].
func (m MapProvider) Get(keyPath string) (any, bool) {
	value, ok := m[keyPath]
	if !ok || value == nil {
		return nil, false
	}
	return value, true
}

// GetString returns the string stored under key, or fallback.
func GetString(p Provider, key, fallback string) string {
	if p == nil {
		return fallback
	}
	if v, ok := p.Get(key); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

// GetInt returns the integer stored under key, or fallback. Numeric strings
// and floats (as produced by JSON decoding) are accepted.
func GetInt(p Provider, key string, fallback int) int {
	if p == nil {
		return fallback
	}
	v, ok := p.Get(key)
	if !ok {
		return fallback
	}

	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
	}
	return fallback
}

// GetInt64 is [GetInt] for 64-bit values.
func GetInt64(p Provider, key string, fallback int64) int64 {
	if p == nil {
		return fallback
	}
	v, ok := p.Get(key)
	if !ok {
		return fallback
	}

	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

// GetBool returns the boolean stored under key, or fallback.
func GetBool(p Provider, key string, fallback bool) bool {
	if p == nil {
		return fallback
	}
	v, ok := p.Get(key)
	if !ok {
		return fallback
	}

	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(b); err == nil {
			return parsed
		}
	}
	return fallback
}

// GetDuration returns the duration stored under key, or fallback. Strings are
// parsed with [time.ParseDuration]; bare numbers are milliseconds.
func GetDuration(p Provider, key string, fallback time.Duration) time.Duration {
	if p == nil {
		return fallback
	}
	v, ok := p.Get(key)
	if !ok {
		return fallback
	}

	switch d := v.(type) {
	case time.Duration:
		return d
	case int:
		return time.Duration(d) * time.Millisecond
	case int64:
		return time.Duration(d) * time.Millisecond
	case float64:
		return time.Duration(d) * time.Millisecond
	case string:
		if parsed, err := time.ParseDuration(d); err == nil {
			return parsed
		}
	}
	return fallback
}
