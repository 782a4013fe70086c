// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the web
// server. It aggregates all sub-configurations and is populated by merging
// values from environment variables, command-line flags, and an optional
// JSON or YAML file.
//
// StructuredConfig implements [Provider]: every field is reachable through a
// colon-separated key path (see [StructuredConfig.Get]).
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Name is the application name used in log lines and built-in routes.
	// Env: APP_NAME
	Name string `env:"APP_NAME"`

	// Environment is the deployment label (development, production, ...).
	// Env: APP_ENV
	Environment string `env:"APP_ENV"`

	// Port is the TCP port the server listens on. The PORT environment
	// variable, when set, takes precedence over this value at startup.
	// Env: APP_PORT
	Port int `env:"APP_PORT"`

	// Routes is the path of the folder holding route and middleware
	// descriptors. Empty means the descriptors embedded into the binary.
	// Env: ROUTES_DIR
	Routes string `env:"ROUTES_DIR"`

	// Logging controls the request logger and server error reporting.
	Logging Logging `envPrefix:"LOGGING_"`

	// HTTP holds the cross-cutting HTTP policies of the pipeline.
	HTTP HTTP `envPrefix:"HTTP_"`

	// Session selects and configures the session store.
	Session Session `envPrefix:"SESSION_"`

	// Auth holds the token verification parameters.
	Auth Auth `envPrefix:"AUTH_"`

	// FilePath is the optional path to a JSON or YAML configuration file.
	// When non-empty, the file is parsed and merged below the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	FilePath string `env:"CONFIG"`
}

// Logging configures request and error logging.
type Logging struct {
	// Format is the request log line format: dev, combined, common, short
	// or tiny.
	// Env: LOGGING_FORMAT
	Format string `env:"FORMAT"`

	// Stack enables full error detail (including stack traces) in
	// server-level error logs. When false only the error message is logged.
	// Env: LOGGING_STACK
	Stack bool `env:"STACK"`
}

// HTTP configures the transport-level middleware stages.
type HTTP struct {
	// SSL forces TLS enforcement regardless of the environment.
	// Env: HTTP_SSL
	SSL bool `env:"SSL"`

	// BodyLimit is the maximum accepted request body size in bytes.
	// Env: HTTP_BODY_LIMIT
	BodyLimit int64 `env:"BODY_LIMIT"`

	// CORS is the cross-origin policy.
	CORS CORS `envPrefix:"CORS_"`

	// Rate is the request rate limiting policy.
	Rate RateLimit `envPrefix:"RATE_"`
}

// CORS is the cross-origin resource sharing policy handed to the CORS stage.
type CORS struct {
	// Origins lists the allowed origins ("https://example.com", "*").
	// An empty list disables the CORS stage.
	// Env: HTTP_CORS_ORIGINS (comma separated)
	Origins []string `env:"ORIGINS" envSeparator:"," json:"origins" yaml:"origins"`

	// Methods lists the allowed non-simple methods.
	// Env: HTTP_CORS_METHODS
	Methods []string `env:"METHODS" envSeparator:"," json:"methods" yaml:"methods"`

	// Headers lists the allowed request headers.
	// Env: HTTP_CORS_HEADERS
	Headers []string `env:"HEADERS" envSeparator:"," json:"headers" yaml:"headers"`

	// ExposedHeaders lists response headers readable by the client.
	// Env: HTTP_CORS_EXPOSED_HEADERS
	ExposedHeaders []string `env:"EXPOSED_HEADERS" envSeparator:"," json:"exposed_headers" yaml:"exposed_headers"`

	// Credentials allows credentialed requests (cookies).
	// Env: HTTP_CORS_CREDENTIALS
	Credentials bool `env:"CREDENTIALS" json:"credentials" yaml:"credentials"`

	// MaxAge is the preflight cache duration in seconds.
	// Env: HTTP_CORS_MAX_AGE
	MaxAge int `env:"MAX_AGE" json:"max_age" yaml:"max_age"`
}

// RateLimit configures the optional rate limiting stage.
type RateLimit struct {
	// Enabled turns the stage on. It is off by default.
	// Env: HTTP_RATE_ENABLED
	Enabled bool `env:"ENABLED"`

	// Max is the number of requests a client may issue per Window.
	// Env: HTTP_RATE_MAX
	Max int `env:"MAX"`

	// Window is the length of the counting window.
	// Env: HTTP_RATE_WINDOW
	Window time.Duration `env:"WINDOW"`
}

// Session selects the session store backend.
type Session struct {
	// Store is the registered name of the session store
	// (redis, memory, postgres, sqlite).
	// Env: SESSION_STORE
	Store string `env:"STORE"`

	// Key is the session cookie name.
	// Env: SESSION_KEY
	Key string `env:"KEY"`

	// DSN is the connection string of the SQL session stores.
	// Env: SESSION_DSN
	DSN string `env:"DSN"`

	// Redis configures the redis session store and the redis-backed rate
	// limiter.
	Redis Redis `envPrefix:"REDIS_"`
}

// Redis holds redis connection settings.
type Redis struct {
	// Addr is the redis address in host:port form.
	// Env: SESSION_REDIS_ADDR
	Addr string `env:"ADDR" json:"addr" yaml:"addr"`

	// Username is the optional ACL user.
	// Env: SESSION_REDIS_USERNAME
	Username string `env:"USERNAME" json:"username" yaml:"username"`

	// Password is the optional redis password.
	// Env: SESSION_REDIS_PASSWORD
	Password string `env:"PASSWORD" json:"password" yaml:"password"`

	// DB is the logical database index.
	// Env: SESSION_REDIS_DB
	DB int `env:"DB" json:"db" yaml:"db"`

	// DialTimeout bounds connection establishment.
	// Env: SESSION_REDIS_DIAL_TIMEOUT
	DialTimeout time.Duration `env:"DIAL_TIMEOUT" json:"-" yaml:"-"`
}

// Auth holds the parameters used to verify and issue JWT tokens.
type Auth struct {
	// TokenSignKey is the secret key used to sign and verify JWT tokens.
	// Env: AUTH_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim expected on every accepted token.
	// Env: AUTH_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is the lifetime of tokens issued by route modules.
	// Env: AUTH_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (earlier sources win for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON or YAML file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withFile().
		build()
}
