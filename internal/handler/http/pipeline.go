// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/go-web-server/internal/config"
	"github.com/MKhiriev/go-web-server/internal/logger"
	"github.com/MKhiriev/go-web-server/internal/metrics"
	"github.com/MKhiriev/go-web-server/internal/service"
	"github.com/MKhiriev/go-web-server/internal/session"
)

// Middleware is one pipeline stage.
type Middleware = func(http.Handler) http.Handler

const (
	// EnvDevelopment is the default environment label.
	EnvDevelopment = "development"

	// EnvProduction enables TLS enforcement.
	EnvProduction = "production"

	// DefaultBodyLimit is the request body limit when http:body_limit is
	// not configured.
	DefaultBodyLimit int64 = 1 << 20

	// DefaultRateMax and DefaultRateWindow are the rate limit policy when
	// http:rate and http:rate:window are not configured.
	DefaultRateMax    = 100
	DefaultRateWindow = time.Minute
)

// Stage names reported by [Pipeline.Stages].
const (
	StageEntry          = "entry"
	StageSSL            = "ssl"
	StageErrors         = "errors"
	StageGZip           = "gzip"
	StageBody           = "body"
	StageMethodOverride = "method-override"
	StageCORS           = "cors"
	StageRateLimit      = "rate-limit"
	StageSession        = "session"
	StageOrigin         = "origin"
	StageAuth           = "auth"
	StageContext        = "context"
	StageLogging        = "logging"
	StageCustom         = "custom"
)

// PipelineOptions are the collaborators of a [Pipeline].
type PipelineOptions struct {
	// Name is the application name.
	Name string

	// Environment is the deployment label; EnvDevelopment when empty.
	Environment string

	// Config is read once, while the pipeline is built.
	Config config.Provider

	Logger *logger.Logger

	// Sink receives request log lines. Defaults to a sink on Logger.
	Sink logger.Sink

	// Store is the session store. Required.
	Store session.Store

	// Authenticator resolves the request user. Nil means every request is
	// anonymous.
	Authenticator service.Authenticator

	// Translator turns errors into responses. Defaults to DefaultTranslator.
	Translator ErrorTranslator

	Metrics *metrics.Metrics

	// Custom is installed after the logging stage, in order.
	Custom []Middleware
}

type stage struct {
	name string
	mw   Middleware
}

// Pipeline is the ordered chain of cross-cutting stages shared by every
// route of a server. It is built once and never changes afterwards.
type Pipeline struct {
	name        string
	environment string

	logger  *logger.Logger
	sink    logger.Sink
	store   session.Store
	auth    service.Authenticator
	metrics *metrics.Metrics
	errors  *Errors

	ssl        bool
	bodyLimit  int64
	logFormat  string
	cookieName string

	cors    *corsPolicy
	limiter rateLimiter

	stages []stage
}

// NewPipeline reads the http:*, session:* and logging:* configuration and
// builds every stage.
func NewPipeline(opts PipelineOptions) (*Pipeline, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("%w: session store is required", ErrInvalidPipeline)
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Sink == nil {
		opts.Sink = logger.NewSink(opts.Logger)
	}
	if opts.Environment == "" {
		opts.Environment = EnvDevelopment
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.MapProvider{}
	}

	format := config.GetString(cfg, "logging:format", FormatDev)
	if _, ok := logFormats[format]; !ok {
		return nil, fmt.Errorf("%w: unknown logging format %q", ErrInvalidPipeline, format)
	}

	p := &Pipeline{
		name:        opts.Name,
		environment: opts.Environment,
		logger:      opts.Logger,
		sink:        opts.Sink,
		store:       opts.Store,
		auth:        opts.Authenticator,
		metrics:     opts.Metrics,
		errors:      NewErrors(opts.Translator, opts.Metrics),
		ssl:         opts.Environment == EnvProduction || config.GetBool(cfg, "http:ssl", false),
		bodyLimit:   config.GetInt64(cfg, "http:body_limit", DefaultBodyLimit),
		logFormat:   format,
		cookieName:  config.GetString(cfg, "session:key", session.DefaultCookieName),
	}

	if v, ok := cfg.Get("http:cors"); ok {
		if c, ok := v.(config.CORS); ok && len(c.Origins) > 0 {
			policy, err := newCORSPolicy(c)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidPipeline, err)
			}
			p.cors = policy
		}
	}

	if config.GetBool(cfg, "http:rate:enabled", false) {
		p.limiter = newRateLimiter(
			opts.Store,
			config.GetInt(cfg, "http:rate", DefaultRateMax),
			config.GetDuration(cfg, "http:rate:window", DefaultRateWindow),
			opts.Logger,
		)
	}

	p.stages = p.buildStages(opts.Custom)

	opts.Logger.Info().
		Str("environment", p.environment).
		Strs("stages", p.Stages()).
		Msg("http pipeline created")

	return p, nil
}

func (p *Pipeline) buildStages(custom []Middleware) []stage {
	stages := []stage{
		{StageEntry, chi.Chain(middleware.RealIP, p.withTraceID, p.withRequestState).Handler},
		{StageSSL, p.withSSL},
		{StageErrors, withErrorTrap(p.errors)},
		{StageGZip, withGZip},
		{StageBody, p.withBody},
		{StageMethodOverride, withMethodOverride},
		{StageCORS, p.withCORS},
	}
	if p.limiter != nil {
		stages = append(stages, stage{StageRateLimit, p.withRateLimit})
	}
	stages = append(stages,
		stage{StageSession, session.Middleware(session.Options{
			Store:      p.store,
			CookieName: p.cookieName,
			Secure:     p.ssl,
			OnError:    Fail,
			Attach:     attachSession,
		})},
		stage{StageOrigin, withOrigin},
		stage{StageAuth, p.withAuthentication},
		stage{StageContext, withRequestContext},
		stage{StageLogging, p.withLogging},
	)
	for _, mw := range custom {
		if mw != nil {
			stages = append(stages, stage{StageCustom, mw})
		}
	}
	return stages
}

// Stages returns the stage names in installation order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.name
	}
	return names
}

// Install adds every stage to r. It must be called before any route is
// registered on r.
func (p *Pipeline) Install(r chi.Router) {
	for _, s := range p.stages {
		r.Use(s.mw)
	}
}

// InstallCatchall makes the catchall answer every request the routes of mux
// did not.
func (p *Pipeline) InstallCatchall(mux *chi.Mux) {
	h := p.Catchall()
	mux.NotFound(h)
	mux.MethodNotAllowed(h)
}

// Errors returns the error boundary of the pipeline.
func (p *Pipeline) Errors() *Errors {
	return p.errors
}

// SSL reports whether TLS is enforced.
func (p *Pipeline) SSL() bool {
	return p.ssl
}
