// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package mount

import (
	"fmt"
	"io/fs"
	"maps"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-web-server/internal/config"
	myHTTP "github.com/MKhiriev/go-web-server/internal/handler/http"
	"github.com/MKhiriev/go-web-server/internal/logger"
	"github.com/MKhiriev/go-web-server/internal/metrics"
	"github.com/MKhiriev/go-web-server/internal/service"
)

// Deps is what a route module receives besides its router.
type Deps struct {
	// Name is the application name.
	Name string

	// Prefix is the mount path of the module.
	Prefix string

	// Options are the descriptor options of the module.
	Options map[string]any

	// Middleware holds the custom middleware of the folder, for modules
	// that want to apply one to a subset of their routes.
	Middleware Chain

	// Errors is the error boundary; handlers report failures through it
	// with myHTTP.Fail or myHTTP.Wrap.
	Errors *myHTTP.Errors

	Config  config.Provider
	Logger  *logger.Logger
	Metrics *metrics.Metrics

	// Tokens issues tokens for modules that log users in.
	Tokens service.TokenIssuer

	AppInfo service.AppInfoService
}

// Option returns the descriptor option key, or fallback.
func (d Deps) Option(key string, fallback any) any {
	if v, ok := d.Options[key]; ok && v != nil {
		return v
	}
	return fallback
}

// Entry is one resolved custom middleware.
type Entry struct {
	Name    string
	File    string
	Handler myHTTP.Middleware
}

// Chain is the custom middleware of a folder, in discovery order.
type Chain []Entry

// Handlers returns the middleware functions in order.
func (c Chain) Handlers() []myHTTP.Middleware {
	handlers := make([]myHTTP.Middleware, len(c))
	for i, e := range c {
		handlers[i] = e.Handler
	}
	return handlers
}

// Lookup returns the first middleware produced by the named factory.
func (c Chain) Lookup(name string) (myHTTP.Middleware, bool) {
	for _, e := range c {
		if e.Name == name {
			return e.Handler, true
		}
	}
	return nil, false
}

// Middleware resolves the middleware descriptors of fsys. Every factory is
// invoked once.
func Middleware(fsys fs.FS) (Chain, error) {
	descriptors, err := readDescriptors(fsys, MiddlewareDir)
	if err != nil {
		return nil, err
	}

	chain := make(Chain, 0, len(descriptors))
	for _, d := range descriptors {
		factory, ok := lookupMiddleware(d.Factory)
		if !ok {
			return nil, fmt.Errorf("%w: %q in %s", ErrUnknownFactory, d.Factory, d.File)
		}

		mw := factory()
		if mw == nil {
			return nil, fmt.Errorf("%w: %s: factory %q returned no middleware", ErrMalformedModule, d.File, d.Factory)
		}
		chain = append(chain, Entry{Name: d.Factory, File: d.File, Handler: mw})
	}

	return chain, nil
}

// Module is a mounted route module.
type Module struct {
	File    string
	Factory string
	Prefix  string
}

// Mount registers the route modules of fsys on r, in lexical file order.
// Options and Prefix of deps are set per module. Any failure aborts the
// mount; r may then hold the routes of the modules mounted before.
func Mount(r chi.Router, fsys fs.FS, deps Deps) ([]Module, error) {
	descriptors, err := readDescriptors(fsys, ".")
	if err != nil {
		return nil, err
	}

	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	mounted := make([]Module, 0, len(descriptors))
	for _, d := range descriptors {
		factory, ok := lookupRoutes(d.Factory)
		if !ok {
			return mounted, fmt.Errorf("%w: %q in %s", ErrUnknownFactory, d.Factory, d.File)
		}

		moduleDeps := deps
		moduleDeps.Prefix = d.Prefix
		moduleDeps.Options = maps.Clone(d.Options)
		moduleDeps.Logger = log

		if err := mountModule(r, d.Prefix, factory, moduleDeps); err != nil {
			return mounted, fmt.Errorf("%w: %s: %w", ErrMalformedModule, d.File, err)
		}

		log.Info().
			Str("module", d.Factory).
			Str("prefix", d.Prefix).
			Str("file", d.File).
			Msg("route module mounted")
		mounted = append(mounted, Module{File: d.File, Factory: d.Factory, Prefix: d.Prefix})
	}

	return mounted, nil
}

// mountModule runs factory on a router scoped to prefix. chi reports route
// conflicts by panicking; they are turned into errors.
func mountModule(r chi.Router, prefix string, factory RouteFactory, deps Deps) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("route registration failed: %v", rec)
		}
	}()

	if prefix == "/" {
		r.Group(func(g chi.Router) {
			err = factory(g, deps)
		})
		return err
	}

	sub := chi.NewRouter()
	if err := factory(sub, deps); err != nil {
		return err
	}
	r.Mount(prefix, sub)
	return nil
}
