// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package mount

import (
	"slices"
	"sync"

	"github.com/go-chi/chi/v5"

	myHTTP "github.com/MKhiriev/go-web-server/internal/handler/http"
)

// RouteFactory registers the routes of one module on r. r is already scoped
// to the descriptor prefix.
type RouteFactory func(r chi.Router, deps Deps) error

// MiddlewareFactory produces one custom middleware. It is called with no
// arguments while the pipeline is built.
type MiddlewareFactory func() myHTTP.Middleware

var (
	registryMu sync.RWMutex
	routes     = make(map[string]RouteFactory)
	middleware = make(map[string]MiddlewareFactory)
)

// RegisterRoutes makes a route module available by name. It panics if
// factory is nil or the name is taken.
func RegisterRoutes(name string, factory RouteFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("mount: RegisterRoutes factory is nil")
	}
	if _, dup := routes[name]; dup {
		panic("mount: RegisterRoutes called twice for " + name)
	}
	routes[name] = factory
}

// RegisterMiddleware makes a custom middleware available by name. It panics
// if factory is nil or the name is taken.
func RegisterMiddleware(name string, factory MiddlewareFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("mount: RegisterMiddleware factory is nil")
	}
	if _, dup := middleware[name]; dup {
		panic("mount: RegisterMiddleware called twice for " + name)
	}
	middleware[name] = factory
}

// Routes returns the sorted names of the registered route modules.
func Routes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return sortedKeys(routes)
}

// Middlewares returns the sorted names of the registered middleware.
func Middlewares() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return sortedKeys(middleware)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func lookupRoutes(name string) (RouteFactory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := routes[name]
	return f, ok
}

func lookupMiddleware(name string) (MiddlewareFactory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := middleware[name]
	return f, ok
}
