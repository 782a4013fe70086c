// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"

	"github.com/MKhiriev/go-web-server/internal/logger"
	"github.com/MKhiriev/go-web-server/internal/metrics"
)

// ErrorEvent describes a request that ended in the error trap.
type ErrorEvent struct {
	// Status is the response status chosen by the translator.
	Status int

	// URL is the request URL.
	URL string

	// Err is the translated error. Recovered panics are wrapped into an
	// error.
	Err error

	// Stack is the goroutine stack of a recovered panic, nil otherwise.
	Stack []byte
}

// Detail returns the error message, followed by the stack when full is set.
func (e ErrorEvent) Detail(full bool) string {
	if e.Err == nil {
		return ""
	}
	if !full {
		return e.Err.Error()
	}
	if len(e.Stack) == 0 {
		return fmt.Sprintf("%+v", e.Err)
	}
	return fmt.Sprintf("%+v\n%s", e.Err, e.Stack)
}

// ErrorListener receives every [ErrorEvent].
type ErrorListener func(ErrorEvent)

// Errors is the failure boundary shared by all requests of a pipeline: it
// holds the translator and the listeners notified for each trapped error.
type Errors struct {
	translator ErrorTranslator
	metrics    *metrics.Metrics

	mu        sync.RWMutex
	listeners []ErrorListener
}

// NewErrors returns an Errors using t, or DefaultTranslator when t is nil.
func NewErrors(t ErrorTranslator, m *metrics.Metrics) *Errors {
	if t == nil {
		t = DefaultTranslator
	}
	return &Errors{translator: t, metrics: m}
}

// Translator returns the error translator.
func (e *Errors) Translator() ErrorTranslator {
	return e.translator
}

// OnError registers l. Listeners are called synchronously, in registration
// order, on the request goroutine.
func (e *Errors) OnError(l ErrorListener) {
	if l == nil {
		return
	}
	e.mu.Lock()
	e.listeners = append(e.listeners, l)
	e.mu.Unlock()
}

func (e *Errors) emit(ev ErrorEvent) {
	e.mu.RLock()
	listeners := e.listeners
	e.mu.RUnlock()

	for _, l := range listeners {
		l(ev)
	}
}

// handle translates err, notifies listeners and writes the error response
// unless the response has already started.
func (e *Errors) handle(w http.ResponseWriter, r *http.Request, rw *responseWriter, err error, stack []byte) {
	status, body := e.translator.Translate(err)

	e.metrics.ObserveError(status)
	logger.FromRequest(r).Err(err).Int("status", status).Msg("request failed")

	e.emit(ErrorEvent{Status: status, URL: r.URL.String(), Err: err, Stack: stack})

	if rw != nil && rw.Written() {
		return
	}
	if _, wErr := WriteJSON(w, body, status); wErr != nil {
		logger.FromRequest(r).Err(wErr).Msg("error writing error response")
	}
}

type trapKey struct{}

type trap struct {
	errs *Errors
	rw   *responseWriter
}

// Fail reports err for the current request. Inside the pipeline the error
// goes through the trap of the request; outside of it the response is
// written with DefaultTranslator.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	t, ok := r.Context().Value(trapKey{}).(*trap)
	if !ok {
		status, body := DefaultTranslator.Translate(err)
		_, _ = WriteJSON(w, body, status)
		return
	}
	t.errs.handle(w, r, t.rw, err, nil)
}

// Wrap adapts a handler that returns an error. A non-nil error is passed to
// [Fail].
func Wrap(h func(w http.ResponseWriter, r *http.Request) error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			Fail(w, r, err)
		}
	})
}

// panicError turns a recovered panic value into the error reported for it.
func panicError(rec any) error {
	if err, ok := rec.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", rec)
}

// withErrorTrap establishes the failure boundary for every later stage.
// Panics are recovered and reported like errors passed to [Fail], with the
// stack attached. http.ErrAbortHandler is re-panicked so net/http can abort
// the connection.
func withErrorTrap(errs *Errors) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := newResponseWriter(w)
			t := &trap{errs: errs, rw: rw}
			r = r.WithContext(context.WithValue(r.Context(), trapKey{}, t))

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				errs.handle(rw, r, rw, panicError(rec), debug.Stack())
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
