// Package http implements the request pipeline of the web server.
//
// A [Pipeline] installs a fixed, ordered chain of cross-cutting stages on a
// chi router: request entry and tracing, TLS enforcement, the error trap,
// body parsing, method override, compression, CORS, optional rate limiting,
// session, origin and authentication, the request context snapshot, request
// logging and finally any custom middleware. Route modules are mounted after
// the chain; the catchall answers everything they do not.
//
// Handlers report failures with [Fail] (or return them from a handler wrapped
// by [Wrap]); the error trap translates them into a JSON error response with
// an [ErrorTranslator] and notifies the registered error listeners.
package http
