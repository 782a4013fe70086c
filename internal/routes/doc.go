// Package routes holds the built-in route modules. Importing the package
// registers them with the mount registry:
//
//	health   GET /            liveness probe
//	whoami   GET /            the request context of the caller
//	session  POST /, DELETE / write to or destroy the caller's session
//	token    POST /           issue a token for a user and keep it in the session
//	metrics  GET /            prometheus exposition
//	version  GET /, GET /build build metadata
//
// A route folder selects the modules and their prefixes.
package routes
