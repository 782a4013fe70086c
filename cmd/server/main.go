// Command server runs the web server over a folder of route modules.
//
// Usage:
//
//	# Start with the embedded route folder
//	server
//
//	# Start with a config file and a route folder on disk
//	server -c config.yaml -routes ./routes
//
//	# Probe a running server
//	server healthcheck
//
//	# List the compiled-in route modules, middleware and session stores
//	server modules
package main

func main() {
	Execute()
}
