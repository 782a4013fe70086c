// Package mount resolves the route folder of a server into middleware and
// route modules.
//
// Modules are Go code registered by name with [RegisterRoutes] and
// [RegisterMiddleware], usually from an init function. The folder only
// selects and configures them: every *.yaml, *.yml or *.json file at its
// root describes one route module, every such file under middleware/
// describes one custom middleware. A descriptor names the registered
// factory, the mount prefix and free-form options:
//
//	factory: health
//	prefix: /health
//	options:
//	  verbose: true
//
// File names carry no meaning beyond ordering: descriptors are processed in
// lexical file order, so an unchanged folder always mounts in the same
// order.
package mount
