// Package server runs one HTTP server through an explicit lifecycle.
//
// A [Server] moves through Created, Configured, Mounted, Prepared,
// Listening and Stopped, one transition method per step:
//
//	srv, err := server.New("app", os.DirFS("routes"), server.Options{Config: cfg})
//	if err != nil { ... }
//	if err := srv.Configure(); err != nil { ... } // pipeline + route modules
//	srv.Prepare()                                  // catchall + error listener
//	if err := srv.Start(nil); err != nil { ... }
//	defer srv.Stop(nil)
//
// Calling a transition out of order is a programming error and panics with
// an error wrapping [ErrInvalidTransition]. [Server.Run] performs the whole
// sequence and stops the server on SIGTERM, SIGINT, SIGQUIT or context
// cancellation.
package server
