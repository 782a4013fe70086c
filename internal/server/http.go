package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/MKhiriev/go-web-server/internal/logger"
)

const readHeaderTimeout = 10 * time.Second

// httpServer serves one listener until it is shut down.
type httpServer struct {
	server   *http.Server
	listener net.Listener
	logger   *logger.Logger

	// done receives the terminal Serve error, if any, and is then closed.
	done chan error
}

func newHTTPServer(handler http.Handler, listener net.Listener, log *logger.Logger) *httpServer {
	return &httpServer{
		server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
			ErrorLog:          logger.StdLogger(log),
		},
		listener: listener,
		logger:   log,
		done:     make(chan error, 1),
	}
}

// RunServer serves until Shutdown is called or the listener fails.
func (h *httpServer) RunServer() {
	defer close(h.done)

	if err := h.server.Serve(h.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		h.logger.Err(err).Msg("HTTP server Serve failed")
		h.done <- err
	}
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires; remaining connections are then closed.
func (h *httpServer) Shutdown(ctx context.Context) error {
	if err := h.server.Shutdown(ctx); err != nil {
		h.logger.Err(err).Msg("HTTP server Shutdown")
		_ = h.server.Close()
		return err
	}
	return nil
}
