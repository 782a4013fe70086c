// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-web-server/internal/config"
	myHTTP "github.com/MKhiriev/go-web-server/internal/handler/http"
	"github.com/MKhiriev/go-web-server/internal/logger"
	"github.com/MKhiriev/go-web-server/internal/metrics"
	"github.com/MKhiriev/go-web-server/internal/mount"
	"github.com/MKhiriev/go-web-server/internal/service"
	"github.com/MKhiriev/go-web-server/internal/session"
)

const (
	// DefaultPort is used when neither PORT nor the port key is set.
	DefaultPort = 3000

	// EnvPort overrides the configured port.
	EnvPort = "PORT"

	// EnvEnvironment overrides the configured environment label.
	EnvEnvironment = "APP_ENV"

	defaultShutdownTimeout = 10 * time.Second
)

// State is a lifecycle step of a [Server].
type State int

const (
	StateCreated State = iota
	StateConfigured
	StateMounted
	StatePrepared
	StateListening
	StateStopped
)

var stateNames = [...]string{"created", "configured", "mounted", "prepared", "listening", "stopped"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "state(" + strconv.Itoa(int(s)) + ")"
	}
	return stateNames[s]
}

// Options are the collaborators of a [Server]. Every field is optional.
type Options struct {
	// Config is the configuration snapshot; an empty one when nil.
	Config config.Provider

	Logger *logger.Logger

	// Sink receives request log lines and server error reports. Defaults
	// to a sink on Logger.
	Sink logger.Sink

	// Store overrides the session store named by the session key.
	Store session.Store

	// Auth overrides the JWT service built from the auth:* keys.
	Auth service.AuthService

	// Translator overrides myHTTP.DefaultTranslator.
	Translator myHTTP.ErrorTranslator

	// Metrics defaults to a fresh set namespaced by the server name.
	Metrics *metrics.Metrics

	// AppInfo is handed to route modules.
	AppInfo service.AppInfoService

	// ShutdownTimeout bounds Stop. Defaults to 10 seconds.
	ShutdownTimeout time.Duration
}

// Server is one HTTP server and its lifecycle state. The transition methods
// are meant to be called from a single goroutine at startup; the accessors
// are safe for concurrent use.
type Server struct {
	name        string
	folder      fs.FS
	port        int
	environment string

	cfg             config.Provider
	logger          *logger.Logger
	sink            logger.Sink
	store           session.Store
	auth            service.AuthService
	translator      myHTTP.ErrorTranslator
	metrics         *metrics.Metrics
	appInfo         service.AppInfoService
	shutdownTimeout time.Duration

	mu         sync.RWMutex
	state      State
	pipeline   *myHTTP.Pipeline
	router     *chi.Mux
	middleware mount.Chain
	modules    []mount.Module
	http       *httpServer
}

// New creates a server named name for the route folder. The port is PORT,
// then the port key, then DefaultPort; the environment is APP_ENV, then the
// environment key, then development.
func New(name string, folder fs.FS, opts Options) (*Server, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errEmptyName
	}
	if folder == nil {
		folder = emptyFolder{}
	}
	if opts.Config == nil {
		opts.Config = config.MapProvider{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Sink == nil {
		opts.Sink = logger.NewSink(opts.Logger)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New(metricsNamespace(name))
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}

	port, err := resolvePort(opts.Config)
	if err != nil {
		return nil, err
	}

	return &Server{
		name:            name,
		folder:          folder,
		port:            port,
		environment:     resolveEnvironment(opts.Config),
		cfg:             opts.Config,
		logger:          opts.Logger,
		sink:            opts.Sink,
		store:           opts.Store,
		auth:            opts.Auth,
		translator:      opts.Translator,
		metrics:         opts.Metrics,
		appInfo:         opts.AppInfo,
		shutdownTimeout: opts.ShutdownTimeout,
		state:           StateCreated,
	}, nil
}

// Configure builds the session store, the authenticator and the pipeline
// with the folder's custom middleware, installs it on a fresh router and
// mounts the route modules. It requires StateCreated and leaves the server
// in StateMounted. On error the state is unchanged.
func (s *Server) Configure() error {
	s.require("Configure", StateCreated)

	chain, err := mount.Middleware(s.folder)
	if err != nil {
		return fmt.Errorf("error resolving middleware: %w", err)
	}

	if s.store == nil {
		store, err := session.NewStore(config.GetString(s.cfg, "session", session.DefaultStore), s.cfg, s.logger)
		if err != nil {
			return err
		}
		s.store = store
	}
	if s.auth == nil {
		s.auth = service.NewAuthServiceFromProvider(s.cfg, s.logger)
	}

	pipeline, err := myHTTP.NewPipeline(myHTTP.PipelineOptions{
		Name:          s.name,
		Environment:   s.environment,
		Config:        s.cfg,
		Logger:        s.logger,
		Sink:          s.sink,
		Store:         s.store,
		Authenticator: s.auth,
		Translator:    s.translator,
		Metrics:       s.metrics,
		Custom:        chain.Handlers(),
	})
	if err != nil {
		return err
	}

	router := chi.NewRouter()
	pipeline.Install(router)

	s.mu.Lock()
	s.pipeline = pipeline
	s.router = router
	s.middleware = chain
	s.state = StateConfigured
	s.mu.Unlock()

	if err := s.Mount(); err != nil {
		s.mu.Lock()
		s.pipeline = nil
		s.router = nil
		s.middleware = nil
		s.state = StateCreated
		s.mu.Unlock()
		return err
	}
	return nil
}

// Mount registers the route modules of the folder after the pipeline. It
// requires StateConfigured; Configure calls it.
func (s *Server) Mount() error {
	s.require("Mount", StateConfigured)

	modules, err := mount.Mount(s.router, s.folder, mount.Deps{
		Name:       s.name,
		Middleware: s.middleware,
		Errors:     s.pipeline.Errors(),
		Config:     s.cfg,
		Logger:     s.logger,
		Metrics:    s.metrics,
		Tokens:     s.auth,
		AppInfo:    s.appInfo,
	})
	if err != nil {
		return fmt.Errorf("error mounting routes: %w", err)
	}

	s.mu.Lock()
	s.modules = modules
	s.state = StateMounted
	s.mu.Unlock()

	return nil
}

// Prepare installs the catchall and the listener that reports trapped
// errors to the sink. It requires StateMounted.
func (s *Server) Prepare() {
	s.require("Prepare", StateMounted)

	catchall := s.pipeline.Catchall()
	if len(s.router.Routes()) == 0 {
		// chi bypasses its middleware while a mux has no routes.
		s.router.Handle("/*", catchall)
	}
	s.pipeline.InstallCatchall(s.router)

	stack := config.GetBool(s.cfg, "logging:stack", false)
	s.pipeline.Errors().OnError(func(ev myHTTP.ErrorEvent) {
		s.sink.Error(ev.Status, ev.URL, ev.Detail(stack))
	})

	s.mu.Lock()
	s.state = StatePrepared
	s.mu.Unlock()
}

// Start binds the port and serves in the background. onReady, when not
// nil, is called once the socket is bound. It requires StatePrepared.
func (s *Server) Start(onReady func()) error {
	s.require("Start", StatePrepared)

	listener, err := net.Listen("tcp", ":"+strconv.Itoa(s.port))
	if err != nil {
		return fmt.Errorf("error listening on port %d: %w", s.port, err)
	}
	srv := newHTTPServer(s.router, listener, s.logger)

	s.mu.Lock()
	if addr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = addr.Port
	}
	s.http = srv
	s.state = StateListening
	s.mu.Unlock()

	s.sink.Info(fmt.Sprintf("%s: starting %s server at port %d", s.name, s.environment, s.Port()))
	go srv.RunServer()

	if onReady != nil {
		onReady()
	}
	return nil
}

// Stop shuts the listener down, waits for in-flight requests and closes
// the session store. onClosed, when not nil, is called once the socket is
// released. It requires StateListening.
func (s *Server) Stop(onClosed func()) error {
	s.require("Stop", StateListening)

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	err := s.http.Shutdown(ctx)
	<-s.http.done

	if closer, ok := s.store.(io.Closer); ok {
		if cerr := closer.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("error closing session store: %w", cerr))
		}
	}

	s.mu.Lock()
	s.state = StateStopped
	s.mu.Unlock()

	s.logger.Info().Str("server", s.name).Msg("server Shutdown gracefully")
	if onClosed != nil {
		onClosed()
	}
	return err
}

// Run brings the server to StateListening from StateCreated, StateMounted
// or StatePrepared, then blocks until ctx is done, a stop signal arrives or
// serving fails, and stops the server.
func (s *Server) Run(ctx context.Context) error {
	switch s.State() {
	case StateCreated:
		if err := s.Configure(); err != nil {
			return err
		}
		s.Prepare()
	case StateMounted:
		s.Prepare()
	}

	ctx, stop := signal.NotifyContext(ctx,
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	if err := s.Start(nil); err != nil {
		return err
	}

	var serveErr error
	select {
	case <-ctx.Done():
	case err, ok := <-s.http.done:
		if ok {
			serveErr = err
		}
	}

	return errors.Join(serveErr, s.Stop(nil))
}

// State returns the current lifecycle state.
func (s *Server) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Name returns the application name.
func (s *Server) Name() string {
	return s.name
}

// Port returns the port to bind, or the bound port once listening.
func (s *Server) Port() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.port
}

// Environment returns the environment label.
func (s *Server) Environment() string {
	return s.environment
}

// Addr returns the listener address, or an empty string when not
// listening.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.http == nil || s.state != StateListening {
		return ""
	}
	return s.http.listener.Addr().String()
}

// Handler returns the root handler: the pipeline, the route modules and,
// once prepared, the catchall. It is nil before Configure.
func (s *Server) Handler() http.Handler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.router == nil {
		return nil
	}
	return s.router
}

// Modules returns the mounted route modules in mount order.
func (s *Server) Modules() []mount.Module {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]mount.Module(nil), s.modules...)
}

// Pipeline returns the pipeline, nil before Configure.
func (s *Server) Pipeline() *myHTTP.Pipeline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pipeline
}

func (s *Server) require(op string, want State) {
	if got := s.State(); got != want {
		panic(fmt.Errorf("%w: %s requires state %s, server is %s", ErrInvalidTransition, op, want, got))
	}
}

func resolvePort(cfg config.Provider) (int, error) {
	port := config.GetInt(cfg, "port", DefaultPort)
	if v, ok := os.LookupEnv(EnvPort); ok && v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %s=%q", ErrInvalidPort, EnvPort, v)
		}
		port = p
	}
	if port < 0 || port > 65535 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPort, port)
	}
	return port, nil
}

func resolveEnvironment(cfg config.Provider) string {
	if v := os.Getenv(EnvEnvironment); v != "" {
		return v
	}
	return config.GetString(cfg, "environment", myHTTP.EnvDevelopment)
}

// metricsNamespace turns name into a valid prometheus namespace.
func metricsNamespace(name string) string {
	ns := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, name)
	if ns == "" || (ns[0] >= '0' && ns[0] <= '9') {
		ns = "_" + ns
	}
	return ns
}

type emptyFolder struct{}

func (emptyFolder) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}
