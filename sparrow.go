package sparrow

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/indigo-web/sparrow/config"
	"github.com/indigo-web/sparrow/internal/pool"
	"github.com/indigo-web/sparrow/internal/server/http"
	"github.com/indigo-web/sparrow/internal/server/tcp"
	"github.com/indigo-web/sparrow/router"
	"github.com/indigo-web/sparrow/security"
)

type ListenerConstructor func(network, addr string) (net.Listener, error)

type hooks struct {
	OnStart, OnStop func()
}

// App glues everything together: it listens, accepts connections and dispatches them to
// the workers, which serve them with the router.
type App struct {
	cfg         *config.Config
	protocol    security.Protocol
	constructor ListenerConstructor
	hooks       hooks

	mu       sync.Mutex
	server   *tcp.Server
	shutdown atomic.Bool
}

// New returns a new App instance. If nil config is passed, config.Default() is used.
func New(cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Default()
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &App{
		cfg:         cfg,
		protocol:    security.None{},
		constructor: net.Listen,
	}
}

// Secure sets the protocol checked on every secured route. Defaults to security.None.
func (a *App) Secure(protocol security.Protocol) *App {
	a.protocol = protocol
	return a
}

// Listener replaces the default net.Listen.
func (a *App) Listener(constructor ListenerConstructor) *App {
	a.constructor = constructor
	return a
}

// NotifyOnStart calls the callback at the moment the listener is bound, right before the
// first connection is accepted.
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback after the server is stopped. It's guaranteed that at this
// moment no new connections are accepted and all the accepted ones are served.
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Serve compiles the routes and starts serving. It blocks until the app is stopped, in
// which case nil is returned.
func (a *App) Serve(routes []router.Route) error {
	logger := a.cfg.Logger
	r, err := router.New(routes, router.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("sparrow: %w", err)
	}

	sock, err := a.constructor("tcp", a.cfg.Address())
	if err != nil {
		return fmt.Errorf("sparrow: listen: %w", err)
	}

	workers := pool.New(a.cfg.Workers.Count, pool.WithLogger(logger))
	conns := http.NewServer(r, a.protocol, a.cfg.NET.ReadBufferSize, logger)
	server := tcp.NewServer(sock, workers, conns.Serve, logger)

	a.mu.Lock()
	a.server = server
	a.mu.Unlock()

	if a.shutdown.Load() {
		// stopped before even started
		_ = server.Stop()
	}

	logger.Info(
		"listening",
		slog.String("addr", sock.Addr().String()),
		slog.Int("workers", a.cfg.Workers.Count),
		slog.Int("routes", len(routes)),
	)
	callIfNotNil(a.hooks.OnStart)

	err = server.Start()
	stats := workers.Stats()
	logger.Info(
		"stopped",
		slog.Uint64("served", stats.Completed),
		slog.Uint64("panicked", stats.Panicked),
	)
	callIfNotNil(a.hooks.OnStop)

	if errors.Is(err, tcp.ErrShutdown) {
		return nil
	}

	return err
}

// Stop closes the listener. Serve returns as soon as every accepted connection is served.
func (a *App) Stop() error {
	a.shutdown.Store(true)

	a.mu.Lock()
	server := a.server
	a.mu.Unlock()

	if server == nil {
		return nil
	}

	return server.Stop()
}

// Addr returns the address the app listens on, or nil if it isn't serving yet.
func (a *App) Addr() net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server == nil {
		return nil
	}

	return a.server.Addr()
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}
