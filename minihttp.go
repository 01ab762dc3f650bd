package minihttp

import (
	"fmt"
	"net"
	"sync"

	"github.com/indigo-web/minihttp/config"
	"github.com/indigo-web/minihttp/internal/metrics"
	"github.com/indigo-web/minihttp/internal/server"
	"github.com/indigo-web/minihttp/logging"
	"github.com/indigo-web/minihttp/router"
	"github.com/indigo-web/minihttp/static"
	"github.com/indigo-web/minihttp/store"
	"github.com/indigo-web/minihttp/transport"
	"github.com/rs/zerolog"
)

type State uint8

const (
	Stopped State = iota
	Starting
	Running
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Starting:
		return "starting"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// App is the server's lifecycle: it owns the listening socket while running and is
// driven by Start and Stop, which may be called any number of times in any order.
type App struct {
	cfg      *config.Config
	sink     logging.Sink
	logger   zerolog.Logger
	metrics  *metrics.Metrics
	store    *store.File
	resolver *static.Resolver
	handler  *server.Handler
	hooks    hooks

	mu    sync.Mutex
	state State
	tcp   *transport.TCP
	done  chan struct{}
}

type hooks struct {
	OnStart, OnStop func()
}

// New returns a stopped App. Sink receives the human-readable lifecycle lines, logger the
// structured ones. Metrics may be nil.
func New(cfg *config.Config, sink logging.Sink, logger zerolog.Logger, m *metrics.Metrics) *App {
	if sink == nil {
		sink = logging.Discard
	}

	resolver := static.NewResolver(cfg.Resources.Root, sink)
	records := store.NewFile(cfg.Store.Path)
	r := router.New(cfg.Resources, resolver, records, sink, m)
	done := make(chan struct{})
	close(done)

	return &App{
		cfg:      cfg,
		sink:     sink,
		logger:   logging.WithComponent(logger, "app"),
		metrics:  m,
		store:    records,
		resolver: resolver,
		handler:  server.NewHandler(cfg, r, sink, logging.WithComponent(logger, "handler"), m),
		done:     done,
	}
}

// NotifyOnStart calls the callback every time the server starts accepting connections.
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback every time the server is stopped by Stop.
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Start binds the listening socket and runs the accept loop in the background. If the
// server is already running, only a notice is logged.
func (a *App) Start() error {
	a.mu.Lock()
	if a.state != Stopped {
		a.mu.Unlock()
		a.sink.Log(zerolog.WarnLevel, "Server is already running.")
		return nil
	}

	a.state = Starting
	a.mu.Unlock()

	tcp, err := transport.Bind(a.cfg.Address(), a.cfg.NET.Backlog)
	if err != nil {
		a.mu.Lock()
		a.state = Stopped
		a.mu.Unlock()
		a.logger.Error().Err(err).Str("addr", a.cfg.Address()).Msg("bind failed")
		a.sink.Log(zerolog.ErrorLevel, fmt.Sprintf("Error starting server: %v", err))
		return err
	}

	done := make(chan struct{})
	a.mu.Lock()
	a.tcp = tcp
	a.done = done
	a.state = Running
	a.mu.Unlock()

	a.sink.Log(zerolog.InfoLevel, fmt.Sprintf("Server started on port %d...", port(tcp.Addr())))
	a.logger.Info().Stringer("addr", tcp.Addr()).Msg("listening")
	callIfNotNil(a.hooks.OnStart)

	go a.run(tcp, done)

	return nil
}

func (a *App) run(tcp *transport.TCP, done chan struct{}) {
	defer close(done)

	if err := tcp.Listen(a.serve); err != nil {
		a.logger.Error().Err(err).Msg("accept loop terminated")

		a.mu.Lock()
		if a.tcp == tcp {
			a.tcp = nil
			a.state = Stopped
		}
		a.mu.Unlock()
		_ = tcp.Stop()
	}
}

func (a *App) serve(conn net.Conn) {
	a.metrics.Connection()
	a.sink.Log(zerolog.InfoLevel, fmt.Sprintf("Connection from %s", conn.RemoteAddr()))
	a.handler.Serve(conn)
}

// Stop closes the listening socket. Connections being handled at the moment are served
// to the end. If the server isn't running, only a notice is logged.
func (a *App) Stop() {
	a.mu.Lock()
	if a.state != Running {
		a.mu.Unlock()
		a.sink.Log(zerolog.WarnLevel, "Server is not running.")
		return
	}

	tcp := a.tcp
	a.tcp = nil
	a.state = Stopped
	a.mu.Unlock()

	if err := tcp.Stop(); err != nil {
		a.logger.Warn().Err(err).Msg("closing the listener")
	}

	a.sink.Log(zerolog.InfoLevel, "Server stopped.")
	callIfNotNil(a.hooks.OnStop)
}

// Addr returns the bound address, or nil if the server isn't running.
func (a *App) Addr() net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.tcp == nil {
		return nil
	}

	return a.tcp.Addr()
}

func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Done returns a channel that is closed once the accept loop of the latest run exits. If
// the server was never started, the channel is already closed.
func (a *App) Done() <-chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.done
}

// Store returns the store submitted records are appended to.
func (a *App) Store() *store.File {
	return a.store
}

// Resources returns the paths of the served static resources.
func (a *App) Resources() []string {
	return []string{
		a.resolver.Path(a.cfg.Resources.Index),
		a.resolver.Path(a.cfg.Resources.Book),
	}
}

func port(addr net.Addr) int {
	if tcpaddr, ok := addr.(*net.TCPAddr); ok {
		return tcpaddr.Port
	}

	return 0
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}
