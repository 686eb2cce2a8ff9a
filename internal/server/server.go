// Package server provides the loopback HTTP status server.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/thealiamalia/nyami-bank-state/internal/config"
	"github.com/thealiamalia/nyami-bank-state/internal/event"
)

// LoopbackHost is the only address the server ever binds.
const LoopbackHost = "127.0.0.1"

// StatePath is the single route served.
const StatePath = "/state"

// StateSource supplies the bank open flag for each request.
type StateSource interface {
	BankOpen() bool
}

// Options holds server settings that are not part of the plugin configuration.
type Options struct {
	EnableCORS        bool
	ReadHeaderTimeout time.Duration
}

// DefaultOptions returns default server options.
func DefaultOptions() Options {
	return Options{
		EnableCORS:        true,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Server owns at most one loopback listener. Start, Stop and Restart are
// serialized, so two listeners never coexist and a stale listener never
// outlives its replacement.
type Server struct {
	source StateSource
	bus    *event.Bus
	log    zerolog.Logger
	opts   Options
	router *chi.Mux

	// marshal is swapped in tests to exercise the encode failure path.
	marshal func(v any) ([]byte, error)

	mu         sync.Mutex
	httpSrv    *http.Server
	listener   net.Listener
	done       chan struct{}
	listenerID string
}

// New creates a stopped server. bus may be nil.
func New(source StateSource, bus *event.Bus, log zerolog.Logger, opts Options) *Server {
	s := &Server{
		source:  source,
		bus:     bus,
		log:     log,
		opts:    opts,
		router:  chi.NewRouter(),
		marshal: json.Marshal,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Start binds the listener described by cfg. It is a no-op when already running
// or when HTTP is disabled. Invalid ports and bind failures leave the server
// stopped and are returned; they are never fatal.
func (s *Server) Start(cfg config.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.start(cfg)
}

// Stop closes the listener and any open connections without draining them.
// The port is released when Stop returns. Stopping a stopped server is a no-op.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop()
}

// Restart stops the current listener and starts a new one from cfg as one step.
func (s *Server) Restart(cfg config.Config) error {
	_, err := s.RestartFrom(func() config.Config { return cfg })
	return err
}

// RestartFrom is Restart with the configuration read by load while the
// lifecycle lock is held, so concurrent restarts apply snapshots in the
// order they were taken. It returns the configuration that was applied.
func (s *Server) RestartFrom(load func() config.Config) (config.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.stop(); err != nil {
		s.log.Warn().Err(err).Msg("error closing previous listener")
	}
	cfg := load()
	return cfg, s.start(cfg)
}

// Running reports whether a listener is bound.
func (s *Server) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.httpSrv != nil
}

// Addr returns the bound address, or nil when stopped.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// URL returns the state endpoint URL, or "" when stopped.
func (s *Server) URL() string {
	addr := s.Addr()
	if addr == nil {
		return ""
	}
	return "http://" + addr.String() + StatePath
}

// Router returns the chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) start(cfg config.Config) error {
	if s.httpSrv != nil {
		return nil
	}

	if !cfg.EnableHTTP {
		s.log.Info().Msg("HTTP disabled, status server not started")
		return nil
	}

	if err := config.ValidatePort(cfg.Port); err != nil {
		s.log.Warn().Int("port", cfg.Port).Msgf("Port %d is invalid or privileged. Choose %d-%d.", cfg.Port, config.MinPort, config.MaxPort)
		return err
	}

	addr := net.JoinHostPort(LoopbackHost, strconv.Itoa(cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.log.Error().Err(err).Int("port", cfg.Port).Msg("failed to start HTTP server")
		return fmt.Errorf("bind %s: %w", addr, err)
	}

	id := ulid.Make().String()
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: s.opts.ReadHeaderTimeout,
	}
	done := make(chan struct{})

	go func() {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Str("listener", id).Msg("status server stopped unexpectedly")
		}
	}()

	s.httpSrv = srv
	s.listener = ln
	s.done = done
	s.listenerID = id

	url := "http://" + ln.Addr().String() + StatePath
	s.log.Info().Str("listener", id).Str("url", url).Msg("status server listening")
	s.publish(event.Event{
		Type: event.ServerListening,
		Data: event.ServerListeningData{ListenerID: id, URL: url},
	})

	return nil
}

func (s *Server) stop() error {
	if s.httpSrv == nil {
		return nil
	}

	err := s.httpSrv.Close()
	<-s.done

	id := s.listenerID
	s.httpSrv = nil
	s.listener = nil
	s.done = nil
	s.listenerID = ""

	s.log.Info().Str("listener", id).Msg("status server stopped")
	s.publish(event.Event{
		Type: event.ServerStopped,
		Data: event.ServerStoppedData{ListenerID: id},
	})

	return err
}

// publish is asynchronous because it runs under s.mu.
func (s *Server) publish(e event.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}
