// Package debugserver exposes metrics, the current console state, and pprof
// over HTTP while a long running command is active.
package debugserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// StateFunc returns a JSON encodable view of the current state.
type StateFunc func() any

type Server struct {
	log        zerolog.Logger
	httpServer *http.Server
	listener   net.Listener
	addr       string
}

// New builds a server listening on addr once started. registry may be nil,
// in which case /metrics is not mounted; the same applies to state and
// /debug/state.
func New(addr string, registry *prometheus.Registry, state StateFunc, log zerolog.Logger) *Server {
	return &Server{
		log:  log,
		addr: addr,
		httpServer: &http.Server{
			Handler:           Router(registry, state),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Router builds the handler tree served by Server.
func Router(registry *prometheus.Registry, state StateFunc) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	}

	if state != nil {
		r.Get("/debug/state", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if err := enc.Encode(state()); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		})
	}

	r.Mount("/debug", middleware.Profiler())

	return r
}

func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	s.listener = listener

	s.log.Info().Str("addr", listener.Addr().String()).Msg("starting debug server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("debug server failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down debug server")
	return s.httpServer.Shutdown(ctx)
}
