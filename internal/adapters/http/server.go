// Package http serves the inspection viewers and metrics. The server starts
// lazily on the first "show ..._viewer" command and shuts down with the
// shell.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariunbolor/cozmo-tools/internal/observability"
	"github.com/ariunbolor/cozmo-tools/pkg/ports"
)

// Server exposes JSON snapshots of the session's world model.
type Server struct {
	addr    string
	session ports.Session
	metrics *observability.Metrics
	logger  *slog.Logger

	mu  sync.Mutex
	srv *http.Server
	ln  net.Listener
}

// New creates a server bound to addr once started. Metrics may be nil.
func New(addr string, session ports.Session, metrics *observability.Metrics, logger *slog.Logger) *Server {
	if addr == "" {
		addr = "127.0.0.1:8501"
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{addr: addr, session: session, metrics: metrics, logger: logger}
}

// Handler builds the route tree. Exported so tests can drive it with
// httptest without opening a socket.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/viewer/cam", s.handleCam)
	r.Get("/viewer/particles", s.handleParticles)
	r.Get("/viewer/path", s.handlePath)
	r.Get("/viewer/worldmap", s.handleWorldMap)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}
	return r
}

// EnsureStarted starts the listener once and returns its address. Safe to
// call on every "show" command.
func (s *Server) EnsureStarted(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln != nil {
		return s.ln.Addr().String(), nil
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return "", err
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Warn("viewer server stopped", "err", err)
		}
	}()

	s.srv = srv
	s.ln = ln
	s.logger.Info("viewer server started", "addr", ln.Addr().String())
	return ln.Addr().String(), nil
}

// Shutdown drains the server if it was ever started.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.ln = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	sctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}

func (s *Server) handleCam(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.session.World().Camera())
}

func (s *Server) handleParticles(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]any{
		"particles": s.session.World().Particles(),
	})
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]any{
		"path": s.session.World().Path(),
	})
}

func (s *Server) handleWorldMap(w http.ResponseWriter, r *http.Request) {
	cubes := make([]map[string]any, 0, ports.NumCubes)
	for i := 1; i <= ports.NumCubes; i++ {
		if cube, ok := s.session.Cube(i); ok {
			cubes = append(cubes, map[string]any{"id": cube.ID(), "pose": cube.Pose()})
		}
	}
	s.writeJSON(w, map[string]any{
		"landmarks": s.session.World().Landmarks(),
		"charger":   s.session.Charger().Pose(),
		"cubes":     cubes,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encoding viewer response", "err", err)
	}
}
