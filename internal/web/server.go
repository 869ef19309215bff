// Package web provides an HTTP status and control server for the dual-led
// daemon.
package web

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/sweeney/dual-led/internal/led"
	"github.com/sweeney/dual-led/internal/pattern"
	"github.com/sweeney/dual-led/internal/status"
)

// Applier applies a state descriptor. Satisfied by *pattern.Controller.
type Applier interface {
	Apply(descriptor string) error
}

// Server serves the status page and the set endpoint over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	applier    Applier
}

// New creates a Server that reads state from the given tracker and applies
// descriptors through the given applier.
func New(addr string, tracker *status.Tracker, applier Applier) *Server {
	s := &Server{tracker: tracker, applier: applier}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/set", s.handleSet)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(formatJSON(snap))
}

// handleSet applies the descriptor in the request body. Validation failures
// come back as 400 with the error text; hardware failures as 500.
func (s *Server) handleSet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 256))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	descriptor := string(body)
	if err := s.applier.Apply(descriptor); err != nil {
		if isClientError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("descriptor", descriptor).Msg("apply via web failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func isClientError(err error) bool {
	return errors.Is(err, pattern.ErrBadDescriptor) ||
		errors.Is(err, pattern.ErrInvalidFrequency) ||
		errors.Is(err, pattern.ErrInvalidCount) ||
		errors.Is(err, led.ErrUnknownColor)
}
