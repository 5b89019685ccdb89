// Package web provides the HTTP control surface for the relay-thermostat
// daemon: a status page plus the mode/relay/threshold override routes.
// All routes are GET, matching the device's original interface.
package web

import (
	"context"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/sweeney/relay-thermostat/internal/control"
	"github.com/sweeney/relay-thermostat/internal/logic"
	"github.com/sweeney/relay-thermostat/internal/mqtt"
)

// Server serves the status page and control routes over HTTP.
type Server struct {
	httpServer *http.Server
	ctrl       *control.Controller
	publisher  mqtt.Publisher
	now        func() time.Time
}

// New creates a Server mutating state through the given controller.
// Transition events produced by control routes are forwarded to the publisher.
func New(addr string, ctrl *control.Controller, publisher mqtt.Publisher) *Server {
	s := &Server{
		ctrl:      ctrl,
		publisher: publisher,
		now:       time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/toggleMode", s.handleToggleMode)
	mux.HandleFunc("/relayOn", s.handleRelayOn)
	mux.HandleFunc("/relayOff", s.handleRelayOff)
	mux.HandleFunc("/setCritical", s.handleSetCritical)

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
	snap := s.ctrl.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.ctrl.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(formatJSON(snap))
}

func (s *Server) handleToggleMode(w http.ResponseWriter, r *http.Request) {
	ev := s.ctrl.ToggleMode(s.now())
	s.publish(ev)
	redirectHome(w, r)
}

func (s *Server) handleRelayOn(w http.ResponseWriter, r *http.Request) {
	// No-op in automatic mode; the request is still acknowledged.
	if ev := s.ctrl.SetOutput(true, s.now()); ev != nil {
		s.publish(*ev)
	}
	redirectHome(w, r)
}

func (s *Server) handleRelayOff(w http.ResponseWriter, r *http.Request) {
	if ev := s.ctrl.SetOutput(false, s.now()); ev != nil {
		s.publish(*ev)
	}
	redirectHome(w, r)
}

func (s *Server) handleSetCritical(w http.ResponseWriter, r *http.Request) {
	// Missing or non-numeric input silently leaves the threshold unchanged;
	// the caller still gets the redirect. This matches the device's lenient
	// behavior and is kept on purpose.
	if v, err := strconv.ParseFloat(r.URL.Query().Get("temp"), 64); err == nil {
		s.ctrl.SetCritical(v, s.now())
	}
	redirectHome(w, r)
}

func (s *Server) publish(ev logic.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ev); err != nil {
		log.Printf("publish %s: %v", ev.Type, err)
	}
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusFound)
}
