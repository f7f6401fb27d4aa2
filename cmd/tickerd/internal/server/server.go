// Package server wires sessions, pages and the websocket gateway into one
// http.Handler.
package server

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/gateway"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/hub"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/livephase"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/nav"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/page"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/session"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/simulator"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/view"
	"github.com/shubham-shewale/afs-ticker/pkg/config"
)

// Options holds what the server needs beyond its config. Zero fields get
// production defaults.
type Options struct {
	Backend     session.Backend
	Instruments config.InstrumentSets
	Routes      []nav.Route
	Clock       page.Clock
	NewRand     func() page.Rand

	// Mirror returns extra ports for a session's board. Optional.
	Mirror func(sessionID, board string) []view.Port
}

type Server struct {
	Hub    *hub.Hub
	mux    *http.ServeMux
	logger *zap.Logger
}

func New(cfg *config.Config, logger *zap.Logger, opts Options) *Server {
	if opts.Backend == nil {
		opts.Backend = session.NewMemoryBackend(cfg.Redis.SessionTTL)
	}
	if opts.Instruments.Ticker == nil && opts.Instruments.Live == nil {
		opts.Instruments = config.DefaultInstruments()
	}
	if opts.Routes == nil {
		opts.Routes = nav.DefaultRoutes()
	}
	if opts.Clock == nil {
		opts.Clock = livephase.RealClock{}
	}
	if opts.NewRand == nil {
		opts.NewRand = func() page.Rand {
			return simulator.RealRand{Rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
		}
	}

	factory := func(sessionID string, sink view.Sink) hub.Page {
		d := page.Deps{
			Logger:      logger,
			Store:       opts.Backend.Scoped(sessionID),
			Rand:        opts.NewRand(),
			Clock:       opts.Clock,
			Instruments: opts.Instruments,
			Routes:      opts.Routes,
			Config:      cfg,
		}
		if opts.Mirror != nil {
			d.Mirror = func(board string) []view.Port { return opts.Mirror(sessionID, board) }
		}
		return page.New(sessionID, sink, d)
	}

	s := &Server{
		Hub:    hub.NewHub(factory, logger),
		mux:    http.NewServeMux(),
		logger: logger,
	}
	s.mux.HandleFunc("/ws", gateway.Handler(s.Hub, logger))
	s.mux.HandleFunc("/healthz", s.health)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":   "ok",
		"sessions": s.Hub.Sessions(),
	})
}

// Shutdown stops every live page.
func (s *Server) Shutdown() {
	s.Hub.Shutdown()
}
