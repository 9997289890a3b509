// Package query exposes the engine's read operations over HTTP for external
// indexers and dashboards. The surface is read-only; every mutation goes
// through the engine's transactional entry points.
package query

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"

	"github.com/devdao-labs/devdao-node/engine/core"
)

// Server provides the HTTP query endpoints.
type Server struct {
	engine *core.Engine
	logger zerolog.Logger
	server *http.Server
}

// NewServer builds the router over the engine's read API. The prometheus
// gatherer is served under /metrics.
func NewServer(engine *core.Engine, gatherer prometheus.Gatherer, logger zerolog.Logger, port int) *Server {
	s := &Server{
		engine: engine,
		logger: logger,
	}

	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/proposals", s.handleProposals).Methods(http.MethodGet)
	api.HandleFunc("/proposals/{id}", s.handleProposal).Methods(http.MethodGet)
	api.HandleFunc("/treasury", s.handleTreasury).Methods(http.MethodGet)
	api.HandleFunc("/developers/{address}", s.handleDeveloper).Methods(http.MethodGet)
	api.HandleFunc("/repositories", s.handleRepositories).Methods(http.MethodGet)
	api.HandleFunc("/challenges/{id}", s.handleChallenge).Methods(http.MethodGet)
	api.HandleFunc("/bounties/{id}", s.handleBounty).Methods(http.MethodGet)
	api.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}
	return s
}

// Start serves in a goroutine until Stop.
func (s *Server) Start() error {
	if s.server == nil {
		return fmt.Errorf("query server is nil")
	}

	go func() {
		err := s.server.ListenAndServe()
		switch err {
		case nil, http.ErrServerClosed:
			s.logger.Info().Msg("query server stopped")
		default:
			s.logger.Error().Err(err).Msg("query server error")
		}
	}()

	// Give the listener a moment to bind before callers probe /health.
	time.Sleep(100 * time.Millisecond)
	return nil
}

// Stop shuts the HTTP server down.
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// Response is the standard query envelope.
type Response struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode query response")
	}
}

func (s *Server) writeData(w http.ResponseWriter, data any, err error) {
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, Response{Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, Response{Data: data})
}

func pathID(r *http.Request) uint {
	return cast.ToUint(mux.Vars(r)["id"])
}

// handleProposals lists proposals; ?active=true narrows to the active set,
// otherwise terminal proposals are included.
func (s *Server) handleProposals(w http.ResponseWriter, r *http.Request) {
	if cast.ToBool(r.URL.Query().Get("active")) {
		views, err := s.engine.GetActiveProposals()
		s.writeData(w, views, err)
		return
	}
	views, err := s.engine.GetProposals()
	s.writeData(w, views, err)
}

func (s *Server) handleProposal(w http.ResponseWriter, r *http.Request) {
	view, err := s.engine.GetProposal(pathID(r))
	s.writeData(w, view, err)
}

func (s *Server) handleTreasury(w http.ResponseWriter, r *http.Request) {
	info, err := s.engine.GetTreasuryInfo()
	if err != nil {
		s.writeData(w, nil, err)
		return
	}
	s.writeData(w, map[string]any{
		"balance":         info.Balance.String(),
		"allocation":      info.Allocation,
		"total_withdrawn": info.TotalWithdrawn.String(),
		"yield_balance":   info.YieldBalance.String(),
	}, nil)
}

func (s *Server) handleDeveloper(w http.ResponseWriter, r *http.Request) {
	profile, err := s.engine.ProfileOf(mux.Vars(r)["address"])
	s.writeData(w, profile, err)
}

func (s *Server) handleRepositories(w http.ResponseWriter, r *http.Request) {
	repos, err := s.engine.Repositories()
	s.writeData(w, repos, err)
}

func (s *Server) handleChallenge(w http.ResponseWriter, r *http.Request) {
	challenge, err := s.engine.GetChallenge(pathID(r))
	s.writeData(w, challenge, err)
}

func (s *Server) handleBounty(w http.ResponseWriter, r *http.Request) {
	bounty, err := s.engine.GetBounty(pathID(r))
	s.writeData(w, bounty, err)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.engine.Events()
	s.writeData(w, events, err)
}
