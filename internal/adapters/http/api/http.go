// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/bigboard/internal/adapters/repository"
	"github.com/okian/bigboard/internal/domain/types"
	"github.com/okian/bigboard/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	BoardDependencies
	RankingsDependencies
	PlayerDependencies
}

// Entry mirrors one board row.
type Entry = types.BoardEntry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	boardHandler    *BoardHandler
	rankingsHandler *RankingsHandler
	playerHandler   *PlayerHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		boardHandler:    NewBoardHandler(deps, log.Named("board")),
		rankingsHandler: NewRankingsHandler(deps),
		playerHandler:   NewPlayerHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(path, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(path, RequestIDMiddleware(MetricsMiddleware(h, endpoint)))
	}

	// Specific paths first (most specific to least specific)
	route("/healthz", "healthz", s.healthHandler.HandleHealth)
	mux.Handle("/metrics", s.healthHandler.MetricsHandler())
	route("/stats", "stats", s.statsHandler.HandleStats)
	route("/board/reorder", "reorder", s.boardHandler.HandleReorder)
	route("/board/overrides", "overrides", s.boardHandler.HandleOverrides)
	route("/board", "board", s.boardHandler.HandleBoard)
	route("/rankings", "rankings", s.rankingsHandler.HandleRankings)
	route("/top", "top", s.rankingsHandler.HandleTop)
	route("/players/", "players", s.playerHandler.HandlePlayer)
	route("/scouts", "scouts", s.playerHandler.HandleScouts)
}

// overridesResponse is the saved order as GET /board/overrides reports it.
type overridesResponse struct {
	Status  repository.LoadStatus `json:"status"`
	Entries []types.OrderEntry    `json:"entries"`
	Error   string                `json:"error,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure writes err with the status its kind maps to.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

// allow writes 405 and reports false unless r uses one of methods.
func allow(w http.ResponseWriter, r *http.Request, op string, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	for _, m := range methods {
		w.Header().Add("Allow", m)
	}
	writeFailure(w, NewKind(op, ErrMethod))
	return false
}
