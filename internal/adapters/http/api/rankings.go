package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/bigboard/internal/domain/ranking"
)

// RankingsDependencies defines the read-only ranking views.
type RankingsDependencies interface {
	ScoutBoard(ctx context.Context, view string) ([]Entry, error)
	TopN(ctx context.Context, n int) ([]Entry, error)
}

// RankingsHandler handles scout boards and top-N requests.
type RankingsHandler struct {
	deps RankingsDependencies
}

// NewRankingsHandler creates a new rankings handler.
func NewRankingsHandler(deps RankingsDependencies) *RankingsHandler {
	return &RankingsHandler{deps: deps}
}

// HandleRankings handles GET /rankings?scout=NAME requests. A missing
// scout means consensus.
func (h *RankingsHandler) HandleRankings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rankings"
	if !allow(w, r, op, http.MethodGet) {
		return
	}
	view := r.URL.Query().Get("scout")
	if view == "" {
		view = ranking.ConsensusView
	}
	board, err := h.deps.ScoutBoard(r.Context(), view)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// HandleTop handles GET /top?limit=N requests. A missing limit means the
// configured default.
func (h *RankingsHandler) HandleTop(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_top"
	if !allow(w, r, op, http.MethodGet) {
		return
	}
	n := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v < 1 {
			writeFailure(w, WrapKind(op, ErrBadRequest, errors.New("limit must be a positive integer")))
			return
		}
		n = v
	}
	board, err := h.deps.TopN(r.Context(), n)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, board)
}
