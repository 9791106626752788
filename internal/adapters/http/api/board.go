package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/bigboard/internal/adapters/repository"
	"github.com/okian/bigboard/pkg/logger"
)

// BoardDependencies defines the board read and edit operations.
type BoardDependencies interface {
	Board(ctx context.Context) ([]Entry, error)
	Reorder(ctx context.Context, playerID, from, to int) ([]Entry, error)
	ResetOverrides(ctx context.Context) error
	Overrides(ctx context.Context) (repository.LoadResult, error)
}

// BoardHandler handles the ordered board and its overrides.
type BoardHandler struct {
	deps BoardDependencies
	log  logger.Logger
}

// NewBoardHandler creates a new board handler.
func NewBoardHandler(deps BoardDependencies, log logger.Logger) *BoardHandler {
	return &BoardHandler{deps: deps, log: log}
}

// reorderRequest mirrors the OpenAPI schema for POST /board/reorder.
type reorderRequest struct {
	PlayerID  int  `json:"player_id"`
	FromIndex *int `json:"from_index"`
	ToIndex   *int `json:"to_index"`
}

func (q reorderRequest) validate() error {
	switch {
	case q.PlayerID <= 0:
		return errors.New("player_id must be positive")
	case q.FromIndex == nil:
		return errors.New("missing from_index")
	case q.ToIndex == nil:
		return errors.New("missing to_index")
	}
	return nil
}

// HandleBoard handles GET /board requests.
func (h *BoardHandler) HandleBoard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_board"
	if !allow(w, r, op, http.MethodGet) {
		return
	}
	board, err := h.deps.Board(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// HandleReorder handles POST /board/reorder requests.
func (h *BoardHandler) HandleReorder(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_reorder"
	if !allow(w, r, op, http.MethodPost) {
		return
	}
	var req reorderRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	board, err := h.deps.Reorder(r.Context(), req.PlayerID, *req.FromIndex, *req.ToIndex)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// HandleOverrides handles GET and DELETE /board/overrides requests.
func (h *BoardHandler) HandleOverrides(w http.ResponseWriter, r *http.Request) {
	const op = "api.overrides"
	if !allow(w, r, op, http.MethodGet, http.MethodDelete) {
		return
	}

	if r.Method == http.MethodDelete {
		if err := h.deps.ResetOverrides(r.Context()); err != nil {
			writeFailure(w, Wrap(op, err))
			return
		}
		h.log.Info(r.Context(), "overrides reset over http", logger.String("requestId", RequestID(r.Context())))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	res, err := h.deps.Overrides(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	out := overridesResponse{Status: res.Status, Entries: res.Entries()}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	writeJSON(w, http.StatusOK, out)
}
