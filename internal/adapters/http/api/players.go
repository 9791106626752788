package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/bigboard/internal/domain/types"
)

// PlayerDependencies defines player lookups.
type PlayerDependencies interface {
	Player(ctx context.Context, playerID int) (types.PlayerDetail, error)
	Scouts() []string
}

// PlayerHandler handles player and scout requests.
type PlayerHandler struct {
	deps PlayerDependencies
}

// NewPlayerHandler creates a new player handler.
func NewPlayerHandler(deps PlayerDependencies) *PlayerHandler {
	return &PlayerHandler{deps: deps}
}

// HandlePlayer handles GET /players/{id} requests.
func (h *PlayerHandler) HandlePlayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_player"
	if !allow(w, r, op, http.MethodGet) {
		return
	}
	// Extract path parameter after /players/
	path := strings.TrimPrefix(r.URL.Path, "/players/")
	id, err := strconv.Atoi(path)
	if path == "" || strings.Contains(path, "/") || err != nil || id <= 0 {
		writeFailure(w, WrapKind(op, ErrBadRequest, errors.New("player id must be a positive integer")))
		return
	}
	detail, err := h.deps.Player(r.Context(), id)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// HandleScouts handles GET /scouts requests.
func (h *PlayerHandler) HandleScouts(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_scouts"
	if !allow(w, r, op, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Scouts())
}
