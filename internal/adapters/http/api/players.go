package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/lineup/internal/adapters/repository"
	"github.com/okian/lineup/internal/domain/model"
)

// PlayersHandler handles roster snapshot pushes and anchor queries.
type PlayersHandler struct {
	deps Dependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps Dependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandlePlayers handles PUT and GET /players requests.
func (h *PlayersHandler) HandlePlayers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		var players []model.Player
		if err := json.NewDecoder(r.Body).Decode(&players); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", err)
			return
		}
		if err := h.deps.ReplaceRoster(r.Context(), players); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_roster", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"players": len(players)})
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.Roster(r.Context()))
	default:
		http.NotFound(w, r)
	}
}

// anchorResponse reports a player's burn anchor for a phase. Anchor is null
// when the player is unanchored.
type anchorResponse struct {
	PlayerID string `json:"player_id"`
	Phase    string `json:"phase"`
	Anchor   *int   `json:"anchor"`
	Eligible *bool  `json:"eligible,omitempty"`
}

// HandlePlayerAnchor handles GET /players/{id}/anchor requests. An optional
// team query parameter adds an eligibility verdict for that team.
func (h *PlayersHandler) HandlePlayerAnchor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/players/")
	playerID, op, ok := strings.Cut(rest, "/")
	if !ok || op != "anchor" || playerID == "" {
		http.NotFound(w, r)
		return
	}

	phase := model.Phase(r.URL.Query().Get("phase"))
	if !phase.Valid() {
		writeError(w, http.StatusBadRequest, "invalid_phase", fmt.Errorf("%w: phase must be aller or retour", ErrBadRequest))
		return
	}

	if _, err := h.deps.GetPlayer(r.Context(), playerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "unknown_player", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}

	resp := anchorResponse{PlayerID: playerID, Phase: string(phase)}
	if anchor, anchored := h.deps.Anchor(r.Context(), playerID, phase); anchored {
		resp.Anchor = &anchor
	}
	if team, ok := intQuery(r, "team"); ok {
		eligible := h.deps.Eligible(r.Context(), playerID, team, phase)
		resp.Eligible = &eligible
	}
	writeJSON(w, http.StatusOK, resp)
}
