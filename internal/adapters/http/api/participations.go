package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	service "github.com/okian/lineup/internal/app"
	"github.com/okian/lineup/internal/domain/model"
)

// ParticipationHandler handles match-participation fact ingestion.
type ParticipationHandler struct {
	deps Dependencies
}

// NewParticipationHandler creates a new participation handler.
func NewParticipationHandler(deps Dependencies) *ParticipationHandler {
	return &ParticipationHandler{deps: deps}
}

// participationRequest mirrors the sync pipeline's fact payload.
type participationRequest struct {
	MatchID    string `json:"match_id"`
	PlayerID   string `json:"player_id"`
	TeamNumber int    `json:"team_number"`
	Phase      string `json:"phase"`
	Journee    int    `json:"journee"`
}

func (p participationRequest) validate() error {
	switch {
	case strings.TrimSpace(p.MatchID) == "":
		return errors.New("missing match_id")
	case strings.TrimSpace(p.PlayerID) == "":
		return errors.New("missing player_id")
	case p.TeamNumber <= 0:
		return errors.New("team_number must be positive")
	case !model.Phase(p.Phase).Valid():
		return errors.New("phase must be aller or retour")
	}
	return nil
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// HandlePost handles POST /participations requests.
func (h *ParticipationHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req participationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_fact", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	duplicate, err := h.deps.IngestParticipation(r.Context(), model.MatchParticipation{
		MatchID:    req.MatchID,
		PlayerID:   req.PlayerID,
		TeamNumber: req.TeamNumber,
		Phase:      model.Phase(req.Phase),
		Journee:    req.Journee,
	})
	if err != nil {
		if errors.Is(err, service.ErrBackpressure) {
			writeError(w, http.StatusServiceUnavailable, "backpressure", fmt.Errorf("%w: %w", ErrBackpressure, err))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_fact", err)
		return
	}

	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: duplicate})
}
