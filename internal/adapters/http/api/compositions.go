package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/pool"
	"github.com/okian/lineup/internal/domain/rules"
	"github.com/okian/lineup/internal/domain/suggest"
)

// CompositionHandler handles lineup validation, suggestion, candidate pool
// and conflict requests.
type CompositionHandler struct {
	deps Dependencies
}

// NewCompositionHandler creates a new composition handler.
func NewCompositionHandler(deps Dependencies) *CompositionHandler {
	return &CompositionHandler{deps: deps}
}

// HandleValidate handles POST /compositions/validate requests. Rule
// violations come back with status 200; only structural caller errors are
// rejected with 400.
func (h *CompositionHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var comp model.Composition
	if err := json.NewDecoder(r.Body).Decode(&comp); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err)
		return
	}

	result, err := h.deps.Validate(r.Context(), comp)
	if err != nil {
		if isCallerError(err) {
			writeError(w, http.StatusBadRequest, "invalid_composition", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// suggestRequest asks for a lineup proposal; the candidate pool is resolved
// server-side from the current roster and ledger.
type suggestRequest struct {
	TeamNumber int      `json:"team_number"`
	Journee    int      `json:"journee"`
	Phase      string   `json:"phase"`
	Excluded   []string `json:"excluded,omitempty"`
}

// HandleSuggest handles POST /compositions/suggest requests.
func (h *CompositionHandler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err)
		return
	}

	suggestion, err := h.deps.Suggest(r.Context(), req.TeamNumber, req.Journee, model.Phase(req.Phase), req.Excluded)
	if err != nil {
		if isCallerError(err) {
			writeError(w, http.StatusBadRequest, "invalid_request", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, suggestion)
}

// HandleAvailablePlayers handles GET /teams/{number}/available-players
// requests. Query parameters: journee, phase, exclude (comma-separated ids).
func (h *CompositionHandler) HandleAvailablePlayers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/teams/")
	numberStr, op, ok := strings.Cut(rest, "/")
	if !ok || op != "available-players" {
		http.NotFound(w, r)
		return
	}
	teamNumber, err := strconv.Atoi(numberStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_team", err)
		return
	}

	journee, _ := intQuery(r, "journee")
	phase := model.Phase(r.URL.Query().Get("phase"))
	var excluded []string
	if raw := r.URL.Query().Get("exclude"); raw != "" {
		excluded = strings.Split(raw, ",")
	}

	players, err := h.deps.AvailablePlayers(r.Context(), teamNumber, journee, phase, excluded)
	if err != nil {
		if isCallerError(err) {
			writeError(w, http.StatusBadRequest, "invalid_request", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

// conflictsRequest carries every team's proposed lineup for one round.
type conflictsRequest struct {
	Compositions []model.Composition `json:"compositions"`
}

// HandleConflicts handles POST /rounds/conflicts requests.
func (h *CompositionHandler) HandleConflicts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req conflictsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err)
		return
	}

	byTeam := make(map[int]model.Composition, len(req.Compositions))
	for _, comp := range req.Compositions {
		if comp.TeamNumber <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_team", fmt.Errorf("%w: team_number must be positive", ErrBadRequest))
			return
		}
		byTeam[comp.TeamNumber] = comp
	}

	conflicts := h.deps.DetectConflicts(r.Context(), byTeam)
	writeJSON(w, http.StatusOK, map[string]any{"conflicts": conflicts})
}

// intQuery parses an integer query parameter.
func intQuery(r *http.Request, key string) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// isCallerError reports whether err is a structural input error that maps
// to a 400 rather than a server fault.
func isCallerError(err error) bool {
	return errors.Is(err, rules.ErrUnknownPlayer) ||
		errors.Is(err, rules.ErrDuplicatePlayer) ||
		errors.Is(err, rules.ErrInvalidTeam) ||
		errors.Is(err, rules.ErrInvalidPhase) ||
		errors.Is(err, rules.ErrInvalidQuota) ||
		errors.Is(err, pool.ErrInvalidTeam) ||
		errors.Is(err, pool.ErrInvalidPhase) ||
		errors.Is(err, suggest.ErrInvalidInput)
}
