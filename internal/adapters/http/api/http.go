// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/lineup/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Ingestion
	IngestParticipation(ctx context.Context, fact model.MatchParticipation) (duplicate bool, err error)

	// Engine operations
	Validate(ctx context.Context, comp model.Composition) (model.ValidationResult, error)
	AvailablePlayers(ctx context.Context, teamNumber, journee int, phase model.Phase, excluded []string) ([]model.Player, error)
	Suggest(ctx context.Context, teamNumber, journee int, phase model.Phase, excluded []string) (model.Suggestion, error)
	DetectConflicts(ctx context.Context, byTeam map[int]model.Composition) []model.Conflict
	Anchor(ctx context.Context, playerID string, phase model.Phase) (int, bool)
	Eligible(ctx context.Context, playerID string, teamNumber int, phase model.Phase) bool

	// Roster
	ReplaceRoster(ctx context.Context, players []model.Player) error
	UpsertPlayer(ctx context.Context, p model.Player) error
	Roster(ctx context.Context) []model.Player
	GetPlayer(ctx context.Context, id string) (model.Player, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler        *HealthHandler
	statsHandler         *StatsHandler
	playersHandler       *PlayersHandler
	participationHandler *ParticipationHandler
	compositionHandler   *CompositionHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:        NewHealthHandler(),
		statsHandler:         NewStatsHandler(statsProvider),
		playersHandler:       NewPlayersHandler(deps),
		participationHandler: NewParticipationHandler(deps),
		compositionHandler:   NewCompositionHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/participations", MetricsMiddleware(s.participationHandler.HandlePost, "participations"))
	mux.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandlePlayers, "players"))
	mux.HandleFunc("/players/", MetricsMiddleware(s.playersHandler.HandlePlayerAnchor, "player_anchor"))
	mux.HandleFunc("/compositions/validate", MetricsMiddleware(s.compositionHandler.HandleValidate, "validate"))
	mux.HandleFunc("/compositions/suggest", MetricsMiddleware(s.compositionHandler.HandleSuggest, "suggest"))
	mux.HandleFunc("/teams/", MetricsMiddleware(s.compositionHandler.HandleAvailablePlayers, "available_players"))
	mux.HandleFunc("/rounds/conflicts", MetricsMiddleware(s.compositionHandler.HandleConflicts, "conflicts"))
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
