// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"

	factqueue "github.com/okian/lineup/internal/adapters/mq/queue"
	workerpool "github.com/okian/lineup/internal/adapters/mq/worker"
	repository "github.com/okian/lineup/internal/adapters/repository"
	"github.com/okian/lineup/internal/domain/burn"
	"github.com/okian/lineup/internal/domain/conflict"
	"github.com/okian/lineup/internal/domain/dedupe"
	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/pool"
	"github.com/okian/lineup/internal/domain/rules"
	"github.com/okian/lineup/internal/domain/suggest"
	"github.com/okian/lineup/pkg/logger"
	"github.com/okian/lineup/pkg/metrics"
)

// Service implements the API dependencies for the eligibility engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	roster    repository.Store
	ledger    *burn.Ledger
	deduper   dedupe.Deduper
	queue     factqueue.Queue
	workers   *workerpool.Pool
	validator *rules.Validator
	resolver  *pool.Resolver
	detector  *conflict.Detector
	engine    *suggest.Engine

	// Configuration
	workerCount     int
	queueSize       int
	dedupeSize      int
	anchorThreshold int
	maxPoolLimit    int
	quota           model.QuotaConfig
	competition     string

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of ingestion workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the fact queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the match-id deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithAnchorThreshold sets the appearances needed to anchor a player.
func WithAnchorThreshold(n int) Option {
	return func(s *Service) {
		if n >= 1 {
			s.anchorThreshold = n
		}
	}
}

// WithMaxPoolLimit caps the number of players returned per candidate pool.
func WithMaxPoolLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxPoolLimit = limit
		}
	}
}

// WithQuota sets the club quota configuration.
func WithQuota(q model.QuotaConfig) Option {
	return func(s *Service) {
		if q.RosterSize > 0 {
			s.quota = q
		}
	}
}

// WithCompetition sets the championship label used to filter candidate
// pools. Empty admits every registered player.
func WithCompetition(c string) Option {
	return func(s *Service) {
		s.competition = c
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     4,
		queueSize:       10000,
		dedupeSize:      100000,
		anchorThreshold: 2,
		maxPoolLimit:    200,
		quota: model.QuotaConfig{
			MaxForeign: 1,
			RosterSize: 4,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting eligibility engine service...")

	s.roster = repository.NewMemStore(ctx)
	// The ingest-side deduper is a bounded fast path for acking duplicate
	// syncs; the ledger keeps its own unbounded seen-set so a duplicate
	// surviving eviction here still cannot double-count.
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.ledger = burn.NewLedger(
		burn.WithAnchorThreshold(s.anchorThreshold),
	)
	s.queue = factqueue.NewInMemoryQueue(
		factqueue.WithCapacity(s.queueSize),
	)
	s.validator = rules.NewValidator()
	s.resolver = pool.NewResolver()
	s.detector = conflict.NewDetector()
	s.engine = suggest.NewEngine()

	s.workers = workerpool.NewPool(s.workerCount, s.queue, s.ledger)
	s.workers.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "eligibility engine service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("anchorThreshold", s.anchorThreshold),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping eligibility engine service...")

	if q, ok := s.queue.(*factqueue.InMemoryQueue); ok {
		_ = q.Close()
	}
	if s.workers != nil {
		s.workers.Stop()
	}

	s.started = false
	s.logger.Info(context.Background(), "eligibility engine service stopped")
}

// IngestParticipation accepts one match-participation fact for asynchronous
// counting. Returns duplicate=true when the match id was already seen; a
// backpressure error means the sync pipeline should retry.
func (s *Service) IngestParticipation(ctx context.Context, fact model.MatchParticipation) (duplicate bool, err error) {
	if err := validateFact(fact); err != nil {
		return false, err
	}

	if s.deduper.SeenAndRecord(ctx, fact.MatchID) {
		metrics.RecordParticipationDuplicate()
		s.logger.Debug(ctx, "duplicate participation acknowledged",
			logger.String("matchID", fact.MatchID),
		)
		return true, nil
	}

	if !s.queue.Enqueue(ctx, fact) {
		// Give the id back so the sender can retry the fact later.
		s.deduper.Unrecord(ctx, fact.MatchID)
		return false, fmt.Errorf("%w: fact queue full", ErrBackpressure)
	}
	metrics.UpdateLedgerFacts(s.ledger.Facts())
	return false, nil
}

// validateFact rejects malformed facts before they reach the queue.
func validateFact(fact model.MatchParticipation) error {
	switch {
	case fact.MatchID == "":
		return fmt.Errorf("%w: missing match id", ErrInvalidFact)
	case fact.PlayerID == "":
		return fmt.Errorf("%w: missing player id", ErrInvalidFact)
	case fact.TeamNumber <= 0:
		return fmt.Errorf("%w: team number %d", ErrInvalidFact, fact.TeamNumber)
	case !fact.Phase.Valid():
		return fmt.Errorf("%w: phase %q", ErrInvalidFact, fact.Phase)
	}
	return nil
}

// Validate checks a composition against the current roster snapshot, quota
// config and burn ledger.
func (s *Service) Validate(ctx context.Context, comp model.Composition) (model.ValidationResult, error) {
	result, err := s.validator.Validate(ctx, rules.Input{
		Composition: comp,
		Roster:      s.roster.Snapshot(ctx),
		Quota:       s.quota,
		Burn:        s.ledger,
	})
	if err != nil {
		return model.ValidationResult{}, err
	}

	metrics.RecordValidation()
	for _, v := range result.Violations {
		metrics.RecordViolation(string(v.Kind))
	}
	return result, nil
}

// AvailablePlayers returns the eligible candidate pool for a team and round,
// sorted by points descending.
func (s *Service) AvailablePlayers(ctx context.Context, teamNumber, journee int, phase model.Phase, excluded []string) ([]model.Player, error) {
	ex := make(map[string]struct{}, len(excluded))
	for _, id := range excluded {
		ex[id] = struct{}{}
	}
	candidates, err := s.resolver.Available(ctx, pool.Input{
		Roster:      s.roster.Snapshot(ctx),
		Competition: s.competition,
		TeamNumber:  teamNumber,
		Journee:     journee,
		Phase:       phase,
		Excluded:    ex,
		Burn:        s.ledger,
	})
	if err != nil {
		return nil, err
	}
	if s.maxPoolLimit > 0 && len(candidates) > s.maxPoolLimit {
		candidates = candidates[:s.maxPoolLimit]
	}
	return candidates, nil
}

// Suggest resolves the candidate pool and proposes a legal lineup.
func (s *Service) Suggest(ctx context.Context, teamNumber, journee int, phase model.Phase, excluded []string) (model.Suggestion, error) {
	candidates, err := s.AvailablePlayers(ctx, teamNumber, journee, phase, excluded)
	if err != nil {
		return model.Suggestion{}, err
	}

	suggestion, err := s.engine.Suggest(ctx, suggest.Input{
		Pool:       candidates,
		TeamNumber: teamNumber,
		Journee:    journee,
		Phase:      phase,
		Quota:      s.quota,
		Burn:       s.ledger,
	})
	if err != nil {
		return model.Suggestion{}, err
	}
	metrics.RecordSuggestion()
	return suggestion, nil
}

// DetectConflicts finds players double-booked across the given lineups.
func (s *Service) DetectConflicts(ctx context.Context, byTeam map[int]model.Composition) []model.Conflict {
	conflicts := s.detector.Detect(ctx, byTeam)
	metrics.RecordConflicts(len(conflicts))
	return conflicts
}

// Anchor returns the player's burn anchor for the phase, or ok=false.
func (s *Service) Anchor(ctx context.Context, playerID string, phase model.Phase) (int, bool) {
	return s.ledger.Anchor(ctx, playerID, phase)
}

// Eligible reports whether the player may play for teamNumber in the phase.
func (s *Service) Eligible(ctx context.Context, playerID string, teamNumber int, phase model.Phase) bool {
	return s.ledger.Eligible(ctx, playerID, teamNumber, phase)
}

// BurnCount returns the raw participation counter for a player, phase and team.
func (s *Service) BurnCount(ctx context.Context, playerID string, phase model.Phase, teamNumber int) int {
	return s.ledger.Count(ctx, playerID, phase, teamNumber)
}

// ReplaceRoster swaps the entire roster snapshot.
func (s *Service) ReplaceRoster(ctx context.Context, players []model.Player) error {
	if err := s.roster.Replace(ctx, players); err != nil {
		return err
	}
	metrics.UpdateRosterSize(s.roster.Count(ctx))
	return nil
}

// UpsertPlayer inserts or replaces one roster record.
func (s *Service) UpsertPlayer(ctx context.Context, p model.Player) error {
	if err := s.roster.Upsert(ctx, p); err != nil {
		return err
	}
	metrics.UpdateRosterSize(s.roster.Count(ctx))
	return nil
}

// Roster returns the current roster snapshot.
func (s *Service) Roster(ctx context.Context) []model.Player {
	return s.roster.Snapshot(ctx)
}

// GetPlayer returns one roster record.
func (s *Service) GetPlayer(ctx context.Context, id string) (model.Player, error) {
	return s.roster.Get(ctx, id)
}

// Quota returns the configured club quota thresholds.
func (s *Service) Quota() model.QuotaConfig {
	return s.quota
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"workerCount":     s.workerCount,
		"queueSize":       s.queueSize,
		"anchorThreshold": s.anchorThreshold,
		"rosterSize":      s.quota.RosterSize,
		"maxForeign":      s.quota.MaxForeign,
	}

	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["rosterPlayers"] = s.roster.Count(ctx)
		stats["ledgerFacts"] = s.ledger.Facts()

		metrics.UpdateLedgerFacts(s.ledger.Facts())
		metrics.UpdateRosterSize(s.roster.Count(ctx))
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
