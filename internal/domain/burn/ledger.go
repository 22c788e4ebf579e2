// Package burn derives player anchoring from match-participation facts.
//
// A player who has played twice for a team within a phase is anchored to
// that team's competitive level and may no longer drop to a less
// competitive team (a higher team number) for the rest of the phase.
// Anchors are always recomputed from the participation counters, never
// stored as independent state.
package burn

import (
	"context"
	"sync"

	"github.com/okian/lineup/internal/domain/dedupe"
	"github.com/okian/lineup/internal/domain/model"
)

// defaultAnchorThreshold is the number of appearances that anchor a player
// to a team within a phase.
const defaultAnchorThreshold = 2

// View is the read side of the ledger consumed by the validator and the
// candidate pool resolver.
type View interface {
	// Anchor returns the most competitive (lowest) team number the player
	// is anchored to in the phase, or ok=false if unanchored.
	Anchor(ctx context.Context, playerID string, phase model.Phase) (team int, ok bool)

	// Eligible reports whether the player may be fielded for teamNumber in
	// the phase. An anchor only blocks strictly greater team numbers.
	Eligible(ctx context.Context, playerID string, teamNumber int, phase model.Phase) bool
}

// counterKey identifies one per-player, per-phase, per-team counter.
type counterKey struct {
	playerID string
	phase    model.Phase
	team     int
}

// Ledger accumulates participation counters and answers anchor queries.
// Ingestion is idempotent per match id and commutative, so concurrent or
// out-of-order replay from the sync pipeline is safe.
type Ledger struct {
	mu        sync.RWMutex
	counts    map[counterKey]int
	deduper   dedupe.Deduper
	threshold int
}

// NewLedger creates a ledger with configuration options.
func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{
		counts:    make(map[counterKey]int),
		threshold: defaultAnchorThreshold,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.deduper == nil {
		// Unbounded: evicting a match id would let a replay double-count
		// and drift the derived anchors from the facts.
		l.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
	}
	return l
}

// Record counts one participation fact. A duplicate match id is a silent
// no-op; Record returns whether the fact was newly counted.
func (l *Ledger) Record(ctx context.Context, fact model.MatchParticipation) bool {
	if l.deduper.SeenAndRecord(ctx, fact.MatchID) {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts[counterKey{playerID: fact.PlayerID, phase: fact.Phase, team: fact.TeamNumber}]++
	return true
}

// Anchor returns the lowest team number whose counter reached the threshold
// for the player in the phase, or ok=false if no team did.
func (l *Ledger) Anchor(_ context.Context, playerID string, phase model.Phase) (int, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	anchor, found := 0, false
	for key, n := range l.counts {
		if key.playerID != playerID || key.phase != phase || n < l.threshold {
			continue
		}
		if !found || key.team < anchor {
			anchor, found = key.team, true
		}
	}
	return anchor, found
}

// Eligible reports whether the player may play for teamNumber in the phase.
// Unanchored players are eligible everywhere; an anchored player remains
// eligible for the anchor team and any more competitive team.
func (l *Ledger) Eligible(ctx context.Context, playerID string, teamNumber int, phase model.Phase) bool {
	anchor, ok := l.Anchor(ctx, playerID, phase)
	if !ok {
		return true
	}
	return teamNumber <= anchor
}

// Count returns the raw participation counter for a player, phase and team.
func (l *Ledger) Count(_ context.Context, playerID string, phase model.Phase, teamNumber int) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.counts[counterKey{playerID: playerID, phase: phase, team: teamNumber}]
}

// Facts returns the number of distinct match ids recorded.
func (l *Ledger) Facts() int64 {
	return l.deduper.Size()
}
