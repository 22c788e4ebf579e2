// Package pool computes the ordered set of players a coach (or the
// suggestion engine) may pick from for one team and round.
package pool

import (
	"context"
	"fmt"
	"sort"

	"github.com/okian/lineup/internal/domain/burn"
	"github.com/okian/lineup/internal/domain/model"
)

// Input bundles the snapshots a pool resolution runs against.
type Input struct {
	Roster []model.Player
	// Competition restricts the pool to players registered for this
	// championship label. Empty matches everyone.
	Competition string
	TeamNumber  int
	Journee     int
	Phase       model.Phase
	// Excluded holds player ids unavailable for the round (marked absent,
	// or already fielded elsewhere).
	Excluded map[string]struct{}
	Burn     burn.View
}

// Resolver filters and orders the roster into a candidate pool.
type Resolver struct{}

// NewResolver creates a Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Available returns the eligible players for the team and round, sorted by
// points descending with player id as the stable tie-breaker.
func (r *Resolver) Available(ctx context.Context, in Input) ([]model.Player, error) {
	if in.TeamNumber <= 0 {
		return nil, fmt.Errorf("%w: team number %d", ErrInvalidTeam, in.TeamNumber)
	}
	if !in.Phase.Valid() {
		return nil, fmt.Errorf("%w: phase %q", ErrInvalidPhase, in.Phase)
	}

	out := make([]model.Player, 0, len(in.Roster))
	for _, p := range in.Roster {
		if !p.Active {
			continue
		}
		if !p.RegisteredFor(in.Competition) {
			continue
		}
		if _, excluded := in.Excluded[p.ID]; excluded {
			continue
		}
		if in.Burn != nil && !in.Burn.Eligible(ctx, p.ID, in.TeamNumber, in.Phase) {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
