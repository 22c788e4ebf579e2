// Package conflict finds players double-booked across simultaneous team
// lineups for the same round.
package conflict

import (
	"context"
	"sort"

	"github.com/okian/lineup/internal/domain/model"
)

// Detector reports cross-team double bookings. Resolution is a caller
// decision: remove the player from one composition and re-validate.
type Detector struct{}

// NewDetector creates a Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect returns one conflict per player appearing in two or more of the
// given lineups. Output is sorted by player id and team number, so any
// permutation of the input map yields the same result.
func (d *Detector) Detect(_ context.Context, byTeam map[int]model.Composition) []model.Conflict {
	teams := make(map[string][]int)
	for teamNumber, comp := range byTeam {
		seen := make(map[string]struct{})
		for _, id := range comp.FilledPlayerIDs() {
			// A player filled twice within one lineup is the
			// validator's problem; count the team once.
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			teams[id] = append(teams[id], teamNumber)
		}
	}

	out := make([]model.Conflict, 0)
	for playerID, teamNumbers := range teams {
		if len(teamNumbers) < 2 {
			continue
		}
		sort.Ints(teamNumbers)
		out = append(out, model.Conflict{PlayerID: playerID, TeamNumbers: teamNumbers})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}
