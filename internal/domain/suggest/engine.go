// Package suggest builds a legal starting lineup from a candidate pool.
// The output is a good starting point for a coach, not a proven optimum.
package suggest

import (
	"context"
	"fmt"

	"github.com/okian/lineup/internal/domain/burn"
	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/rules"
)

// Input bundles the snapshots a suggestion runs against. Pool must already
// be sorted by points descending (see the pool package); greedy selection
// then satisfies the ranking-order rule by construction.
type Input struct {
	Pool       []model.Player
	TeamNumber int
	Journee    int
	Phase      model.Phase
	Quota      model.QuotaConfig
	Burn       burn.View
}

// Engine proposes quota-respecting, rank-ordered lineups.
type Engine struct {
	validator *rules.Validator
}

// NewEngine creates an Engine. The validator is re-run on every proposal as
// a safety net before it is offered.
func NewEngine() *Engine {
	return &Engine{validator: rules.NewValidator()}
}

// Suggest walks the pool top-down, greedily filling slots while respecting
// quotas and burn eligibility. Skipped candidates are explained in Reasons.
// Alternatives swap the most marginal quota-constrained pick for the next
// eligible candidate.
func (e *Engine) Suggest(ctx context.Context, in Input) (model.Suggestion, error) {
	if in.TeamNumber <= 0 {
		return model.Suggestion{}, fmt.Errorf("%w: team number %d", ErrInvalidInput, in.TeamNumber)
	}
	if !in.Phase.Valid() {
		return model.Suggestion{}, fmt.Errorf("%w: phase %q", ErrInvalidInput, in.Phase)
	}
	if in.Quota.RosterSize <= 0 {
		return model.Suggestion{}, fmt.Errorf("%w: roster size %d", ErrInvalidInput, in.Quota.RosterSize)
	}

	picks, reasons := e.greedy(ctx, in, nil)
	if err := e.verify(ctx, in, picks); err != nil {
		return model.Suggestion{}, err
	}

	suggestion := model.Suggestion{
		Suggested:    ids(picks),
		Alternatives: [][]string{},
		Reasons:      reasons,
	}

	if marginal := marginalQuotaPick(picks, in.Quota); marginal != "" {
		alt, _ := e.greedy(ctx, in, map[string]struct{}{marginal: {}})
		if len(alt) == len(picks) && !samePicks(picks, alt) {
			if err := e.verify(ctx, in, alt); err == nil {
				suggestion.Alternatives = append(suggestion.Alternatives, ids(alt))
			}
		}
	}

	return suggestion, nil
}

// greedy runs one top-down pass over the pool, skipping excluded ids and
// candidates whose acceptance would breach a quota or burn eligibility.
func (e *Engine) greedy(ctx context.Context, in Input, excluded map[string]struct{}) ([]model.Player, []string) {
	var (
		picks   []model.Player
		reasons []string
		foreign int
		female  int
	)

	for _, p := range in.Pool {
		if len(picks) == in.Quota.RosterSize {
			break
		}
		if _, skip := excluded[p.ID]; skip {
			continue
		}
		// The pool is already burn-filtered; re-check defensively.
		if in.Burn != nil && !in.Burn.Eligible(ctx, p.ID, in.TeamNumber, in.Phase) {
			anchor, _ := in.Burn.Anchor(ctx, p.ID, in.Phase)
			reasons = append(reasons, fmt.Sprintf("%s skipped: anchored to team %d", p.Name, anchor))
			continue
		}
		if p.Nationality == model.NationalityForeign && foreign == in.Quota.MaxForeign {
			reasons = append(reasons, fmt.Sprintf("%s skipped: foreign quota reached (%d)", p.Name, in.Quota.MaxForeign))
			continue
		}
		if p.Gender == model.GenderFemale && in.Quota.MaxFemale != nil && female == *in.Quota.MaxFemale {
			reasons = append(reasons, fmt.Sprintf("%s skipped: female quota reached (%d)", p.Name, *in.Quota.MaxFemale))
			continue
		}

		picks = append(picks, p)
		if p.Nationality == model.NationalityForeign {
			foreign++
		}
		if p.Gender == model.GenderFemale {
			female++
		}
	}

	if in.Quota.MinFemale != nil && female < *in.Quota.MinFemale {
		reasons = append(reasons, fmt.Sprintf("only %d female players available, minimum is %d", female, *in.Quota.MinFemale))
	}
	return picks, reasons
}

// verify re-runs the validator over the proposal. The pool roster snapshot
// is reconstructed from the pool itself since picks come only from there.
func (e *Engine) verify(ctx context.Context, in Input, picks []model.Player) error {
	if len(picks) == 0 {
		return nil
	}
	comp := model.NewComposition(in.TeamNumber, in.Journee, in.Phase, in.Quota.RosterSize)
	for i, p := range picks {
		comp.Slots[i].PlayerID = p.ID
	}
	result, err := e.validator.Validate(ctx, rules.Input{
		Composition: comp,
		Roster:      in.Pool,
		Quota:       in.Quota,
		Burn:        in.Burn,
	})
	if err != nil {
		return err
	}
	if !result.IsValid {
		return fmt.Errorf("%w: %s", ErrProposalInvalid, result.Violations[0].Message)
	}
	return nil
}

// marginalQuotaPick returns the id of the lowest-ranked accepted pick that
// sits in a quota category at its cap, or "" when no quota constrained the
// lineup. Picks are rank-ordered, so the last matching pick is the most
// marginal.
func marginalQuotaPick(picks []model.Player, q model.QuotaConfig) string {
	foreign, female := 0, 0
	for _, p := range picks {
		if p.Nationality == model.NationalityForeign {
			foreign++
		}
		if p.Gender == model.GenderFemale {
			female++
		}
	}

	foreignAtCap := foreign > 0 && foreign == q.MaxForeign
	femaleAtCap := q.MaxFemale != nil && female > 0 && female == *q.MaxFemale
	for i := len(picks) - 1; i >= 0; i-- {
		p := picks[i]
		if foreignAtCap && p.Nationality == model.NationalityForeign {
			return p.ID
		}
		if femaleAtCap && p.Gender == model.GenderFemale {
			return p.ID
		}
	}
	return ""
}

func ids(players []model.Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.ID
	}
	return out
}

func samePicks(a, b []model.Player) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
