// Package rules validates proposed compositions against federation lineup
// rules. It is the single authority consulted on every edit and before
// every save.
package rules

import (
	"context"
	"fmt"

	"github.com/okian/lineup/internal/domain/burn"
	"github.com/okian/lineup/internal/domain/model"
)

// Input bundles the immutable snapshots a validation runs against. The
// validator holds no state of its own, so a single Validator is safe to
// share across concurrent callers.
type Input struct {
	Composition model.Composition
	// Roster is the full roster snapshot; every filled slot must reference
	// a player present here.
	Roster []model.Player
	Quota  model.QuotaConfig
	Burn   burn.View
}

// Validator checks compositions and accumulates every violation it finds.
type Validator struct{}

// NewValidator creates a Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks the composition against all lineup rules. Rule breaches
// are returned as data in the result; an error is returned only for
// structurally invalid input (unknown player id, non-positive team number,
// malformed quota config), which indicates a caller bug.
func (v *Validator) Validate(ctx context.Context, in Input) (model.ValidationResult, error) {
	if err := checkInput(in); err != nil {
		return model.ValidationResult{}, err
	}

	byID := make(map[string]model.Player, len(in.Roster))
	for _, p := range in.Roster {
		byID[p.ID] = p
	}
	filled := make(map[string]string, len(in.Composition.Slots))
	for _, s := range in.Composition.Slots {
		if !s.Filled() {
			continue
		}
		if _, ok := byID[s.PlayerID]; !ok {
			return model.ValidationResult{}, fmt.Errorf("%w: %q in slot %s", ErrUnknownPlayer, s.PlayerID, s.Name)
		}
		// The same player twice would also defeat the quota tallies, so it
		// is rejected before any rule runs.
		if firstSlot, dup := filled[s.PlayerID]; dup {
			return model.ValidationResult{}, fmt.Errorf("%w: %q in slots %s and %s", ErrDuplicatePlayer, s.PlayerID, firstSlot, s.Name)
		}
		filled[s.PlayerID] = s.Name
	}

	var violations []model.Violation
	violations = append(violations, checkContiguity(in.Composition)...)
	violations = append(violations, checkRankingOrder(in.Composition, byID)...)
	violations = append(violations, checkQuotas(in.Composition, byID, in.Quota)...)
	violations = append(violations, checkBurn(ctx, in.Composition, byID, in.Burn)...)

	return model.ValidationResult{
		IsValid:    len(violations) == 0,
		Violations: violations,
	}, nil
}

// checkInput rejects structural caller errors before any rule runs.
func checkInput(in Input) error {
	if in.Composition.TeamNumber <= 0 {
		return fmt.Errorf("%w: team number %d", ErrInvalidTeam, in.Composition.TeamNumber)
	}
	if !in.Composition.Phase.Valid() {
		return fmt.Errorf("%w: phase %q", ErrInvalidPhase, in.Composition.Phase)
	}
	if in.Quota.RosterSize <= 0 {
		return fmt.Errorf("%w: roster size %d", ErrInvalidQuota, in.Quota.RosterSize)
	}
	if in.Quota.MaxForeign < 0 {
		return fmt.Errorf("%w: max foreign %d", ErrInvalidQuota, in.Quota.MaxForeign)
	}
	if in.Quota.MaxFemale != nil && *in.Quota.MaxFemale < 0 {
		return fmt.Errorf("%w: max female %d", ErrInvalidQuota, *in.Quota.MaxFemale)
	}
	if in.Quota.MinFemale != nil && *in.Quota.MinFemale < 0 {
		return fmt.Errorf("%w: min female %d", ErrInvalidQuota, *in.Quota.MinFemale)
	}
	if in.Quota.MinFemale != nil && in.Quota.MaxFemale != nil && *in.Quota.MinFemale > *in.Quota.MaxFemale {
		return fmt.Errorf("%w: min female %d exceeds max female %d", ErrInvalidQuota, *in.Quota.MinFemale, *in.Quota.MaxFemale)
	}
	return nil
}

// checkContiguity flags filled slots appearing after an empty one. Gaps are
// only legal as a trailing run of empty slots.
func checkContiguity(c model.Composition) []model.Violation {
	var out []model.Violation
	gapAt := ""
	for _, s := range c.Slots {
		if !s.Filled() {
			if gapAt == "" {
				gapAt = s.Name
			}
			continue
		}
		if gapAt != "" {
			out = append(out, model.Violation{
				Kind:     model.ViolationSlotGap,
				Slot:     s.Name,
				PlayerID: s.PlayerID,
				Message:  fmt.Sprintf("slot %s is filled but slot %s before it is empty", s.Name, gapAt),
			})
		}
	}
	return out
}

// checkRankingOrder flags adjacent filled slots where the later player
// outranks the earlier one.
func checkRankingOrder(c model.Composition, byID map[string]model.Player) []model.Violation {
	var out []model.Violation
	var prev *model.Slot
	for i := range c.Slots {
		s := c.Slots[i]
		if !s.Filled() {
			continue
		}
		if prev != nil {
			earlier, later := byID[prev.PlayerID], byID[s.PlayerID]
			if earlier.Points < later.Points {
				out = append(out, model.Violation{
					Kind:          model.ViolationRankingOrder,
					Slot:          prev.Name,
					PlayerID:      earlier.ID,
					OtherPlayerID: later.ID,
					Message: fmt.Sprintf("%s (%d pts) in slot %s is ranked below %s (%d pts) in slot %s",
						earlier.Name, earlier.Points, prev.Name, later.Name, later.Points, s.Name),
				})
			}
		}
		prev = &c.Slots[i]
	}
	return out
}

// checkQuotas flags foreign and female counts outside the configured bounds.
// A maximum breach names every player beyond the cap in slot order, so the
// UI can highlight them without re-deriving the counts.
func checkQuotas(c model.Composition, byID map[string]model.Player, q model.QuotaConfig) []model.Violation {
	foreign, female := 0, 0
	var out []model.Violation
	for _, s := range c.Slots {
		if !s.Filled() {
			continue
		}
		p := byID[s.PlayerID]
		if p.Nationality == model.NationalityForeign {
			foreign++
			if foreign > q.MaxForeign {
				out = append(out, model.Violation{
					Kind:     model.ViolationQuotaForeign,
					Slot:     s.Name,
					PlayerID: p.ID,
					Message:  fmt.Sprintf("%s in slot %s is the %d%s foreign player, maximum is %d", p.Name, s.Name, foreign, ordinal(foreign), q.MaxForeign),
				})
			}
		}
		if p.Gender == model.GenderFemale {
			female++
			if q.MaxFemale != nil && female > *q.MaxFemale {
				out = append(out, model.Violation{
					Kind:     model.ViolationQuotaFemale,
					Slot:     s.Name,
					PlayerID: p.ID,
					Message:  fmt.Sprintf("%s in slot %s is the %d%s female player, maximum is %d", p.Name, s.Name, female, ordinal(female), *q.MaxFemale),
				})
			}
		}
	}
	// A shortfall has no offending player to name.
	if q.MinFemale != nil && female < *q.MinFemale {
		out = append(out, model.Violation{
			Kind:    model.ViolationQuotaFemale,
			Message: fmt.Sprintf("%d female players fielded, minimum is %d", female, *q.MinFemale),
		})
	}
	return out
}

// ordinal returns the English ordinal suffix for n.
func ordinal(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

// checkBurn flags players anchored to a more competitive team than the one
// being composed.
func checkBurn(ctx context.Context, c model.Composition, byID map[string]model.Player, view burn.View) []model.Violation {
	if view == nil {
		return nil
	}
	var out []model.Violation
	for _, s := range c.Slots {
		if !s.Filled() {
			continue
		}
		if view.Eligible(ctx, s.PlayerID, c.TeamNumber, c.Phase) {
			continue
		}
		anchor, _ := view.Anchor(ctx, s.PlayerID, c.Phase)
		p := byID[s.PlayerID]
		out = append(out, model.Violation{
			Kind:       model.ViolationBurn,
			Slot:       s.Name,
			PlayerID:   p.ID,
			AnchorTeam: anchor,
			Message: fmt.Sprintf("%s is anchored to team %d and cannot play for team %d this phase",
				p.Name, anchor, c.TeamNumber),
		})
	}
	return out
}
