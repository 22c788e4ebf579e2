// Package model contains domain models passed between layers.
package model

// Phase identifies one half of a season. Burn anchoring is tracked
// independently per phase.
type Phase string

// The two phases of a season.
const (
	PhaseAller  Phase = "aller"
	PhaseRetour Phase = "retour"
)

// Valid reports whether p is one of the known phases.
func (p Phase) Valid() bool {
	return p == PhaseAller || p == PhaseRetour
}

// Gender categorizes a player for quota purposes.
type Gender string

// Gender categories.
const (
	GenderFemale Gender = "F"
	GenderMale   Gender = "M"
)

// Nationality categorizes a player for the foreign-player quota.
type Nationality string

// Nationality categories.
const (
	NationalityDomestic Nationality = "domestic"
	NationalityEuropean Nationality = "european"
	NationalityForeign  Nationality = "foreign"
)

// Player is a read-only roster record supplied by the roster collaborator.
type Player struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Points       int         `json:"points"` // competitive score, higher is better
	Gender       Gender      `json:"gender"`
	Nationality  Nationality `json:"nationality"`
	Active       bool        `json:"active"`
	Temporary    bool        `json:"temporary"`
	Competitions []string    `json:"competitions"` // championships the player is registered for
}

// RegisteredFor reports whether the player is registered for the given
// competition. An empty competition label matches any registration.
func (p Player) RegisteredFor(competition string) bool {
	if competition == "" {
		return true
	}
	for _, c := range p.Competitions {
		if c == competition {
			return true
		}
	}
	return false
}

// Team identifies a club team. Lower numbers denote more competitive teams;
// team 1 is the club's top team.
type Team struct {
	Number      int    `json:"number"`
	Gender      Gender `json:"gender"`
	Division    string `json:"division"`
	Competition string `json:"competition"`
}

// MatchParticipation is an immutable fact recording that a player played for
// a team in a given round. MatchID is the idempotency key: replaying the same
// match must not double-count.
type MatchParticipation struct {
	MatchID    string `json:"match_id"`
	PlayerID   string `json:"player_id"`
	TeamNumber int    `json:"team_number"`
	Phase      Phase  `json:"phase"`
	Journee    int    `json:"journee"`
}

// Slot is one named position in a composition. An empty PlayerID means the
// slot is not filled.
type Slot struct {
	Name     string `json:"name"`
	PlayerID string `json:"player_id,omitempty"`
}

// Filled reports whether the slot holds a player.
func (s Slot) Filled() bool { return s.PlayerID != "" }

// DefaultSlotNames are the conventional slot labels for a roster of n.
func DefaultSlotNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = string(rune('A' + i))
	}
	return names
}

// Composition is a proposed or confirmed lineup for one team and round.
// Slots are ordered; filled slots must form a prefix of the slot list.
type Composition struct {
	TeamNumber int    `json:"team_number"`
	Journee    int    `json:"journee"`
	Phase      Phase  `json:"phase"`
	Slots      []Slot `json:"slots"`
}

// NewComposition creates an empty composition with the conventional slot
// names for the given roster size.
func NewComposition(teamNumber, journee int, phase Phase, rosterSize int) Composition {
	names := DefaultSlotNames(rosterSize)
	slots := make([]Slot, len(names))
	for i, n := range names {
		slots[i] = Slot{Name: n}
	}
	return Composition{TeamNumber: teamNumber, Journee: journee, Phase: phase, Slots: slots}
}

// FilledPlayerIDs returns the player ids of filled slots in slot order.
func (c Composition) FilledPlayerIDs() []string {
	ids := make([]string, 0, len(c.Slots))
	for _, s := range c.Slots {
		if s.Filled() {
			ids = append(ids, s.PlayerID)
		}
	}
	return ids
}

// RemovePlayer clears every slot holding playerID and returns the updated
// composition. The caller re-validates afterwards.
func (c Composition) RemovePlayer(playerID string) Composition {
	out := c
	out.Slots = make([]Slot, len(c.Slots))
	copy(out.Slots, c.Slots)
	for i := range out.Slots {
		if out.Slots[i].PlayerID == playerID {
			out.Slots[i].PlayerID = ""
		}
	}
	return out
}

// QuotaConfig holds the club-wide lineup thresholds. Nil bounds are
// unconfigured and not enforced.
type QuotaConfig struct {
	MaxForeign int  `json:"max_foreign"`
	MaxFemale  *int `json:"max_female,omitempty"`
	MinFemale  *int `json:"min_female,omitempty"`
	RosterSize int  `json:"roster_size"`
}

// ViolationKind names a category of lineup rule violation.
type ViolationKind string

// Violation kinds reported by the validator.
const (
	ViolationSlotGap      ViolationKind = "slot_gap"
	ViolationRankingOrder ViolationKind = "ranking_order"
	ViolationQuotaFemale  ViolationKind = "quota_female"
	ViolationQuotaForeign ViolationKind = "quota_foreign"
	ViolationBurn         ViolationKind = "burn"
)

// Violation is one rule breach found in a composition. Violations are data,
// not errors: the validator accumulates every one it finds.
type Violation struct {
	Kind ViolationKind `json:"kind"`
	// Slot names the offending slot where one exists.
	Slot string `json:"slot,omitempty"`
	// PlayerID names the offending player where one exists.
	PlayerID string `json:"player_id,omitempty"`
	// OtherPlayerID names the second player for pairwise violations
	// (ranking order).
	OtherPlayerID string `json:"other_player_id,omitempty"`
	// AnchorTeam is the blocking anchor team number for burn violations.
	AnchorTeam int `json:"anchor_team,omitempty"`
	// Message is a human-readable description the UI can show directly.
	Message string `json:"message"`
}

// ValidationResult is the complete outcome of validating one composition.
type ValidationResult struct {
	IsValid    bool        `json:"is_valid"`
	Violations []Violation `json:"violations"`
}

// Conflict reports a player fielded in two or more team lineups for the
// same round.
type Conflict struct {
	PlayerID    string `json:"player_id"`
	TeamNumbers []int  `json:"team_numbers"`
}

// Suggestion is a legal lineup proposal with optional variants and the
// reasons candidates were passed over.
type Suggestion struct {
	Suggested    []string   `json:"suggested"`
	Alternatives [][]string `json:"alternatives"`
	Reasons      []string   `json:"reasons"`
}
