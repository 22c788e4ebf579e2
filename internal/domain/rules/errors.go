package rules

import "errors"

// Sentinel kinds for structural validation errors. These indicate caller
// bugs, not rule outcomes.
var (
	ErrUnknownPlayer   = errors.New("player not in roster snapshot")
	ErrDuplicatePlayer = errors.New("player fielded in more than one slot")
	ErrInvalidTeam     = errors.New("invalid team number")
	ErrInvalidPhase    = errors.New("invalid phase")
	ErrInvalidQuota    = errors.New("invalid quota config")
)
