package pool

import "errors"

// Sentinel kinds for pool resolution errors.
var (
	ErrInvalidTeam  = errors.New("invalid team number")
	ErrInvalidPhase = errors.New("invalid phase")
)
