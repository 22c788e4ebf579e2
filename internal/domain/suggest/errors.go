package suggest

import "errors"

// Sentinel kinds for suggestion errors.
var (
	ErrInvalidInput = errors.New("invalid suggestion input")
	// ErrProposalInvalid means the safety-net validation rejected a greedy
	// proposal; it indicates a pool that was not filtered as documented.
	ErrProposalInvalid = errors.New("proposal failed validation")
)
