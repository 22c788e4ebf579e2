package burn

import "github.com/okian/lineup/internal/domain/dedupe"

// Option applies a configuration option to the Ledger.
type Option func(*Ledger)

// WithAnchorThreshold sets the number of appearances that anchor a player
// to a team within a phase. Values below 1 are ignored.
func WithAnchorThreshold(n int) Option {
	return func(l *Ledger) {
		if n >= 1 {
			l.threshold = n
		}
	}
}

// WithDeduper sets the idempotency tracker used for match ids.
func WithDeduper(d dedupe.Deduper) Option {
	return func(l *Ledger) {
		if d != nil {
			l.deduper = d
		}
	}
}
