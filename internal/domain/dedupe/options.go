package dedupe

// Option applies a configuration option to the InMemoryDeduper.
type Option func(*inMemoryDeduper)

// WithMaxSize sets the maximum number of match ids to keep in memory.
// If maxSize > 0: bounded mode, oldest ids evicted first.
// If maxSize <= 0: unbounded mode (no eviction).
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = maxSize
	}
}
