package dedupe

// Option applies a configuration option to the InMemoryDeduper.
type Option func(*InMemoryDeduper)

// WithMaxSize sets how many keys are remembered. Non-positive values keep the default.
func WithMaxSize(maxSize int) Option {
	return func(d *InMemoryDeduper) {
		if maxSize > 0 {
			d.maxSize = maxSize
		}
	}
}
