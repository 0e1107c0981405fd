package eq

// DefaultNyquistGuard is the highest usable cutoff as a fraction of the
// sample rate.
const DefaultNyquistGuard = 0.48

type config struct {
	sampleRate float64
	blockSize  int
	guard      float64
}

// Option mutates the processor configuration. Invalid values are ignored.
type Option func(*config)

func defaultConfig() config {
	return config{
		sampleRate: 48000,
		blockSize:  1024,
		guard:      DefaultNyquistGuard,
	}
}

// WithSampleRate sets the initial sample rate. Prepare changes it later.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *config) {
		if validSampleRate(sampleRate) {
			cfg.sampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the size of the scratch buffers used by ProcessFloat32.
// Longer float32 blocks are processed in chunks of this size.
func WithBlockSize(blockSize int) Option {
	return func(cfg *config) {
		if blockSize > 0 {
			cfg.blockSize = blockSize
		}
	}
}

// WithNyquistGuard sets the maximum design frequency as a fraction of the
// sample rate. It must lie in (0, 0.5).
func WithNyquistGuard(guard float64) Option {
	return func(cfg *config) {
		if validGuard(guard) {
			cfg.guard = guard
		}
	}
}

func validGuard(guard float64) bool { return guard > 0 && guard < 0.5 }

func applyOptions(opts ...Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
