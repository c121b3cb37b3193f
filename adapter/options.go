package adapter

import (
	"github.com/YuminosukeSato/featurizer/pkg/log"
	"github.com/YuminosukeSato/featurizer/preprocessing"
)

// DefaultMaxOutputItems bounds the number of items a single Transform or
// Flush may hand across the boundary.
const DefaultMaxOutputItems = 1 << 24

// DefaultMaxArchiveBytes bounds the size of a single archive handed across
// the boundary by CreateTransformerSaveData.
const DefaultMaxArchiveBytes = 1 << 26

type config struct {
	imputerOpts     []preprocessing.Option
	maxOutputItems  int
	maxArchiveBytes int
	logger          log.Logger
}

// Option configures a Featurizer.
type Option func(*config)

// WithImputerOptions passes opts to every estimator and transformer the
// Featurizer creates.
func WithImputerOptions(opts ...preprocessing.Option) Option {
	return func(c *config) {
		c.imputerOpts = append(c.imputerOpts, opts...)
	}
}

// WithMaxOutputItems caps the size of a single output buffer. Larger results
// fail with an Allocation error. Non-positive values are ignored.
func WithMaxOutputItems(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxOutputItems = n
		}
	}
}

// WithMaxArchiveBytes caps the size of a saved archive. Larger archives fail
// with an Allocation error. Non-positive values are ignored.
func WithMaxArchiveBytes(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxArchiveBytes = n
		}
	}
}

// WithLogger sets the logger for the Featurizer and the imputers it creates.
// Without it, every call resolves the process-wide logger when it runs.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{
		maxOutputItems:  DefaultMaxOutputItems,
		maxArchiveBytes: DefaultMaxArchiveBytes,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger != nil {
		cfg.imputerOpts = append([]preprocessing.Option{preprocessing.WithLogger(cfg.logger)}, cfg.imputerOpts...)
	}
	return cfg
}
