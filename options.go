package visitree

import "go.uber.org/zap"

type Options struct {
	// Logger receives non-fatal diagnostics: missing fields, type
	// mismatches, unbalanced traversal. Nil means no logging.
	Logger *zap.Logger

	// AllowDuplicateNames lets a writer create several children or fields
	// with the same name under one node. Readers only ever see the first.
	AllowDuplicateNames bool
}

type Option func(*Options)

func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithDuplicateNames turns off the write-time uniqueness check.
func WithDuplicateNames() Option {
	return func(o *Options) {
		o.AllowDuplicateNames = true
	}
}

func buildOptions(opts []Option) Options {
	var o Options
	for _, fn := range opts {
		fn(&o)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
