package colgo

type options struct {
	logger   *Logger
	validate bool
}

// Option configures array construction and import behavior.
type Option func(*options)

// WithLogger configures the structured logger. If nil is passed, logging
// is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithValidation enables structural validation of the column record before
// the layout view is built. Imports from untrusted producers should turn
// this on; natively built columns hold the invariants by construction.
func WithValidation() Option {
	return func(o *options) {
		o.validate = true
	}
}

func applyOptions(optFns []Option) *options {
	o := &options{
		logger: NoopLogger(),
	}
	for _, fn := range optFns {
		fn(o)
	}
	return o
}
