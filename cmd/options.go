package cmd

// Options holds the shared command-line options for the ghlens CLI.
type Options struct {
	Format    string
	Limit     int
	Verbosity int
	TUI       *bool // nil = auto-detect, true = force TUI, false = disable TUI

	// Analysis options
	Strategy string // Overrides analysis.strategy from config
	Retry    bool   // Recompute once when the first analysis fails

	// Notes options
	Repo string // Scope notes to a repository
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options with defaults and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{
		Limit: 20,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFormat sets the output format (table, json).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithTUI controls TUI mode (nil = auto-detect, true = force, false = disable).
func WithTUI(tui *bool) Option {
	return func(o *Options) {
		o.TUI = tui
	}
}
