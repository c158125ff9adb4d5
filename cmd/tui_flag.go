package cmd

import (
	"fmt"
	"strconv"

	"github.com/spiffcs/ghlens/internal/tui"
)

// tuiFlag is the --tui value. It writes through to Options.TUI, leaving it
// nil for "auto" so the environment decides.
type tuiFlag struct {
	target **bool
}

func newTUIFlag(opts *Options) *tuiFlag {
	return &tuiFlag{target: &opts.TUI}
}

func (f *tuiFlag) String() string {
	if *f.target == nil {
		return "auto"
	}
	return strconv.FormatBool(**f.target)
}

func (f *tuiFlag) Set(s string) error {
	switch s {
	case "auto":
		*f.target = nil
		return nil
	case "yes":
		s = "true"
	case "no":
		s = "false"
	}

	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("invalid value %q: use true, false, or auto", s)
	}
	*f.target = &v
	return nil
}

func (f *tuiFlag) Type() string {
	return "mode"
}

// shouldUseTUI reports whether progress should be drawn for this run.
// Verbose logging always wins so log lines stay readable.
func shouldUseTUI(opts *Options) bool {
	switch {
	case opts.Verbosity > 0:
		return false
	case opts.TUI != nil:
		return *opts.TUI
	default:
		return tui.ShouldUseTUI()
	}
}
