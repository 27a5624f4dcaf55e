package types

import "time"

// DefaultTempPrefix names the temporary files used to break rename cycles
const DefaultTempPrefix = "$$mmvtmp."

// Options holds everything a batch run needs to know
type Options struct {
	Mode   Mode
	Delete DeleteStyle
	Bad    BadStyle

	// Hidden lets wildcards match names starting with a dot
	Hidden bool

	// Verbose reports every operation as it is done
	Verbose bool

	// DryRun reports the operations without doing them
	DryRun bool

	// MakeDirs creates missing target directories
	MakeDirs bool

	// Exclude lists gitignore style globs skipped by any-level walks
	Exclude []string

	// Home replaces a leading ~/ in patterns; empty when HOME is unset or "/"
	Home string

	Retries    int
	RetryDelay time.Duration
	TempPrefix string
}

// DefaultOptions returns the options mmv runs with when nothing is configured
func DefaultOptions() Options {
	return Options{
		Mode:       ModeCopyDel,
		Delete:     DeleteAsk,
		Bad:        BadAsk,
		Retries:    2,
		RetryDelay: 50 * time.Millisecond,
		TempPrefix: DefaultTempPrefix,
	}
}

// Normalize fills unset fields with defaults and applies the cross-field rules:
// a run that will not ask about bad operations will not ask about deletes either.
func (o Options) Normalize() Options {
	if o.Mode == "" {
		o.Mode = ModeCopyDel
	}
	if o.Delete == "" {
		o.Delete = DeleteAsk
	}
	if o.Bad == "" {
		o.Bad = BadAsk
	}
	if o.TempPrefix == "" {
		o.TempPrefix = DefaultTempPrefix
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.Bad != BadAsk && o.Delete == DeleteAsk {
		o.Delete = DeleteProtect
	}
	if o.DryRun {
		o.Verbose = false
	}
	return o
}
