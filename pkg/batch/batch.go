package batch

import (
	"context"

	"github.com/arthur-debert/mmv/pkg/errors"
	"github.com/arthur-debert/mmv/pkg/executor"
	"github.com/arthur-debert/mmv/pkg/filesystem"
	"github.com/arthur-debert/mmv/pkg/logging"
	"github.com/arthur-debert/mmv/pkg/plan"
	"github.com/arthur-debert/mmv/pkg/types"
)

// ExitStatus is the process exit status of a run
type ExitStatus int

const (
	// ExitOK means everything planned was done
	ExitOK ExitStatus = 0
	// ExitAborted means the run was given up before doing anything, or
	// nothing could be attempted after errors
	ExitAborted ExitStatus = 1
	// ExitFailed means an operation failed or the run was interrupted
	ExitFailed ExitStatus = 2
)

// Options configures a run
type Options struct {
	Run types.Options

	Reporter types.Reporter
	Prompter types.Prompter

	// FS defaults to the OS filesystem
	FS types.FS

	// Applier overrides the executor's filesystem primitives
	Applier executor.Applier

	// Interactive is set when the report goes to a terminal
	Interactive bool

	// OnExecute is called once planning is over, right before the first
	// operation is performed
	OnExecute func()
}

// Run plans and performs one batch and returns the exit status
func Run(ctx context.Context, pairs []PatternPair, opts Options) ExitStatus {
	logger := logging.GetLogger("batch")
	done := logging.LogOperationStart(logger, "batch")
	defer done()

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	run := opts.Run.Normalize()
	rep := opts.Reporter
	defer func() {
		if err := rep.Flush(); err != nil {
			logger.Warn().Err(err).Msg("flushing report")
		}
	}()

	c := plan.New(fsys, rep, opts.Prompter, run)
	if !prepare(ctx, c, pairs, opts.Prompter, rep) {
		return ExitAborted
	}
	logger.Debug().
		Int("operations", c.Live()).
		Int("pattern_errors", c.PatternErrors).
		Int("bad", c.BadOps).
		Msg("batch planned")

	if opts.OnExecute != nil {
		opts.OnExecute()
	}
	e := executor.New(executor.Options{
		Run:         run,
		Reporter:    rep,
		Prompter:    opts.Prompter,
		FS:          fsys,
		Applier:     opts.Applier,
		Interactive: opts.Interactive,
	})
	res, err := e.Run(ctx, c.Chains(), c.Live())
	if err != nil {
		logger.Info().Err(err).Msg("listing interrupted")
		return ExitAborted
	}

	switch {
	case res.Failed:
		return ExitFailed
	case res.Done == 0 && (c.PatternErrors > 0 || c.BadOps > 0):
		return ExitAborted
	default:
		return ExitOK
	}
}

// prepare plans every pair, settles the plan and asks what has to be
// asked. It returns false when the run ends before doing anything.
func prepare(ctx context.Context, c *plan.Context, pairs []PatternPair, prompter types.Prompter, rep types.Reporter) bool {
	logger := logging.GetLogger("batch")
	abort := func() bool {
		rep.Warn("Aborting, nothing done.")
		return false
	}

	for _, p := range pairs {
		if ctx.Err() != nil {
			return abort()
		}
		if err := c.AddPattern(p.From, p.To, p.DeleteOK); err != nil {
			logger.Error().Err(err).Str("from", p.From).Msg("planning failed")
			rep.Warn("%s", errors.Message(err))
			return abort()
		}
	}
	if err := c.Settle(); err != nil {
		logger.Error().Err(err).Msg("settling failed")
		rep.Warn("%s", errors.Message(err))
		return abort()
	}

	goOn, err := goOnOrDie(c, prompter, rep)
	if err != nil {
		return abort()
	}
	if !goOn {
		return false
	}
	opts := c.Options()
	if !opts.Mode.IsAppend() && opts.Delete == types.DeleteAsk {
		if err := c.ScanDeletes(c.AskDelete); err != nil {
			logger.Debug().Err(err).Msg("delete question unanswered")
			return abort()
		}
	}
	if ctx.Err() != nil {
		return abort()
	}
	return true
}

// goOnOrDie decides what to do when some of the batch cannot be done but
// the rest can. It returns false to give up.
func goOnOrDie(c *plan.Context, prompter types.Prompter, rep types.Reporter) (bool, error) {
	if (c.PatternErrors == 0 && c.BadOps == 0) || c.Live() == 0 {
		return true, nil
	}

	const msg = "Not everything specified can be done."
	switch c.Options().Bad {
	case types.BadAbort:
		rep.Warn("%s Aborting.", msg)
		return false, nil
	case types.BadSkip:
		rep.Warn("%s Proceeding with the rest.", msg)
		return true, nil
	}
	return prompter.YesNo(msg + " Proceed with the rest? ")
}
