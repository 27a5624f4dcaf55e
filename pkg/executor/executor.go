package executor

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/mmv/pkg/dircache"
	"github.com/arthur-debert/mmv/pkg/errors"
	"github.com/arthur-debert/mmv/pkg/filesystem"
	"github.com/arthur-debert/mmv/pkg/logging"
	"github.com/arthur-debert/mmv/pkg/plan"
	"github.com/arthur-debert/mmv/pkg/types"
	"github.com/rs/zerolog"
)

// Options contains configuration for the executor
type Options struct {
	// Run holds the batch options; Mode, DryRun, Verbose, Bad and
	// TempPrefix are used here
	Run types.Options

	Reporter types.Reporter
	Prompter types.Prompter

	// FS is used for temporary names, directory creation and the redirect
	// file. Defaults to the OS filesystem.
	FS types.FS

	// Applier performs the operations. Defaults to an FSApplier over FS.
	Applier Applier

	// Interactive allows offering to redirect the report into a file
	// after a failure; set it when standard output is a terminal
	Interactive bool

	Logger zerolog.Logger
}

// Result summarizes a run
type Result struct {
	// Done counts the operations walked, done or listed
	Done int

	// Failed is set once an operation failed or the run was interrupted
	Failed bool
}

// Executor walks ordered chains and performs their operations
type Executor struct {
	opts     types.Options
	reporter types.Reporter
	prompter types.Prompter
	fs       types.FS
	applier  Applier
	tty      bool
	logger   zerolog.Logger

	chains [][]*plan.Operation
	// noex is set in dry runs and once a failure switched to listing
	noex        bool
	failed      bool
	interrupted bool
	created     map[*dircache.Listing]bool
	truncated   map[string]bool
	redirect    io.Closer
}

// New creates a new executor instance
func New(opts Options) *Executor {
	logger := opts.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = logging.GetLogger("executor")
	}

	run := opts.Run.Normalize()
	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	applier := opts.Applier
	if applier == nil {
		applier = NewFSApplier(fsys, opts.Reporter, run.Retries, run.RetryDelay)
	}

	return &Executor{
		opts:     run,
		reporter: opts.Reporter,
		prompter: opts.Prompter,
		fs:       fsys,
		applier:  applier,
		tty:      opts.Interactive,
		logger:   logger,
	}
}

// Run performs the chains in order. expected is the number of live
// operations planned, checked against what was walked.
// A cancelled ctx stops real work at the next operation: what was done is
// listed and the rest is listed as left undone. The returned error is
// ErrCancelled when the run must end at once, without listing the rest.
func (e *Executor) Run(ctx context.Context, chains [][]*plan.Operation, expected int) (Result, error) {
	done := logging.LogOperationStart(e.logger, "execute")
	defer done()

	e.chains = chains
	e.noex = e.opts.DryRun
	e.created = make(map[*dircache.Listing]bool)
	e.truncated = make(map[string]bool)
	defer e.closeRedirect()

	mode := e.opts.Mode
	k := 0
	for ci, chain := range chains {
		printAliased := false
		alias := ""
		aliasLen := int64(-1)

		for i, op := range chain {
			if !e.interrupted && ctx.Err() != nil {
				e.interrupted = true
				e.reporter.Warn("User break.")
				more, err := e.snap(ci, i)
				if err != nil {
					return Result{Done: k, Failed: true}, err
				}
				printAliased = more
			}

			full := op.TargetPath()
			if !e.noex && op.Has(plan.Cycle) {
				if mode.IsAppend() {
					aliasLen = e.appendAlias(ci, i, full, &printAliased)
				} else {
					alias = e.moveAlias(ctx, ci, i, op, full, &printAliased)
				}
			}

			src := op.SourcePath()
			if op.Has(plan.Aliased) && !mode.IsAppend() {
				src = op.FromHandle.Name + alias
			}

			if !e.noex {
				if err := e.perform(ctx, op, src, full, aliasLen); err != nil {
					e.logger.Error().Err(err).Str("op", op.String()).Msg("operation failed")
					e.reporter.Error("%s -> %s has failed.", src, full)
					more, snapErr := e.snap(ci, i)
					if snapErr != nil {
						return Result{Done: k, Failed: true}, snapErr
					}
					printAliased = more
				}
			}

			if e.opts.Verbose || e.noex {
				shown := src
				if op.Has(plan.Aliased) && !printAliased {
					shown = op.SourcePath()
				}
				e.reporter.Operation(e.record(op, shown, !e.noex))
			}
			k++
		}
	}

	if k != expected {
		e.reporter.Warn("Strange, did %d reps; %d were expected.", k, expected)
	}
	if k == 0 {
		e.reporter.Warn("Nothing done.")
	}
	e.logger.Info().Int("operations", k).Bool("failed", e.failed).Msg("batch executed")
	return Result{Done: k, Failed: e.failed}, nil
}

// perform does one operation: creates a pending target directory, removes
// what the target replaces and applies the primitive for the mode.
func (e *Executor) perform(ctx context.Context, op *plan.Operation, src, full string, aliasLen int64) error {
	mode := e.opts.Mode
	if l := op.ToHandle.Listing; l.Pending && !e.created[l] {
		if err := e.fs.MkdirAll(dircache.DirPath(op.ToHandle.Name), 0777); err != nil {
			return errors.Wrapf(err, errors.ErrExecute, "cannot create %s", op.ToHandle.Name)
		}
		e.created[l] = true
	}
	if op.Deletes() && !mode.KeepsTargetMode() {
		if err := e.fs.Remove(full); err != nil {
			e.reporter.Warn("Strange, can not unlink %s.", full)
		}
	}

	var opts ApplyOptions
	opts.Limit = -1
	var kind Kind
	switch {
	case mode.IsCopy():
		kind = KindCopy
		opts.KeepTargetMode = mode == types.ModeOverwrite
	case mode.IsAppend():
		kind = KindAppend
		if op.Has(plan.Aliased) {
			opts.Limit = aliasLen
		}
		if mode == types.ModeZAppend && !e.truncated[full] {
			opts.Truncate = true
			e.truncated[full] = true
		}
	case mode == types.ModeHardlink:
		kind = KindHardlink
	case mode == types.ModeSymlink:
		kind = KindSymlink
		if op.Has(plan.OneDirLink) {
			src = op.From.Name
		}
	case op.Has(plan.CrossDevice):
		kind = KindCopyDelete
	default:
		kind = KindMove
	}
	return e.applier.Apply(ctx, kind, src, full, opts)
}

// moveAlias moves the target of a cycle out of the way under a temporary
// name in its directory and returns that name.
func (e *Executor) moveAlias(ctx context.Context, ci, i int, op *plan.Operation, full string, printAliased *bool) string {
	l := op.ToHandle.Listing
	var name string
	for j := 0; ; j++ {
		name = fmt.Sprintf("%s%03d", e.opts.TempPrefix, j)
		if l.Search(name) != nil {
			continue
		}
		if _, err := e.fs.Lstat(op.ToHandle.Name + name); err == nil {
			continue
		}
		break
	}
	tmp := op.ToHandle.Name + name
	if err := e.applier.Apply(ctx, KindMove, full, tmp, ApplyOptions{Limit: -1}); err != nil {
		e.logger.Error().Err(err).Str("target", full).Msg("could not move cycle target aside")
		e.reporter.Error("%s -> %s has failed.", full, tmp)
		if more, snapErr := e.snap(ci, i); snapErr == nil {
			*printAliased = more
		}
	}
	return name
}

// appendAlias records the size of a cycle's target before anything is
// appended to it, so the aliased append reads only the original bytes.
func (e *Executor) appendAlias(ci, i int, full string, printAliased *bool) int64 {
	id, err := e.fs.Identity(full, true)
	if err != nil {
		e.reporter.Error("append cycle stat on %s has failed.", full)
		if more, snapErr := e.snap(ci, i); snapErr == nil {
			*printAliased = more
		}
		return 0
	}
	return id.Size
}

// snap switches the run to listing mode after a failure or a break: what
// was done is listed unless it already was, then the rest follows as left
// undone. It reports whether the failure happened inside a chain.
func (e *Executor) snap(ci, i int) (bool, error) {
	if e.noex {
		return false, errors.New(errors.ErrCancelled, "run interrupted")
	}
	e.failed = true

	redirected := false
	if e.opts.Bad == types.BadAsk && e.tty && e.prompter != nil {
		if yes, err := e.prompter.YesNo("Redirect standard output to file? "); err == nil && yes {
			redirected = e.redirectOutput()
		}
	}
	if redirected || !e.opts.Verbose {
		e.showDone(ci, i)
	}
	e.reporter.Line("The following left undone:")
	e.noex = true
	return i != 0, nil
}

func (e *Executor) redirectOutput() bool {
	for {
		name, err := e.prompter.Ask("File name> ")
		if err != nil {
			return false
		}
		f, err := e.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
		if err != nil {
			e.reporter.Warn("Can't open %s.", name)
			continue
		}
		e.reporter.Redirect(f)
		e.redirect = f
		return true
	}
}

func (e *Executor) closeRedirect() {
	if e.redirect == nil {
		return
	}
	if err := e.reporter.Flush(); err != nil {
		e.logger.Warn().Err(err).Msg("flushing redirected output")
	}
	_ = e.redirect.Close()
	e.redirect = nil
}

// showDone lists every operation before chain ci, step i as done
func (e *Executor) showDone(ci, i int) {
	for c := 0; c <= ci; c++ {
		for j, op := range e.chains[c] {
			if c == ci && j == i {
				return
			}
			e.reporter.Operation(e.record(op, op.SourcePath(), true))
		}
	}
}

func (e *Executor) record(op *plan.Operation, src string, done bool) types.OpRecord {
	return types.OpRecord{
		From:    src,
		To:      op.TargetPath(),
		Aliased: op.Has(plan.Aliased),
		Cycle:   op.Has(plan.Cycle),
		Deletes: op.Deletes() && !e.opts.Mode.IsAppend(),
		Done:    done,
	}
}
