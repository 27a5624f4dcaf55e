package plan

import (
	"fmt"

	"github.com/arthur-debert/mmv/pkg/dircache"
	"github.com/arthur-debert/mmv/pkg/errors"
	"github.com/arthur-debert/mmv/pkg/logging"
	"github.com/arthur-debert/mmv/pkg/types"
	"github.com/rs/zerolog"
	ignore "github.com/sabhiram/go-gitignore"
)

// Flag describes an operation
type Flag uint8

const (
	// CrossDevice operations move between devices and fall back to copy and delete
	CrossDevice Flag = 1 << iota
	// Skip marks an operation dropped by the collision pass
	Skip
	// DeleteOK pre-approves deleting what occupies the target
	DeleteOK
	// Aliased operations have their source renamed away first to break a cycle
	Aliased
	// Cycle marks the operation closing a cycle
	Cycle
	// OneDirLink symlinks point at a bare name in the same directory
	OneDirLink
)

// Operation is one planned rename, copy, append or link.
// Operations live in the Context arena and link to each other by index.
type Operation struct {
	id int

	FromHandle *dircache.Handle
	From       *dircache.Entry
	ToHandle   *dircache.Handle
	// ToName is the target name inside ToHandle
	ToName string
	// Del is what occupies the target when the batch was planned
	Del   *dircache.Entry
	Flags Flag

	first  int
	thenDo int
	next   int
}

// Has reports whether all bits of f are set
func (op *Operation) Has(f Flag) bool {
	return op.Flags&f == f
}

// SourcePath is the source spelled as in the pattern
func (op *Operation) SourcePath() string {
	return op.FromHandle.Name + op.From.Name
}

// TargetPath is the target spelled as in the template
func (op *Operation) TargetPath() string {
	return op.ToHandle.Name + op.ToName
}

// Deletes reports whether something occupies the target
func (op *Operation) Deletes() bool {
	return op.Del != nil
}

func (op *Operation) String() string {
	return fmt.Sprintf("%s -> %s", op.SourcePath(), op.TargetPath())
}

// Context holds everything one batch run plans with: the directory cache,
// the operation arena and the error counters.
type Context struct {
	opts     types.Options
	fs       types.FS
	cache    *dircache.Cache
	reporter types.Reporter
	prompter types.Prompter
	exclude  *ignore.GitIgnore

	cwdDev  uint64
	cwdIno  uint64
	haveCwd bool

	// ops[0] is the head of the live list
	ops  []*Operation
	last int
	live int

	// PatternErrors counts patterns that failed to parse or to walk
	PatternErrors int
	// BadOps counts operations rejected while planning
	BadOps int
	// Refused holds one coded error per report of a rejection, collision
	// or refused chain, in the order they were reported
	Refused []error

	logger zerolog.Logger
}

// New creates a planning context for one batch run
func New(fsys types.FS, reporter types.Reporter, prompter types.Prompter, opts types.Options) *Context {
	c := &Context{
		opts:     opts.Normalize(),
		fs:       fsys,
		cache:    dircache.New(fsys),
		reporter: reporter,
		prompter: prompter,
		ops:      []*Operation{{}},
		logger:   logging.GetLogger("plan"),
	}
	if len(c.opts.Exclude) > 0 {
		c.exclude = ignore.CompileIgnoreLines(c.opts.Exclude...)
	}
	if id, err := fsys.Identity(".", true); err == nil {
		c.cwdDev, c.cwdIno, c.haveCwd = id.Dev, id.Ino, true
	}
	return c
}

// Options returns the normalized options the context plans with
func (c *Context) Options() types.Options {
	return c.opts
}

// Live returns the number of operations still planned
func (c *Context) Live() int {
	return c.live
}

// refuse reports err, built with a source and a target detail, as
// "source -> target : message."
func (c *Context) refuse(err *errors.Error) {
	c.Refused = append(c.Refused, err)
	details := errors.GetErrorDetails(err)
	c.reporter.Line("%s -> %s : %s.", details["source"], details["target"], errors.Message(err))
	c.logger.Debug().
		Str("code", string(errors.GetErrorCode(err))).
		Fields(details).
		Msg(errors.Message(err))
}

func (c *Context) push(op *Operation) {
	op.id = len(c.ops)
	op.first = op.id
	c.ops = append(c.ops, op)
	c.ops[c.last].next = op.id
	c.last = op.id
	op.From.Op = op.id
	c.live++
}

// drop takes an operation out of the plan; unlinking is left to the caller
func (c *Context) drop(op *Operation) {
	op.From.Op = dircache.Rejected
	c.live--
}

// Operations returns the live list in order, chains collapsed into their roots
func (c *Context) Operations() []*Operation {
	var out []*Operation
	for p := c.ops[0].next; p != 0; p = c.ops[p].next {
		out = append(out, c.ops[p])
	}
	return out
}

// Chains returns the execution order: one chain per live root, each chain
// walked from its root along the then-do links.
func (c *Context) Chains() [][]*Operation {
	var chains [][]*Operation
	for p := c.ops[0].next; p != 0; p = c.ops[p].next {
		var chain []*Operation
		for q := p; q != 0; q = c.ops[q].thenDo {
			chain = append(chain, c.ops[q])
		}
		chains = append(chains, chain)
	}
	return chains
}

func (c *Context) patternError(from, to, format string, args ...interface{}) {
	c.PatternErrors++
	c.reporter.Line("%s -> %s : %s.", from, to, fmt.Sprintf(format, args...))
}
