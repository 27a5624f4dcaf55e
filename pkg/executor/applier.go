package executor

import (
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"syscall"
	"time"

	"github.com/arthur-debert/mmv/pkg/errors"
	"github.com/arthur-debert/mmv/pkg/logging"
	"github.com/arthur-debert/mmv/pkg/types"
	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"
)

// Kind is the primitive an Applier performs
type Kind int

const (
	KindMove Kind = iota
	KindCopy
	KindAppend
	KindHardlink
	KindSymlink
	// KindCopyDelete copies then removes the source, for moves across devices
	KindCopyDelete
)

func (k Kind) String() string {
	switch k {
	case KindMove:
		return "move"
	case KindCopy:
		return "copy"
	case KindAppend:
		return "append"
	case KindHardlink:
		return "hardlink"
	case KindSymlink:
		return "symlink"
	case KindCopyDelete:
		return "copy-delete"
	}
	return "unknown"
}

// ApplyOptions tunes copies and appends
type ApplyOptions struct {
	// KeepTargetMode leaves an existing target's permissions alone and
	// creates missing targets with default permissions
	KeepTargetMode bool

	// Truncate empties the target before appending to it
	Truncate bool

	// Limit caps the bytes an append reads from the source; negative reads all
	Limit int64
}

// Applier performs one filesystem primitive
type Applier interface {
	Apply(ctx context.Context, kind Kind, src, dst string, opts ApplyOptions) error
}

// FSApplier applies primitives through a types.FS, retrying transient errors.
// Appends are never retried since a partial append cannot be undone.
type FSApplier struct {
	fs       types.FS
	reporter types.Reporter
	attempts uint
	delay    time.Duration
	logger   zerolog.Logger
}

// NewFSApplier creates an applier. Warnings that do not fail an operation
// go to reporter, which may be nil.
func NewFSApplier(fsys types.FS, reporter types.Reporter, retries int, delay time.Duration) *FSApplier {
	if retries < 0 {
		retries = 0
	}
	return &FSApplier{
		fs:       fsys,
		reporter: reporter,
		attempts: uint(retries) + 1,
		delay:    delay,
		logger:   logging.GetLogger("executor.applier"),
	}
}

func (a *FSApplier) retryOptions(ctx context.Context) []retry.Option {
	return []retry.Option{
		retry.Attempts(a.attempts),
		retry.Delay(a.delay),
		retry.MaxDelay(8 * a.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(IsTransient),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			a.logger.Debug().Uint("attempt", n+1).Err(err).Msg("retrying")
		}),
	}
}

func (a *FSApplier) retry(ctx context.Context, fn func() error) error {
	if a.attempts <= 1 {
		return fn()
	}
	return retry.Do(fn, a.retryOptions(ctx)...)
}

// Apply performs kind from src to dst. For symlinks src is the link text.
func (a *FSApplier) Apply(ctx context.Context, kind Kind, src, dst string, opts ApplyOptions) error {
	a.logger.Trace().Str("kind", kind.String()).Str("src", src).Str("dst", dst).Msg("apply")
	var err error
	switch kind {
	case KindMove:
		err = a.retry(ctx, func() error { return a.fs.Rename(src, dst) })
	case KindHardlink:
		err = a.retry(ctx, func() error { return a.fs.Link(src, dst) })
	case KindSymlink:
		err = a.retry(ctx, func() error { return a.fs.Symlink(src, dst) })
	case KindCopy:
		err = a.retry(ctx, func() error { return a.copy(src, dst, false, opts) })
	case KindAppend:
		err = a.copy(src, dst, true, opts)
	case KindCopyDelete:
		err = a.retry(ctx, func() error { return a.copy(src, dst, false, opts) })
		if err == nil {
			if rmErr := a.fs.Remove(src); rmErr != nil {
				a.warn("Strange, can not unlink %s.", src)
				err = rmErr
			}
		}
	default:
		return errors.Newf(errors.ErrInternal, "unknown operation kind %d", kind)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrExecute, "%s %s -> %s", kind, src, dst)
	}
	return nil
}

func (a *FSApplier) copy(src, dst string, appending bool, opts ApplyOptions) error {
	id, err := a.fs.Identity(src, true)
	if err != nil {
		return err
	}
	in, err := a.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	perm := id.Mode.Perm()
	if opts.KeepTargetMode || appending {
		perm = 0666 | id.Mode.Perm()&0111
	}
	flag := os.O_CREATE | os.O_WRONLY
	switch {
	case !appending || opts.Truncate:
		flag |= os.O_TRUNC
	default:
		flag |= os.O_APPEND
	}
	out, err := a.fs.OpenFile(dst, flag, perm)
	if err != nil {
		return err
	}

	var r io.Reader = in
	if appending && opts.Limit >= 0 {
		r = io.LimitReader(in, opts.Limit)
	}
	_, err = io.Copy(out, r)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if !appending {
			_ = a.fs.Remove(dst)
		}
		return err
	}

	if !appending && !opts.KeepTargetMode {
		if err := a.fs.Chmod(dst, id.Mode&(fs.ModePerm|fs.ModeSetuid|fs.ModeSetgid|fs.ModeSticky)); err != nil {
			a.logger.Debug().Err(err).Str("dst", dst).Msg("could not transfer mode")
		}
		if err := a.fs.Chtimes(dst, id.Atime, id.Mtime); err != nil {
			a.warn("Strange, couldn't transfer time from %s to %s.", src, dst)
		}
	}
	return nil
}

func (a *FSApplier) warn(format string, args ...interface{}) {
	if a.reporter != nil {
		a.reporter.Warn(format, args...)
	}
}

// IsTransient reports whether err is worth retrying
func IsTransient(err error) bool {
	return stderrors.Is(err, syscall.EINTR) ||
		stderrors.Is(err, syscall.EAGAIN) ||
		stderrors.Is(err, syscall.EBUSY)
}
