package plan

import (
	"strings"

	"github.com/arthur-debert/mmv/pkg/dircache"
	"github.com/arthur-debert/mmv/pkg/errors"
	"github.com/arthur-debert/mmv/pkg/pattern"
	"github.com/arthur-debert/mmv/pkg/types"
)

func (c *Context) addMatch(w *walker, h *dircache.Handle, e *dircache.Entry, src string) error {
	rep, ok := w.p.Template.Instantiate(w.caps)
	op, rej, err := c.validate(h, e, src, rep, ok)
	if err != nil {
		return err
	}
	if rej != nil {
		e.Op = dircache.Rejected
		c.BadOps++
		c.refuse(rej)
		return nil
	}
	op.Flags |= w.flags
	c.push(op)
	c.logger.Trace().Str("op", op.String()).Msg("planned")
	return nil
}

type target struct {
	handle *dircache.Handle
	dirErr error
	name   string
	del    *dircache.Entry
	full   string
}

// validate checks one match in order, the first failing check deciding
// the reason it is rejected with. A rejection is an ErrBadOperation
// naming the source and target.
func (c *Context) validate(hfrom *dircache.Handle, e *dircache.Entry, src, rep string, repOK bool) (*Operation, *errors.Error, error) {
	mode := c.opts.Mode
	reject := func(to, format string, args ...interface{}) (*Operation, *errors.Error, error) {
		rej := errors.Newf(errors.ErrBadOperation, format, args...).
			WithDetails(map[string]interface{}{"source": src, "target": to})
		return nil, rej, nil
	}

	if e.Has(dircache.LinkErr) && !mode.IsMove() && mode != types.ModeSymlink {
		return reject(rep, "source file is a badly aimed symbolic link")
	}
	if (mode.IsCopy() || mode.IsAppend()) && !c.fs.Access(src, types.AccessRead) {
		return reject(rep, "no read permission for source file")
	}
	if (e.Name == "." || e.Name == "..") && mode != types.ModeSymlink {
		return reject(rep, ". and .. can't be renamed")
	}
	if !repOK {
		return reject(rep, "bad new name")
	}
	t, ok, err := c.checkTo(hfrom, e, rep)
	if err != nil {
		return nil, nil, err
	}
	if !ok || badName(t.name) {
		return reject(t.full, "bad new name")
	}
	if t.handle.Listing == nil {
		if errors.IsErrorCode(t.dirErr, errors.ErrDirNoRead) {
			return reject(t.full, "no read or search permission for target directory")
		}
		return reject(t.full, "target directory does not exist")
	}
	hto := t.handle
	if !c.cache.Writable(hto) {
		return reject(t.full, "no write permission for target directory")
	}

	var flags Flag
	if hto.Listing.Dev != hfrom.Listing.Dev {
		flags |= CrossDevice
		if mode == types.ModeMove || mode == types.ModeHardlink {
			return reject(t.full, "cross-device move")
		}
		if mode.IsMove() && !e.Has(dircache.IsLink) && !c.fs.Access(src, types.AccessRead) {
			return reject(t.full, "no read permission for source file")
		}
	}
	if mode == types.ModeSymlink {
		inCwd := c.haveCwd && !hto.Listing.Pending &&
			hto.Listing.Dev == c.cwdDev && hto.Listing.Ino == c.cwdIno
		if !inCwd && !strings.HasPrefix(hfrom.Name, "/") {
			flags |= OneDirLink
			if hfrom.Listing != hto.Listing {
				return reject(t.full, "symbolic link would be badly aimed")
			}
		}
	}

	return &Operation{
		FromHandle: hfrom,
		From:       e,
		ToHandle:   hto,
		ToName:     t.name,
		Del:        t.del,
		Flags:      flags,
	}, nil, nil
}

// checkTo works out the target directory, name and current occupant of a
// new name. A new name that is an existing directory means "into it".
func (c *Context) checkTo(hfrom *dircache.Handle, e *dircache.Entry, rep string) (target, bool, error) {
	var t target

	if c.opts.Mode == types.ModeRename {
		t.handle = hfrom
		t.full = hfrom.Name + rep
		t.name = rep
		if del := hfrom.Listing.Search(rep); del != nil {
			t.del = del
			if err := c.cache.Stat(t.full, del); err != nil {
				return t, false, err
			}
		}
		return t, true, nil
	}

	slash := strings.LastIndexByte(rep, '/')
	dir, base := rep[:slash+1], rep[slash+1:]
	h, err := c.resolveTarget(dir)
	if err != nil && errors.IsErrorCode(err, errors.ErrInconsistent) {
		return t, false, err
	}
	t.handle, t.dirErr = h, err

	if h.Listing != nil && base != "" {
		if del := h.Listing.Search(base); del != nil {
			if err := c.cache.Stat(rep, del); err != nil {
				return t, false, err
			}
			t.del = del
			if del.Has(dircache.IsDir) {
				dir += base + "/"
				base = ""
				t.del = nil
				h, err = c.resolveTarget(dir)
				if err != nil && errors.IsErrorCode(err, errors.ErrInconsistent) {
					return t, false, err
				}
				t.handle, t.dirErr = h, err
			}
		}
	}

	if base == "" {
		t.name = e.Name
		t.full = dir + e.Name
		if len(t.full) >= pattern.MaxPathLen {
			t.full = pattern.TooLong
			return t, false, nil
		}
		if h.Listing != nil {
			if del := h.Listing.Search(e.Name); del != nil {
				if err := c.cache.Stat(t.full, del); err != nil {
					return t, false, err
				}
				t.del = del
			}
		}
		return t, true, nil
	}

	t.name = base
	t.full = rep
	return t, true, nil
}

func (c *Context) resolveTarget(dir string) (*dircache.Handle, error) {
	return c.cache.Resolve(dir, dircache.Target, c.opts.MakeDirs)
}

func badName(name string) bool {
	return name == "." || name == ".." || len(name) > pattern.MaxNameLen
}
