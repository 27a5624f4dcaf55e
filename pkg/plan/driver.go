package plan

import (
	"github.com/arthur-debert/mmv/pkg/dircache"
	"github.com/arthur-debert/mmv/pkg/errors"
	"github.com/arthur-debert/mmv/pkg/glob"
	"github.com/arthur-debert/mmv/pkg/logging"
	"github.com/arthur-debert/mmv/pkg/pattern"
	"github.com/arthur-debert/mmv/pkg/types"
)

// AddPattern parses one pattern pair and plans an operation for every
// entry it matches. Pattern problems are reported and counted; only an
// inconsistent filesystem is returned as an error.
func (c *Context) AddPattern(from, to string, deleteOK bool) error {
	p, err := pattern.Parse(from, to, pattern.ParseOptions{
		Home:           c.opts.Home,
		NoPathInTarget: c.opts.Mode == types.ModeRename,
	})
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrPatternTooLong) {
			c.PatternErrors++
			c.reporter.Line("%.40s... : pattern too long.", from)
			return nil
		}
		c.patternError(from, to, "%s", errors.Message(err))
		return nil
	}

	var flags Flag
	if deleteOK {
		flags = DeleteOK
	}
	matched, err := c.Expand(p, from, to, flags)
	if err != nil {
		return err
	}
	if !matched {
		c.patternError(from, to, "no match")
	}
	return nil
}

// Expand walks the directories p can match in and plans an operation for
// every match. It reports whether anything matched; a stage 0 directory
// problem counts as matched since it was already reported.
func (c *Context) Expand(p *pattern.Pattern, from, to string, flags Flag) (bool, error) {
	done := logging.LogOperationStart(c.logger, "expand "+from)
	defer done()

	w := &walker{c: c, p: p, from: from, to: to, flags: flags, caps: make([]string, p.Wilds)}
	none, err := w.stage(0, "", 0, 0, -1)
	return !none, err
}

type walker struct {
	c     *Context
	p     *pattern.Pattern
	from  string
	to    string
	flags Flag
	caps  []string
}

// stage matches one stage of the pattern inside the directory path, which
// is empty or ends in '/'. lastend is where the unread part of the pattern
// starts, capIdx the first capture slot of the stage. anyStart is the
// length of path when the any-level walk started, or -1 outside one.
// It returns true when nothing matched.
func (w *walker) stage(lastend int, path string, capIdx, stage, anyStart int) (bool, error) {
	c := w.c
	from := w.p.From
	st := w.p.Stages[stage]
	last := w.p.Last(stage)

	if anyStart < 0 {
		if len(path)+st.Start-lastend >= pattern.MaxPathLen {
			c.patternError(w.from, w.to, "search path after %s too long", path)
			return true, nil
		}
		path += from[lastend:st.Start]
		lastend = st.Start
	}

	h, err := c.cache.Resolve(path, dircache.Source, false)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrInconsistent) {
			return true, err
		}
		if stage == 0 || errors.IsErrorCode(err, errors.ErrDirNoRead) {
			what := "exist"
			if errors.IsErrorCode(err, errors.ErrDirNoRead) {
				what = "allow reads/searches"
			}
			c.patternError(w.from, w.to, "directory %s does not %s", path, what)
		}
		return stage != 0, nil
	}
	l := h.Listing

	if anyStart < 0 && st.AnyLevel {
		anyStart = len(path)
		w.caps[capIdx] = ""
		lastend++
	}
	capBase := capIdx
	if anyStart >= 0 {
		capBase++
	}

	none := true
	if c.opts.Mode.IsMove() && !c.cache.Writable(h) {
		c.patternError(w.from, w.to, "directory %s does not allow writes", path)
	} else {
		prefix := w.p.Literal(stage, lastend)
		for i := l.First(prefix); i < l.Len(); i++ {
			e := l.At(i)
			if len(e.Name) < len(prefix) || e.Name[:len(prefix)] != prefix {
				break
			}
			if e.Claimed() {
				continue
			}
			vis := glob.Classify(e.Name, from[lastend:], c.opts.Hidden)
			if vis == glob.Hidden {
				continue
			}
			if vis == glob.Candidate {
				spans, ok := glob.Match(from[lastend+len(prefix):], e.Name[len(prefix):])
				if !ok {
					continue
				}
				for j, sp := range spans {
					start := len(prefix) + sp.Start
					w.caps[capBase+j] = e.Name[start : start+sp.Len]
				}
			}
			keep, err := w.keep(e, path, false, last)
			if err != nil {
				return none, err
			}
			if !keep {
				continue
			}
			if !last {
				sub, err := w.stage(st.End, path+e.Name, capIdx+st.Wilds, stage+1, -1)
				if err != nil {
					return none, err
				}
				none = none && sub
				continue
			}
			none = false
			if err := c.addMatch(w, h, e, path+e.Name); err != nil {
				return none, err
			}
		}
	}

	if anyStart >= 0 {
		for i := 0; i < l.Len(); i++ {
			e := l.At(i)
			if e.Name[0] == '.' || c.excluded(path+e.Name) {
				continue
			}
			keep, err := w.keep(e, path, true, false)
			if err != nil {
				return none, err
			}
			if !keep {
				continue
			}
			sub := path + e.Name + "/"
			w.caps[capIdx] = sub[anyStart:]
			deeper, err := w.stage(lastend, sub, capIdx, stage, anyStart)
			if err != nil {
				return none, err
			}
			none = none && deeper
		}
	}
	return none, nil
}

// keep stats a matched entry and decides whether the walk goes on with it:
// only directories are kept unless files are acceptable at this stage.
func (w *walker) keep(e *dircache.Entry, path string, needSlash, files bool) (bool, error) {
	extra := 0
	if needSlash {
		extra = 1
	}
	if len(path)+len(e.Name)+extra >= pattern.MaxPathLen {
		w.c.patternError(w.from, w.to, "search path %s%s too long", path, e.Name)
		return false, nil
	}
	if err := w.c.cache.Stat(path+e.Name, e); err != nil {
		return false, err
	}
	if !e.Has(dircache.IsDir) && !files {
		if w.c.opts.Verbose {
			w.c.reporter.Line("ignoring file %s", e.Name)
		}
		return false, nil
	}
	return true, nil
}

func (c *Context) excluded(path string) bool {
	return c.exclude != nil && c.exclude.MatchesPath(path)
}
