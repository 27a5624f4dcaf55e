package plan

import (
	"fmt"

	"github.com/arthur-debert/mmv/pkg/dircache"
	"github.com/arthur-debert/mmv/pkg/errors"
	"github.com/arthur-debert/mmv/pkg/types"
)

// DeleteCheck decides whether an operation that replaces an existing target
// has to be given up.
type DeleteCheck func(op *Operation) (bool, error)

// ScanDeletes runs check on every operation that replaces something and
// drops those it gives up. Dropping the root of a chain promotes the next
// link, which then inherits the root's source as the file it replaces.
func (c *Context) ScanDeletes(check DeleteCheck) error {
	move := c.opts.Mode.IsMove()
	q := 0
	for p := c.ops[0].next; p != 0; p = c.ops[p].next {
		op := c.ops[p]
		for op.Del != nil {
			kill, err := check(op)
			if err != nil {
				return err
			}
			if !kill {
				break
			}
			c.drop(op)
			if op.thenDo == 0 {
				c.ops[q].next = op.next
				if c.last == p {
					c.last = q
				}
				p = q
				break
			}
			n := c.ops[op.thenDo]
			if move {
				n.Del = op.From
			}
			n.next = op.next
			c.ops[q].next = n.id
			if c.last == p {
				c.last = n.id
			}
			p = n.id
			op = n
		}
		q = p
	}
	return nil
}

// BadDelete gives up operations whose target cannot or may not be replaced
func (c *Context) BadDelete(op *Operation) (bool, error) {
	reason := c.badDeleteReason(op)
	if reason == "" {
		return false, nil
	}
	c.BadOps++
	c.refuse(errors.New(errors.ErrBadOperation, reason).
		WithDetail("source", op.SourcePath()).
		WithDetail("target", op.TargetPath()))
	return true, nil
}

func (c *Context) badDeleteReason(op *Operation) string {
	mode := c.opts.Mode
	old := op.ToHandle.Name + op.Del.Name
	switch {
	case c.opts.Delete == types.DeleteProtect && !op.Has(DeleteOK) && !mode.IsAppend():
		verb := "deleted"
		if mode == types.ModeOverwrite {
			verb = "overwritten"
		}
		return fmt.Sprintf("old %s would have to be %s", old, verb)
	case op.Del.Op == dircache.Rejected:
		return fmt.Sprintf("old %s was to be done first", old)
	case op.Del.Has(dircache.IsDir):
		if mode.IsAppend() {
			return fmt.Sprintf("%s is a directory", old)
		}
		return fmt.Sprintf("old %s is a directory", old)
	case op.Del.Has(dircache.NoDelete) && !mode.KeepsTargetMode():
		return fmt.Sprintf("old %s lacks delete permission", old)
	case mode.KeepsTargetMode() && !c.cache.EntryWritable(op.ToHandle.Name, op.Del):
		if op.Del.Has(dircache.LinkErr) {
			return fmt.Sprintf("%s is a badly aimed symbolic link", old)
		}
		return fmt.Sprintf("%s lacks write permission", old)
	}
	return ""
}

// AskDelete asks before replacing each existing target that was not
// pre-approved, giving up the operation on a no.
func (c *Context) AskDelete(op *Operation) (bool, error) {
	if op.Has(DeleteOK) {
		return false, nil
	}
	target := op.TargetPath()
	var question string
	if !op.From.Has(dircache.IsLink) && !c.cache.EntryWritable(op.ToHandle.Name, op.Del) {
		question = fmt.Sprintf("%s -> %s : old %s lacks write permission. delete it? ", op.SourcePath(), target, target)
	} else {
		verb := "delete"
		if c.opts.Mode == types.ModeOverwrite {
			verb = "overwrite"
		}
		question = fmt.Sprintf("%s -> %s : %s old %s? ", op.SourcePath(), target, verb, target)
	}
	yes, err := c.prompter.YesNo(question)
	if err != nil {
		return false, err
	}
	return !yes, nil
}
