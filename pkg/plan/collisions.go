package plan

import (
	"sort"
	"strings"

	"github.com/arthur-debert/mmv/pkg/dircache"
	"github.com/arthur-debert/mmv/pkg/errors"
)

// CheckCollisions drops every group of operations aiming at the same
// target. The whole group is reported on one line. Operations keep their
// discovery order within a group.
func (c *Context) CheckCollisions() {
	ops := c.Operations()
	if len(ops) == 0 {
		return
	}
	sort.SliceStable(ops, func(i, j int) bool {
		a, b := ops[i], ops[j]
		if a.ToHandle.Listing.ID != b.ToHandle.Listing.ID {
			return a.ToHandle.Listing.ID < b.ToHandle.Listing.ID
		}
		return a.ToName < b.ToName
	})

	var group []*Operation
	flush := func() {
		if len(group) > 1 {
			c.reportCollision(group)
		}
		group = group[:0]
	}
	for _, op := range ops {
		if len(group) > 0 && !sameTarget(group[0], op) {
			flush()
		}
		group = append(group, op)
	}
	flush()
	c.unlinkSkipped()
}

func sameTarget(a, b *Operation) bool {
	return a.ToHandle.Listing == b.ToHandle.Listing && a.ToName == b.ToName
}

func (c *Context) reportCollision(group []*Operation) {
	sources := make([]string, 0, len(group))
	for _, op := range group {
		sources = append(sources, op.SourcePath())
		op.Flags |= Skip
		c.drop(op)
		c.BadOps++
	}
	last := group[len(group)-1]
	c.refuse(errors.New(errors.ErrCollision, "collision").WithDetails(map[string]interface{}{
		"source":     strings.Join(sources, " , "),
		"target":     last.TargetPath(),
		"operations": len(group),
	}))
}

// unlinkSkipped takes skipped operations off the live list
func (c *Context) unlinkSkipped() {
	q := 0
	for p := c.ops[0].next; p != 0; p = c.ops[p].next {
		if c.ops[p].Has(Skip) {
			c.ops[q].next = c.ops[p].next
			if c.last == p {
				c.last = q
			}
			continue
		}
		q = p
	}
}

// claimedBy returns the live operation using e as its source, or nil
func (c *Context) claimedBy(e *dircache.Entry) *Operation {
	if e == nil || e.Op <= 0 {
		return nil
	}
	return c.ops[e.Op]
}
