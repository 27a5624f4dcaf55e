package plan

import (
	"strings"

	"github.com/arthur-debert/mmv/pkg/errors"
)

// Settle runs the passes that need no user input, in the order they
// depend on each other.
func (c *Context) Settle() error {
	mode := c.opts.Mode
	if !mode.IsAppend() {
		c.CheckCollisions()
	}
	c.FindOrder()
	if mode.IsCopy() || mode.IsLink() {
		c.NoChains()
	}
	return c.ScanDeletes(c.BadDelete)
}

// FindOrder links operations that must run in sequence. An operation whose
// target is the source of another one runs after it, on the same chain.
// When the chain leads back to the operation itself, the loop is closed by
// marking it as a cycle instead: its target gets moved aside first.
func (c *Context) FindOrder() {
	move := c.opts.Mode.IsMove()
	q := 0
	for p := c.ops[0].next; p != 0; p = c.ops[p].next {
		op := c.ops[p]
		pred := c.claimedBy(op.Del)
		if pred == nil {
			q = p
			continue
		}
		if pred.first == op.id {
			op.Flags |= Cycle
			pred.Flags |= Aliased
			if move {
				op.Del = nil
			}
			q = p
			continue
		}

		first := pred.first
		if move {
			op.Del = nil
		}
		for pred.thenDo != 0 {
			pred = c.ops[pred.thenDo]
		}
		pred.thenDo = op.id
		for t := op.id; t != 0; t = c.ops[t].thenDo {
			c.ops[t].first = first
		}
		c.ops[q].next = op.next
		if c.last == p {
			c.last = q
		}
		p = q
	}
	c.logger.Debug().Int("chains", len(c.Chains())).Int("operations", c.live).Msg("ordered")
}

// NoChains rejects every chain and cycle. Copies and appends read their
// sources as they are when the batch runs, so a chain would change what a
// later link reads.
func (c *Context) NoChains() {
	q := 0
	for p := c.ops[0].next; p != 0; p = c.ops[p].next {
		op := c.ops[p]
		if !op.Has(Cycle) && op.thenDo == 0 {
			q = p
			continue
		}
		var b strings.Builder
		c.printChain(&b, op)
		c.refuse(errors.New(errors.ErrChain, "no chain copies allowed").
			WithDetail("source", strings.TrimSuffix(b.String(), " -> ")).
			WithDetail("target", op.TargetPath()))
		c.ops[q].next = op.next
		if c.last == p {
			c.last = q
		}
		p = q
	}
}

// printChain writes the chain rooted at op tail first
func (c *Context) printChain(b *strings.Builder, op *Operation) {
	if op.thenDo != 0 {
		c.printChain(b, c.ops[op.thenDo])
	}
	b.WriteString(op.SourcePath())
	b.WriteString(" -> ")
	c.BadOps++
	c.drop(op)
}
