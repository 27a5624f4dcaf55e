// Package executor performs a planned batch.
//
// Chains run in order, each from its root. A chain closing a cycle starts
// by moving the cycle's target aside under a temporary name (or, when
// appending, by recording its size) so the last link can still read it.
//
// The first failure, or an interrupt, stops real work: the operations done
// so far are listed, unless they were listed as they happened, and the
// rest of the batch follows as "left undone". Filesystem primitives go
// through an Applier, which retries transient errors.
package executor
