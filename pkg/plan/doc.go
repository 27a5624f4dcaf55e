// Package plan turns pattern pairs into an ordered, validated set of
// operations.
//
// Matching walks the directory cache stage by stage and validates every
// match on the spot. The passes that follow work on the whole batch:
//
//   - CheckCollisions drops operations sharing a target
//   - FindOrder chains operations whose target is another one's source,
//     and marks cycles
//   - NoChains rejects chains where they cannot be honored (copies, links)
//   - ScanDeletes gives up operations whose existing target may not be
//     replaced, either by rule (BadDelete) or by asking (AskDelete)
//
// Operations live in an arena owned by the Context and refer to each other
// by index. Only chain roots are on the live list; the rest of a chain
// hangs off its root.
package plan
