// Package batch runs one mmv batch from pattern pairs to exit status.
//
// A run plans every pair, settles the plan, decides whether to go on when
// some of it cannot be done, asks about deletes and hands the ordered
// chains to the executor. Pattern pairs come from the command line or,
// one pair per line, from standard input (see ReadPatterns).
package batch
