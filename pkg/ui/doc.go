// Package ui implements mmv's conversation with the user: the reporters
// that print pattern problems, operation listings and diagnostics, and the
// console prompter that reads yes/no answers from the terminal.
//
// Report lines keep the classic mmv shapes so that a dry-run listing can
// be fed back to mmv on standard input:
//
//	a.c -> b.c
//	b.c => a.c (*)
//	a.c -> c.c : done
//
// An '=' marks a source renamed away first to break a cycle, a '^' the
// operation closing the cycle, and "(*)" an operation replacing an
// existing target.
package ui
