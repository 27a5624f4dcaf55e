// Package dircache keeps the snapshot of the directories a run looks at.
//
// Every physical directory, identified by device and inode, is listed once
// and its entries sorted in byte order so that exact and prefix lookups can
// use binary search. Directory spellings are interned as Handles; different
// spellings of one directory share the same Listing. Stat results and
// permission probes are memoized on the entries and listings.
package dircache
