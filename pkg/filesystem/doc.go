// Package filesystem provides filesystem implementations for mmv.
//
// This package contains implementations of the types.FS interface: the
// OS filesystem, which probes devices, inodes and permissions through
// golang.org/x/sys/unix, and an afero backed filesystem used by tests.
package filesystem
