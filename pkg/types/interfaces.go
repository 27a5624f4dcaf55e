package types

import (
	"io"
	"io/fs"
	"time"
)

// AccessMode is a permission probe in the access(2) sense
type AccessMode uint32

const (
	AccessExec  AccessMode = 1
	AccessWrite AccessMode = 2
	AccessRead  AccessMode = 4
)

// Identity is what mmv needs to know about a filesystem entry
type Identity struct {
	Dev   uint64
	Ino   uint64
	Uid   int
	Mode  fs.FileMode
	Size  int64
	Atime time.Time
	Mtime time.Time
}

// File is an open file as seen by the executor
type File interface {
	io.Reader
	io.Writer
	io.Closer
	io.Seeker
	Stat() (fs.FileInfo, error)
}

// FS is the filesystem interface required for mmv operations
type FS interface {
	// Inspection
	Lstat(name string) (fs.FileInfo, error)
	Identity(name string, follow bool) (Identity, error)
	Access(name string, mode AccessMode) bool
	Getuid() int

	// ReadDir returns the raw, unsorted entry names of a directory
	ReadDir(name string) ([]string, error)

	// Mutation
	MkdirAll(path string, perm fs.FileMode) error
	Rename(oldpath, newpath string) error
	Link(oldname, newname string) error
	Symlink(oldname, newname string) error
	Remove(name string) error
	Chmod(name string, mode fs.FileMode) error
	Chtimes(name string, atime, mtime time.Time) error

	Open(name string) (File, error)
	OpenFile(name string, flag int, perm fs.FileMode) (File, error)
}

// OpRecord is one line of the operation listing
type OpRecord struct {
	From    string `yaml:"from"`
	To      string `yaml:"to"`
	Aliased bool   `yaml:"aliased,omitempty"`
	Cycle   bool   `yaml:"cycle,omitempty"`
	Deletes bool   `yaml:"deletes,omitempty"`
	Done    bool   `yaml:"done"`
}

// Reporter receives everything mmv tells the user
type Reporter interface {
	// Line reports a pattern or planning message on the main output
	Line(format string, args ...interface{})

	// Warn reports a diagnostic on the error output
	Warn(format string, args ...interface{})

	// Error reports a failed operation on the error output
	Error(format string, args ...interface{})

	// Operation lists one operation, done or planned
	Operation(rec OpRecord)

	// Redirect sends the main output to w from now on
	Redirect(w io.Writer)

	Flush() error
}

// Prompter asks the user questions
type Prompter interface {
	YesNo(prompt string) (bool, error)
	Ask(prompt string) (string, error)
}
