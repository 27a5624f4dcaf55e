package filesystem

import (
	"hash/fnv"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/arthur-debert/mmv/pkg/types"
	"github.com/spf13/afero"
)

// DefaultAferoUID runs the process and owns the entries of an afero filesystem by default
const DefaultAferoUID = 1000

// aferoFS implements types.FS using afero.
// Afero has no owners, inodes or devices, so they are synthesized. Entries
// belong to uid unless WithOwner says otherwise, inodes are hashes of the
// clean absolute path and devices come from the mount table set with
// WithDevice.
type aferoFS struct {
	fs     afero.Fs
	cwd    string
	uid    int
	mounts map[string]uint64
	owners map[string]int
}

// AferoOption configures an afero filesystem
type AferoOption func(*aferoFS)

// WithCwd sets the directory relative names are resolved against (default "/")
func WithCwd(dir string) AferoOption {
	return func(a *aferoFS) { a.cwd = filepath.Clean(dir) }
}

// WithUID sets the uid that runs the process and owns entries WithOwner left alone
func WithUID(uid int) AferoOption {
	return func(a *aferoFS) { a.uid = uid }
}

// WithDevice places everything under prefix on its own device
func WithDevice(prefix string, dev uint64) AferoOption {
	return func(a *aferoFS) { a.mounts[filepath.Clean(prefix)] = dev }
}

// WithOwner gives the entry at path to uid. The process keeps running as
// the uid set with WithUID.
func WithOwner(path string, uid int) AferoOption {
	return func(a *aferoFS) { a.owners[filepath.Clean(path)] = uid }
}

// NewAferoFS creates a new afero filesystem implementation
func NewAferoFS(fs afero.Fs, opts ...AferoOption) types.FS {
	a := &aferoFS{
		fs:     fs,
		cwd:    "/",
		uid:    DefaultAferoUID,
		mounts: map[string]uint64{},
		owners: map[string]int{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *aferoFS) abs(name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(a.cwd, name)
}

func (a *aferoFS) device(name string) uint64 {
	dev, best := uint64(1), ""
	for prefix, d := range a.mounts {
		if (name == prefix || strings.HasPrefix(name, prefix+"/")) && len(prefix) > len(best) {
			dev, best = d, prefix
		}
	}
	return dev
}

func (a *aferoFS) owner(name string) int {
	if uid, ok := a.owners[name]; ok {
		return uid
	}
	return a.uid
}

func (a *aferoFS) stat(name string) (fs.FileInfo, error) {
	return a.fs.Stat(a.abs(name))
}

func (a *aferoFS) Lstat(name string) (fs.FileInfo, error) {
	if l, ok := a.fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(a.abs(name))
		return info, err
	}
	return a.fs.Stat(a.abs(name))
}

func (a *aferoFS) Identity(name string, follow bool) (types.Identity, error) {
	var info fs.FileInfo
	var err error
	if follow {
		info, err = a.stat(name)
	} else {
		info, err = a.Lstat(name)
	}
	if err != nil {
		return types.Identity{}, err
	}
	path := a.abs(name)
	h := fnv.New64a()
	_, _ = h.Write([]byte(path))
	return types.Identity{
		Dev:   a.device(path),
		Ino:   h.Sum64(),
		Uid:   a.owner(path),
		Mode:  info.Mode(),
		Size:  info.Size(),
		Atime: info.ModTime(),
		Mtime: info.ModTime(),
	}, nil
}

// Access checks the owner permission bits as if the caller owned everything
func (a *aferoFS) Access(name string, mode types.AccessMode) bool {
	info, err := a.stat(name)
	if err != nil {
		return false
	}
	perm := info.Mode().Perm()
	if mode&types.AccessRead != 0 && perm&0400 == 0 {
		return false
	}
	if mode&types.AccessWrite != 0 && perm&0200 == 0 {
		return false
	}
	if mode&types.AccessExec != 0 && perm&0100 == 0 {
		return false
	}
	return true
}

func (a *aferoFS) Getuid() int {
	return a.uid
}

func (a *aferoFS) ReadDir(name string) ([]string, error) {
	f, err := a.fs.Open(a.abs(name))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return f.Readdirnames(-1)
}

func (a *aferoFS) MkdirAll(path string, perm fs.FileMode) error {
	return a.fs.MkdirAll(a.abs(path), perm)
}

func (a *aferoFS) Rename(oldpath, newpath string) error {
	from, to := a.abs(oldpath), a.abs(newpath)
	if a.device(from) != a.device(to) {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}
	return a.fs.Rename(from, to)
}

func (a *aferoFS) Link(oldname, newname string) error {
	return &os.LinkError{Op: "link", Old: oldname, New: newname, Err: syscall.ENOTSUP}
}

func (a *aferoFS) Symlink(oldname, newname string) error {
	if l, ok := a.fs.(afero.Linker); ok {
		return l.SymlinkIfPossible(oldname, a.abs(newname))
	}
	return &os.LinkError{Op: "symlink", Old: oldname, New: newname, Err: syscall.ENOTSUP}
}

func (a *aferoFS) Remove(name string) error {
	return a.fs.Remove(a.abs(name))
}

func (a *aferoFS) Chmod(name string, mode fs.FileMode) error {
	return a.fs.Chmod(a.abs(name), mode)
}

func (a *aferoFS) Chtimes(name string, atime, mtime time.Time) error {
	return a.fs.Chtimes(a.abs(name), atime, mtime)
}

func (a *aferoFS) Open(name string) (types.File, error) {
	f, err := a.fs.Open(a.abs(name))
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (a *aferoFS) OpenFile(name string, flag int, perm fs.FileMode) (types.File, error) {
	f, err := a.fs.OpenFile(a.abs(name), flag, perm)
	if err != nil {
		return nil, err
	}
	return f, nil
}
