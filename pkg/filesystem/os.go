package filesystem

import (
	"io/fs"
	"os"
	"time"

	"github.com/arthur-debert/mmv/pkg/types"
	"golang.org/x/sys/unix"
)

// osFS implements types.FS using the OS filesystem
type osFS struct{}

// NewOS creates a new OS filesystem implementation
func NewOS() types.FS {
	return &osFS{}
}

func (o *osFS) Lstat(name string) (fs.FileInfo, error) {
	return os.Lstat(name)
}

func (o *osFS) Identity(name string, follow bool) (types.Identity, error) {
	var st unix.Stat_t
	var err error
	if follow {
		err = unix.Stat(name, &st)
	} else {
		err = unix.Lstat(name, &st)
	}
	if err != nil {
		op := "lstat"
		if follow {
			op = "stat"
		}
		return types.Identity{}, &fs.PathError{Op: op, Path: name, Err: err}
	}
	atime, mtime := statTimes(&st)
	return types.Identity{
		Dev:   uint64(st.Dev),
		Ino:   uint64(st.Ino),
		Uid:   int(st.Uid),
		Mode:  fileMode(uint32(st.Mode)),
		Size:  st.Size,
		Atime: atime,
		Mtime: mtime,
	}, nil
}

func (o *osFS) Access(name string, mode types.AccessMode) bool {
	return unix.Access(name, uint32(mode)) == nil
}

func (o *osFS) Getuid() int {
	return os.Getuid()
}

func (o *osFS) ReadDir(name string) ([]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return f.Readdirnames(-1)
}

func (o *osFS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (o *osFS) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

func (o *osFS) Link(oldname, newname string) error {
	return os.Link(oldname, newname)
}

func (o *osFS) Symlink(oldname, newname string) error {
	return os.Symlink(oldname, newname)
}

func (o *osFS) Remove(name string) error {
	return os.Remove(name)
}

func (o *osFS) Chmod(name string, mode fs.FileMode) error {
	return os.Chmod(name, mode)
}

func (o *osFS) Chtimes(name string, atime, mtime time.Time) error {
	return os.Chtimes(name, atime, mtime)
}

func (o *osFS) Open(name string) (types.File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (o *osFS) OpenFile(name string, flag int, perm fs.FileMode) (types.File, error) {
	f, err := os.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// fileMode converts raw st_mode bits into an fs.FileMode
func fileMode(m uint32) fs.FileMode {
	mode := fs.FileMode(m & 0777)
	switch m & unix.S_IFMT {
	case unix.S_IFDIR:
		mode |= fs.ModeDir
	case unix.S_IFLNK:
		mode |= fs.ModeSymlink
	case unix.S_IFIFO:
		mode |= fs.ModeNamedPipe
	case unix.S_IFSOCK:
		mode |= fs.ModeSocket
	case unix.S_IFCHR:
		mode |= fs.ModeDevice | fs.ModeCharDevice
	case unix.S_IFBLK:
		mode |= fs.ModeDevice
	}
	if m&unix.S_ISUID != 0 {
		mode |= fs.ModeSetuid
	}
	if m&unix.S_ISGID != 0 {
		mode |= fs.ModeSetgid
	}
	if m&unix.S_ISVTX != 0 {
		mode |= fs.ModeSticky
	}
	return mode
}
