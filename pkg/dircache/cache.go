package dircache

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/mmv/pkg/errors"
	"github.com/arthur-debert/mmv/pkg/logging"
	"github.com/arthur-debert/mmv/pkg/types"
	"github.com/rs/zerolog"
)

// Side tells which lookup slot a resolution uses
type Side int

const (
	Source Side = iota
	Target
)

// Handle is a directory as spelled in a pattern.
// Name is empty for the current directory and otherwise ends in "/".
type Handle struct {
	Name    string
	Listing *Listing

	// Err is ErrDirNotFound or ErrDirNoRead when the directory cannot be used
	Err errors.ErrorCode
}

func (h *Handle) err() error {
	if h.Err == errors.ErrDirNoRead {
		return errors.Newf(errors.ErrDirNoRead, "directory %s does not allow reads/searches", h.Name)
	}
	return errors.Newf(errors.ErrDirNotFound, "directory %s does not exist", h.Name)
}

type devIno struct {
	dev uint64
	ino uint64
}

// Cache scans every physical directory at most once per run and hands out
// one Handle per spelling of a directory path.
type Cache struct {
	fs      types.FS
	uid     int
	handles map[string]*Handle
	last    [2]*Handle
	dirs    map[devIno]*Listing
	pending map[string]*Listing
	nextID  int
	logger  zerolog.Logger
}

// New creates an empty cache reading through fsys
func New(fsys types.FS) *Cache {
	return &Cache{
		fs:      fsys,
		uid:     fsys.Getuid(),
		handles: make(map[string]*Handle),
		dirs:    make(map[devIno]*Listing),
		pending: make(map[string]*Listing),
		logger:  logging.GetLogger("dircache"),
	}
}

// DirPath turns a handle spelling into something the filesystem accepts
func DirPath(name string) string {
	switch {
	case name == "":
		return "."
	case name == "/":
		return "/"
	default:
		return name[:len(name)-1]
	}
}

func (c *Cache) lookup(name string, side Side) (*Handle, bool) {
	if h := c.last[side]; h != nil && h.Name == name {
		return h, true
	}
	h, ok := c.handles[name]
	if !ok {
		h = &Handle{Name: name}
		c.handles[name] = h
	}
	c.last[side] = h
	return h, ok
}

// Resolve returns the handle for a directory spelling. When the directory
// does not exist and allowCreate is set, the handle is bound to an empty
// pending listing instead. Pending listings are never sources: they do not
// exist yet. Failing to scan a directory that stat reported readable means
// the filesystem changed under us and yields ErrInconsistent.
func (c *Cache) Resolve(name string, side Side, allowCreate bool) (*Handle, error) {
	h, found := c.lookup(name, side)
	if found {
		if h.Listing != nil {
			if h.Listing.Pending && side == Source {
				return h, errors.Newf(errors.ErrDirNotFound, "directory %s does not exist", h.Name)
			}
			return h, nil
		}
		if !allowCreate || h.Err != errors.ErrDirNotFound {
			return h, h.err()
		}
	}

	path := DirPath(name)
	id, err := c.fs.Identity(path, true)
	switch {
	case err != nil || !id.Mode.IsDir():
		if allowCreate && err != nil && stderrors.Is(err, fs.ErrNotExist) {
			h.Err = ""
			h.Listing = c.pendingListing(path)
			return h, nil
		}
		h.Err = errors.ErrDirNotFound
	case !c.fs.Access(path, types.AccessRead|types.AccessExec):
		h.Err = errors.ErrDirNoRead
	default:
		key := devIno{id.Dev, id.Ino}
		l, ok := c.dirs[key]
		if !ok {
			var sticky Flag
			if id.Mode&fs.ModeSticky != 0 && c.uid != 0 && c.uid != id.Uid {
				sticky = InSticky
			}
			l, err = c.scan(path, sticky)
			if err != nil {
				return h, err
			}
			l.Dev, l.Ino = id.Dev, id.Ino
			c.dirs[key] = l
		}
		h.Err = ""
		h.Listing = l
		return h, nil
	}
	return h, h.err()
}

func (c *Cache) scan(path string, flags Flag) (*Listing, error) {
	names, err := c.fs.ReadDir(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInconsistent, "Strange, can't scan %s.", path)
	}
	names = append(names, ".", "..")
	c.nextID++
	l := newListing(c.nextID, names, flags)
	c.logger.Debug().Str("dir", path).Int("entries", l.Len()).Msg("scanned directory")
	return l, nil
}

func (c *Cache) pendingListing(path string) *Listing {
	key := filepath.Clean(path)
	if l, ok := c.pending[key]; ok {
		return l
	}
	c.nextID++
	l := &Listing{ID: c.nextID, Path: key, Pending: true, knowWrite: true, canWrite: true}
	for dir := filepath.Dir(key); ; dir = filepath.Dir(dir) {
		if id, err := c.fs.Identity(dir, true); err == nil {
			l.Dev = id.Dev
			break
		}
		if dir == filepath.Dir(dir) {
			break
		}
	}
	c.pending[key] = l
	c.logger.Debug().Str("dir", key).Msg("directory will be created")
	return l
}

// Stat fills in the stat flags of e, found at full, once. A symbolic
// link pointing nowhere gets LinkErr.
func (c *Cache) Stat(full string, e *Entry) error {
	if e.Has(StatTaken) {
		return nil
	}
	e.Flags |= StatTaken
	id, err := c.fs.Identity(full, false)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInconsistent, "Strange, couldn't lstat %s.", full)
	}
	if e.Has(InSticky) && id.Uid != c.uid && c.uid != 0 {
		e.Flags |= NoDelete
	}
	if id.Mode&fs.ModeSymlink != 0 {
		e.Flags |= IsLink
		target, err := c.fs.Identity(full, true)
		if err != nil {
			e.Flags |= LinkErr
			return nil
		}
		id = target
	}
	if id.Mode.IsDir() {
		e.Flags |= IsDir
	}
	e.Mode = id.Mode
	return nil
}

// Writable reports whether entries may be created and removed in h
func (c *Cache) Writable(h *Handle) bool {
	if c.uid == 0 {
		return true
	}
	l := h.Listing
	if !l.knowWrite {
		l.knowWrite = true
		l.canWrite = c.fs.Access(DirPath(h.Name), types.AccessWrite)
	}
	return l.canWrite
}

// EntryWritable reports whether the entry e of directory dir may be written
func (c *Cache) EntryWritable(dir string, e *Entry) bool {
	if !e.Has(KnowWrite) {
		e.Flags |= KnowWrite
		if c.fs.Access(dir+e.Name, types.AccessWrite) {
			e.Flags |= CanWrite
		}
	}
	return e.Has(CanWrite)
}
