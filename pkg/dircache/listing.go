package dircache

import (
	"io/fs"
	"sort"
	"strings"
)

// Flag holds the lazily computed facts about an entry
type Flag uint16

const (
	StatTaken Flag = 1 << iota
	LinkErr
	InSticky
	NoDelete
	KnowWrite
	CanWrite
	IsDir
	IsLink
)

// Rejected is stored in Entry.Op once a match on the entry was turned down.
// Such an entry can no longer be the source of an operation.
const Rejected = -1

// Entry is one name in a directory listing
type Entry struct {
	Name  string
	Mode  fs.FileMode
	Flags Flag

	// Op is the operation consuming this entry as a source, 0 when unclaimed
	Op int
}

// Has reports whether all bits of f are set
func (e *Entry) Has(f Flag) bool {
	return e.Flags&f == f
}

// Claimed reports whether the entry was already matched, successfully or not
func (e *Entry) Claimed() bool {
	return e.Op != 0
}

// Listing is the sorted content of one physical directory, or the empty
// placeholder for a directory that will be created.
type Listing struct {
	ID  int
	Dev uint64
	Ino uint64

	// Path is the clean path of a pending directory
	Path    string
	Pending bool

	entries   []*Entry
	knowWrite bool
	canWrite  bool
}

func newListing(id int, names []string, flags Flag) *Listing {
	l := &Listing{ID: id, entries: make([]*Entry, 0, len(names))}
	for _, name := range names {
		l.entries = append(l.entries, &Entry{Name: name, Flags: flags})
	}
	sort.Slice(l.entries, func(i, j int) bool {
		return l.entries[i].Name < l.entries[j].Name
	})
	return l
}

// Len returns the number of entries
func (l *Listing) Len() int {
	return len(l.entries)
}

// At returns the i-th entry in byte order
func (l *Listing) At(i int) *Entry {
	return l.entries[i]
}

// Search returns the entry called name, or nil
func (l *Listing) Search(name string) *Entry {
	i := sort.Search(len(l.entries), func(i int) bool {
		return l.entries[i].Name >= name
	})
	if i < len(l.entries) && l.entries[i].Name == name {
		return l.entries[i]
	}
	return nil
}

// First returns the index of the first entry starting with prefix, or Len()
// when there is none. An empty prefix selects the first entry.
func (l *Listing) First(prefix string) int {
	if prefix == "" || len(l.entries) == 0 {
		return 0
	}
	i := sort.Search(len(l.entries), func(i int) bool {
		return l.entries[i].Name >= prefix
	})
	if i < len(l.entries) && strings.HasPrefix(l.entries[i].Name, prefix) {
		return i
	}
	return len(l.entries)
}
