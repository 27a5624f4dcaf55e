// TEST TYPE: Unit Test
// DEPENDENCIES: afero in-memory filesystem
// PURPOSE: Test directory resolution, sharing and lazy stat flags

package dircache

import (
	"os"
	"testing"

	"github.com/arthur-debert/mmv/pkg/errors"
	"github.com/arthur-debert/mmv/pkg/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, opts ...filesystem.AferoOption) (*Cache, afero.Fs) {
	t.Helper()
	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll("/work/sub", 0755))
	require.NoError(t, afero.WriteFile(mem, "/work/a.txt", []byte("a"), 0644))
	require.NoError(t, afero.WriteFile(mem, "/work/b.txt", []byte("b"), 0644))
	require.NoError(t, afero.WriteFile(mem, "/work/sub/c.txt", []byte("c"), 0644))
	opts = append([]filesystem.AferoOption{filesystem.WithCwd("/work")}, opts...)
	return New(filesystem.NewAferoFS(mem, opts...)), mem
}

func TestResolveCurrentDirectory(t *testing.T) {
	c, _ := newTestCache(t)

	h, err := c.Resolve("", Source, false)
	require.NoError(t, err)
	require.NotNil(t, h.Listing)
	assert.Equal(t, "", h.Name)

	var names []string
	for i := 0; i < h.Listing.Len(); i++ {
		names = append(names, h.Listing.At(i).Name)
	}
	assert.Equal(t, []string{".", "..", "a.txt", "b.txt", "sub"}, names)
}

func TestResolveSharesListingAcrossSpellings(t *testing.T) {
	c, _ := newTestCache(t)

	h1, err := c.Resolve("sub/", Source, false)
	require.NoError(t, err)
	h2, err := c.Resolve("./sub/", Target, false)
	require.NoError(t, err)
	h3, err := c.Resolve("/work/sub/", Source, false)
	require.NoError(t, err)

	assert.NotSame(t, h1, h2)
	assert.NotSame(t, h1, h3)
	assert.Same(t, h1.Listing, h2.Listing)
	assert.Same(t, h1.Listing, h3.Listing)

	again, err := c.Resolve("sub/", Target, false)
	require.NoError(t, err)
	assert.Same(t, h1, again)
}

func TestResolveErrors(t *testing.T) {
	c, mem := newTestCache(t)
	require.NoError(t, mem.MkdirAll("/work/locked", 0755))
	require.NoError(t, mem.Chmod("/work/locked", 0300))

	tests := []struct {
		name string
		dir  string
		code errors.ErrorCode
	}{
		{"missing directory", "missing/", errors.ErrDirNotFound},
		{"regular file", "a.txt/", errors.ErrDirNotFound},
		{"unreadable directory", "locked/", errors.ErrDirNoRead},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := c.Resolve(tt.dir, Source, false)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code))
			assert.Nil(t, h.Listing)
			assert.Equal(t, tt.code, h.Err)

			// the failure is remembered
			_, err = c.Resolve(tt.dir, Target, false)
			assert.True(t, errors.IsErrorCode(err, tt.code))
		})
	}
}

func TestResolvePendingDirectory(t *testing.T) {
	c, mem := newTestCache(t, filesystem.WithDevice("/work", 7))

	h, err := c.Resolve("new/deep/", Target, false)
	require.Error(t, err)
	assert.Nil(t, h.Listing)

	h, err = c.Resolve("new/deep/", Target, true)
	require.NoError(t, err)
	require.NotNil(t, h.Listing)
	assert.True(t, h.Listing.Pending)
	assert.Equal(t, 0, h.Listing.Len())
	assert.Equal(t, uint64(7), h.Listing.Dev)
	assert.True(t, c.Writable(h))

	other, err := c.Resolve("./new/deep/", Target, true)
	require.NoError(t, err)
	assert.Same(t, h.Listing, other.Listing)

	_, err = c.Resolve("new/deep/", Source, false)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDirNotFound))
	again, err := c.Resolve("new/deep/", Target, true)
	require.NoError(t, err)
	assert.Same(t, h.Listing, again.Listing)

	exists, err := afero.DirExists(mem, "/work/new")
	require.NoError(t, err)
	assert.False(t, exists, "resolving must not create anything")
}

func TestStatFlags(t *testing.T) {
	c, _ := newTestCache(t)
	h, err := c.Resolve("", Source, false)
	require.NoError(t, err)

	file := h.Listing.Search("a.txt")
	require.NotNil(t, file)
	require.NoError(t, c.Stat("a.txt", file))
	assert.False(t, file.Has(LinkErr))
	assert.True(t, file.Has(StatTaken))
	assert.False(t, file.Has(IsDir))
	assert.Equal(t, "-rw-r--r--", file.Mode.String())

	dir := h.Listing.Search("sub")
	require.NotNil(t, dir)
	require.NoError(t, c.Stat("sub", dir))
	assert.True(t, dir.Has(IsDir))
}

func TestStickyDirectory(t *testing.T) {
	tests := []struct {
		name     string
		opts     []filesystem.AferoOption
		noDelete []string
	}{
		{
			name: "other owners",
			opts: []filesystem.AferoOption{
				filesystem.WithOwner("/work/sub", 0),
				filesystem.WithOwner("/work/sub/c.txt", 2000),
			},
			noDelete: []string{"c.txt"},
		},
		{
			name: "own entries",
			opts: []filesystem.AferoOption{filesystem.WithOwner("/work/sub", 0)},
		},
		{
			name: "own directory",
			opts: []filesystem.AferoOption{filesystem.WithOwner("/work/sub/c.txt", 2000)},
		},
		{
			name: "root",
			opts: []filesystem.AferoOption{
				filesystem.WithUID(0),
				filesystem.WithOwner("/work/sub", 3000),
				filesystem.WithOwner("/work/sub/c.txt", 2000),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, mem := newTestCache(t, tt.opts...)
			require.NoError(t, afero.WriteFile(mem, "/work/sub/d.txt", []byte("d"), 0644))
			require.NoError(t, mem.Chmod("/work/sub", 0777|os.ModeSticky))

			h, err := c.Resolve("sub/", Target, false)
			require.NoError(t, err)
			var noDelete []string
			for _, name := range []string{"c.txt", "d.txt"} {
				e := h.Listing.Search(name)
				require.NotNil(t, e)
				require.NoError(t, c.Stat("sub/"+name, e))
				if e.Has(NoDelete) {
					noDelete = append(noDelete, name)
				}
			}
			assert.Equal(t, tt.noDelete, noDelete)
		})
	}
}

func TestStatOfVanishedEntryIsFatal(t *testing.T) {
	c, mem := newTestCache(t)
	h, err := c.Resolve("", Source, false)
	require.NoError(t, err)
	require.NoError(t, mem.Remove("/work/b.txt"))

	err = c.Stat("b.txt", h.Listing.Search("b.txt"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInconsistent))
}

func TestWritable(t *testing.T) {
	t.Run("read-only directory", func(t *testing.T) {
		c, mem := newTestCache(t)
		require.NoError(t, mem.Chmod("/work/sub", 0555))
		h, err := c.Resolve("sub/", Source, false)
		require.NoError(t, err)
		assert.False(t, c.Writable(h))

		// memoized on the listing
		require.NoError(t, mem.Chmod("/work/sub", 0755))
		assert.False(t, c.Writable(h))
	})

	t.Run("root may write anywhere", func(t *testing.T) {
		c, mem := newTestCache(t, filesystem.WithUID(0))
		require.NoError(t, mem.Chmod("/work/sub", 0555))
		h, err := c.Resolve("sub/", Source, false)
		require.NoError(t, err)
		assert.True(t, c.Writable(h))
	})

	t.Run("entry write permission", func(t *testing.T) {
		c, mem := newTestCache(t)
		require.NoError(t, mem.Chmod("/work/a.txt", 0444))
		h, err := c.Resolve("", Source, false)
		require.NoError(t, err)
		assert.False(t, c.EntryWritable("", h.Listing.Search("a.txt")))
		assert.True(t, c.EntryWritable("", h.Listing.Search("b.txt")))
	})
}
