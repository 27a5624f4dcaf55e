// pkg/testutil/environment.go
// DEPENDENCIES: afero, filesystem
// PURPOSE: Orchestrate test directory trees for planning and execution tests

package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/arthur-debert/mmv/pkg/filesystem"
	"github.com/arthur-debert/mmv/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// MemoryRoot is the working directory of memory environments
const MemoryRoot = "/work"

// TestEnvironment is a working directory for a batch run
type TestEnvironment struct {
	// Root is the absolute working directory; relative names resolve there
	Root string

	FS   types.FS
	Type EnvType

	// base is the afero view of the tree; an OS base for isolated environments
	base afero.Fs
	t    *testing.T
}

// NewTestEnvironment creates a new test environment.
// Isolated environments change the process working directory for the
// duration of the test, so they cannot run in parallel.
func NewTestEnvironment(t *testing.T, envType EnvType, opts ...filesystem.AferoOption) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType}
	switch envType {
	case EnvMemoryOnly:
		env.Root = MemoryRoot
		env.base = afero.NewMemMapFs()
		require.NoError(t, env.base.MkdirAll(env.Root, 0755))
		opts = append([]filesystem.AferoOption{filesystem.WithCwd(env.Root)}, opts...)
		env.FS = filesystem.NewAferoFS(env.base, opts...)
	case EnvIsolated:
		root, err := filepath.EvalSymlinks(t.TempDir())
		require.NoError(t, err)
		env.Root = root
		env.base = afero.NewBasePathFs(afero.NewOsFs(), root)
		t.Chdir(root)
		env.FS = filesystem.NewOS()
	}
	return env
}

func (env *TestEnvironment) rel(name string) string {
	if env.Type == EnvIsolated {
		return name
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(env.Root, name)
}

// WriteFile creates a file, and its parent directories, relative to Root
func (env *TestEnvironment) WriteFile(name, content string) {
	env.t.Helper()
	p := env.rel(name)
	require.NoError(env.t, env.base.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(env.t, afero.WriteFile(env.base, p, []byte(content), 0644))
}

// Mkdir creates a directory, and its parents, relative to Root
func (env *TestEnvironment) Mkdir(name string) {
	env.t.Helper()
	require.NoError(env.t, env.base.MkdirAll(env.rel(name), 0755))
}

// Chmod changes the permissions of a file relative to Root
func (env *TestEnvironment) Chmod(name string, mode os.FileMode) {
	env.t.Helper()
	require.NoError(env.t, env.base.Chmod(env.rel(name), mode))
}

// ReadFile returns the content of a file relative to Root
func (env *TestEnvironment) ReadFile(name string) string {
	env.t.Helper()
	data, err := afero.ReadFile(env.base, env.rel(name))
	require.NoError(env.t, err)
	return string(data)
}

// Exists reports whether name exists relative to Root
func (env *TestEnvironment) Exists(name string) bool {
	_, err := env.FS.Lstat(name)
	return err == nil
}

// Names lists a directory relative to Root, sorted
func (env *TestEnvironment) Names(dir string) []string {
	env.t.Helper()
	names, err := env.FS.ReadDir(dir)
	require.NoError(env.t, err)
	sort.Strings(names)
	return names
}
