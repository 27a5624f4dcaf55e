package paths_test

import (
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/mmv/pkg/paths"
	"github.com/stretchr/testify/assert"
)

func TestNewFollowsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")
	t.Setenv(paths.EnvConfigDir, "")
	t.Setenv(paths.EnvConfigFile, "")
	t.Setenv(paths.EnvStateDir, "")
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	p := paths.New()

	assert.Equal(t, "/xdg/config/mmv", p.ConfigDir())
	assert.Equal(t, "/xdg/config/mmv/config.toml", p.ConfigFile())
	assert.Equal(t, "/xdg/state/mmv", p.StateDir())
	assert.Equal(t, "/xdg/state/mmv/mmv.log", p.LogFilePath())
}

func TestNewOverrides(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv(paths.EnvConfigDir, "/etc/mmv")
	t.Setenv(paths.EnvConfigFile, "~/mmv.toml")
	t.Setenv(paths.EnvStateDir, "/var/lib/mmv")

	p := paths.New()

	assert.Equal(t, "/etc/mmv", p.ConfigDir())
	assert.Equal(t, filepath.Join("/home/tester", "mmv.toml"), p.ConfigFile())
	assert.Equal(t, "/var/lib/mmv/mmv.log", p.LogFilePath())
}

func TestHome(t *testing.T) {
	tests := []struct {
		name string
		home string
		want string
	}{
		{"set", "/home/tester", "/home/tester"},
		{"root", "/", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", tt.home)
			assert.Equal(t, tt.want, paths.New().Home())
		})
	}
}
