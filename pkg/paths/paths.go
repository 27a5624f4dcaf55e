package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvConfigFile names the configuration file to use
	EnvConfigFile = "MMV_CONFIG"

	// EnvConfigDir overrides the XDG config directory for mmv
	EnvConfigDir = "MMV_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for mmv
	EnvStateDir = "MMV_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

const (
	// AppDirName is the directory name for mmv files under the XDG roots
	AppDirName = "mmv"

	// ConfigFileName is the name of the user configuration file
	ConfigFileName = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "mmv.log"
)

// Paths provides the locations of mmv's own files
type Paths interface {
	ConfigDir() string
	ConfigFile() string
	StateDir() string
	LogFilePath() string
	// Home is what a leading ~/ in a pattern stands for; empty when HOME
	// is unset or the root directory
	Home() string
}

type paths struct {
	configDir  string
	configFile string
	stateDir   string
	home       string
}

// New resolves the paths from the environment
func New() Paths {
	p := &paths{}

	if dir := os.Getenv(EnvConfigDir); dir != "" {
		p.configDir = expandHome(dir)
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	if file := os.Getenv(EnvConfigFile); file != "" {
		p.configFile = expandHome(file)
	} else {
		p.configFile = filepath.Join(p.configDir, ConfigFileName)
	}

	if dir := os.Getenv(EnvStateDir); dir != "" {
		p.stateDir = expandHome(dir)
	} else {
		p.stateDir = filepath.Join(xdg.StateHome, AppDirName)
	}

	if home := os.Getenv(EnvHome); home != "/" {
		p.home = home
	}
	return p
}

func (p *paths) ConfigDir() string   { return p.configDir }
func (p *paths) ConfigFile() string  { return p.configFile }
func (p *paths) StateDir() string    { return p.stateDir }
func (p *paths) LogFilePath() string { return filepath.Join(p.stateDir, LogFileName) }
func (p *paths) Home() string        { return p.home }

// expandHome expands ~ to the user's home directory
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
