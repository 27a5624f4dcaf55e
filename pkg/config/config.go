package config

import (
	"time"

	"github.com/arthur-debert/mmv/pkg/types"
)

// Config is the effective configuration of a run
type Config struct {
	Mode     string `koanf:"mode" validate:"omitempty,oneof=move copydel rename copy overwrite append zappend hardlink symlink"`
	Delete   string `koanf:"delete" validate:"required,oneof=ask force protect"`
	Bad      string `koanf:"bad" validate:"required,oneof=ask skip abort"`
	Hidden   bool   `koanf:"hidden"`
	MakeDirs bool   `koanf:"makedirs"`
	Verbose  bool   `koanf:"verbose"`
	Output   string `koanf:"output" validate:"required,oneof=text yaml"`
	Color    string `koanf:"color" validate:"required,oneof=auto always never"`

	Match   MatchConfig   `koanf:"match"`
	Execute ExecuteConfig `koanf:"execute"`
}

// MatchConfig tunes pattern matching
type MatchConfig struct {
	// Exclude lists gitignore style globs skipped by any-level walks
	Exclude []string `koanf:"exclude" validate:"dive,required"`
}

// ExecuteConfig tunes how operations are performed
type ExecuteConfig struct {
	Retries    int           `koanf:"retries" validate:"gte=0,lte=10"`
	RetryDelay time.Duration `koanf:"retry_delay" validate:"gte=0"`
	TempPrefix string        `koanf:"temp_prefix" validate:"required,excludes=/"`
}

// Options turns the configuration into batch options. Settings that only
// exist on the command line (dry run) and the home directory are left to
// the caller.
func (c *Config) Options() types.Options {
	opts := types.DefaultOptions()
	if c.Mode != "" {
		opts.Mode = types.Mode(c.Mode)
	}
	opts.Delete = types.DeleteStyle(c.Delete)
	opts.Bad = types.BadStyle(c.Bad)
	opts.Hidden = c.Hidden
	opts.MakeDirs = c.MakeDirs
	opts.Verbose = c.Verbose
	opts.Exclude = append([]string(nil), c.Match.Exclude...)
	opts.Retries = c.Execute.Retries
	opts.RetryDelay = c.Execute.RetryDelay
	opts.TempPrefix = c.Execute.TempPrefix
	return opts
}
