package config

import (
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type fileConfig struct {
	Mode     string      `toml:"mode"`
	Delete   string      `toml:"delete"`
	Bad      string      `toml:"bad"`
	Hidden   bool        `toml:"hidden"`
	MakeDirs bool        `toml:"makedirs"`
	Verbose  bool        `toml:"verbose"`
	Output   string      `toml:"output"`
	Color    string      `toml:"color"`
	Match    MatchConfig `toml:"match"`
	Execute  fileExecute `toml:"execute"`
}

type fileExecute struct {
	Retries    int    `toml:"retries"`
	RetryDelay string `toml:"retry_delay"`
	TempPrefix string `toml:"temp_prefix"`
}

// TOML renders the configuration in the format of the config file
func (c *Config) TOML() ([]byte, error) {
	f := fileConfig{
		Mode:     c.Mode,
		Delete:   c.Delete,
		Bad:      c.Bad,
		Hidden:   c.Hidden,
		MakeDirs: c.MakeDirs,
		Verbose:  c.Verbose,
		Output:   c.Output,
		Color:    c.Color,
		Match:    MatchConfig{Exclude: c.Match.Exclude},
		Execute: fileExecute{
			Retries:    c.Execute.Retries,
			RetryDelay: c.Execute.RetryDelay.String(),
			TempPrefix: c.Execute.TempPrefix,
		},
	}
	if f.Match.Exclude == nil {
		f.Match.Exclude = []string{}
	}
	return toml.Marshal(f)
}

// Template returns the defaults file with every setting commented out,
// ready to be saved as a user config file
func Template() string {
	return commentOutConfigValues(DefaultsContent())
}

// commentOutConfigValues comments out every line holding a value, keeping
// comments, blank lines and section headers
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "", strings.HasPrefix(trimmed, "#"):
			result = append(result, line)
		case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
			result = append(result, line)
		default:
			result = append(result, "# "+line)
		}
	}
	return strings.Join(result, "\n")
}
