// Package styles holds the lipgloss styles of mmv's report lines.
//
// Styles are declared in the embedded styles.yaml with adaptive colors, so
// they read well on light and dark terminals.
package styles

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Style names used by the reporters
const (
	Source  = "Source"
	Target  = "Target"
	Arrow   = "Arrow"
	Aliased = "Aliased"
	Delete  = "Delete"
	Done    = "Done"
	Warning = "Warning"
	Error   = "Error"
)

// Names lists every style a Registry provides
var Names = []string{Source, Target, Arrow, Aliased, Delete, Done, Warning, Error}

// ColorDef represents an adaptive color definition in YAML
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef represents a style definition in YAML
type StyleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Underline  bool   `yaml:"underline,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
	Background string `yaml:"background,omitempty"`
}

// Config represents the complete styles configuration
type Config struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

// Registry maps style names to lipgloss styles bound to one renderer
type Registry map[string]lipgloss.Style

//go:embed styles.yaml
var embeddedStyles []byte

// Parse decodes a styles configuration
func Parse(data []byte) (Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse styles data: %w", err)
	}
	return config, nil
}

// New builds the embedded styles for r. Every name in Names is present;
// a style missing from the configuration renders unstyled.
func New(r *lipgloss.Renderer) Registry {
	config, err := Parse(embeddedStyles)
	if err != nil {
		config = Config{}
	}
	return Build(r, config)
}

// Build builds the styles of config for r
func Build(r *lipgloss.Renderer, config Config) Registry {
	colors := make(map[string]lipgloss.AdaptiveColor, len(config.Colors))
	for name, def := range config.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	reg := make(Registry, len(Names))
	for _, name := range Names {
		reg[name] = r.NewStyle()
	}
	for name, def := range config.Styles {
		reg[name] = buildStyle(r, def, colors)
	}
	return reg
}

// Render renders s with the named style
func (reg Registry) Render(name, s string) string {
	style, ok := reg[name]
	if !ok {
		return s
	}
	return style.Render(s)
}

func buildStyle(r *lipgloss.Renderer, def StyleDef, colors map[string]lipgloss.AdaptiveColor) lipgloss.Style {
	style := r.NewStyle()

	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if def.Underline {
		style = style.Underline(true)
	}

	if def.Foreground != "" {
		if color, ok := colors[def.Foreground]; ok {
			style = style.Foreground(color)
		}
	}
	if def.Background != "" {
		if color, ok := colors[def.Background]; ok {
			style = style.Background(color)
		}
	}
	return style
}
