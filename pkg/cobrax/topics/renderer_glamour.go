package topics

import (
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// Standard glamour styles
const (
	styleDark  = "dark"
	styleLight = "light"
	styleNoTTY = "notty"
)

// GlamourRenderer renders markdown topics with glamour. Other formats are
// shown unchanged.
type GlamourRenderer struct {
	// Color is asked at render time whether styles may use colors. The
	// help command runs after flags are parsed, so the answer can follow
	// them. nil means never.
	Color func() bool

	// Width wraps lines; 0 keeps glamour's default
	Width int
}

func NewGlamourRenderer(color func() bool) *GlamourRenderer {
	return &GlamourRenderer{Color: color}
}

func (r *GlamourRenderer) Render(content, ext string) string {
	if ext != ".md" {
		return content
	}

	options := []glamour.TermRendererOption{glamour.WithStandardStyle(r.style())}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}
	tr, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	out, err := tr.Render(content)
	if err != nil {
		return content
	}
	return out
}

func (r *GlamourRenderer) style() string {
	if r.Color == nil || !r.Color() {
		return styleNoTTY
	}
	if termenv.HasDarkBackground() {
		return styleDark
	}
	return styleLight
}
