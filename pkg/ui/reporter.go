package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/arthur-debert/mmv/pkg/types"
	"github.com/arthur-debert/mmv/pkg/ui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// TextReporter prints mmv's report lines. Pattern problems and operation
// listings go to the main output, diagnostics to the error output.
type TextReporter struct {
	mu     sync.Mutex
	out    io.Writer
	errw   io.Writer
	color  bool
	styles styles.Registry
	err    error
}

// NewTextReporter creates a reporter writing to out and errw. With color
// set, lines are styled for a terminal.
func NewTextReporter(out, errw io.Writer, color bool) *TextReporter {
	r := lipgloss.NewRenderer(out)
	if color {
		if r.ColorProfile() == termenv.Ascii {
			r.SetColorProfile(termenv.ANSI256)
		}
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return &TextReporter{
		out:    out,
		errw:   errw,
		color:  color,
		styles: styles.New(r),
	}
}

func (r *TextReporter) Line(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.write(r.out, fmt.Sprintf(format, args...))
}

func (r *TextReporter) Warn(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.write(r.errw, r.render(styles.Warning, fmt.Sprintf(format, args...)))
}

func (r *TextReporter) Error(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.write(r.errw, r.render(styles.Error, fmt.Sprintf(format, args...)))
}

func (r *TextReporter) Operation(rec types.OpRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b strings.Builder
	b.WriteString(r.render(styles.Source, rec.From))
	b.WriteByte(' ')
	b.WriteString(r.marker(rec))
	b.WriteByte(' ')
	b.WriteString(r.render(styles.Target, rec.To))
	if rec.Deletes {
		b.WriteString(" " + r.render(styles.Delete, "(*)"))
	}
	if rec.Done {
		b.WriteString(r.render(styles.Done, " : done"))
	}
	r.write(r.out, b.String())
}

// Redirect sends the main output to w, unstyled
func (r *TextReporter) Redirect(w io.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out = w
	r.color = false
}

// Flush returns the first write error seen, if any
func (r *TextReporter) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.err
	r.err = nil
	return err
}

// FormatOperation renders rec the way the text reporter lists it, unstyled
func FormatOperation(rec types.OpRecord) string {
	s := rec.From + " " + Marker(rec) + " " + rec.To
	if rec.Deletes {
		s += " (*)"
	}
	if rec.Done {
		s += " : done"
	}
	return s
}

// Marker returns the two character arrow of rec: '=' for an aliased
// source, '^' for the operation closing a cycle
func Marker(rec types.OpRecord) string {
	m := []byte("->")
	if rec.Aliased {
		m[0] = '='
	}
	if rec.Cycle {
		m[1] = '^'
	}
	return string(m)
}

func (r *TextReporter) marker(rec types.OpRecord) string {
	m := Marker(rec)
	if rec.Aliased || rec.Cycle {
		return r.render(styles.Aliased, m)
	}
	return r.render(styles.Arrow, m)
}

func (r *TextReporter) render(style, s string) string {
	if !r.color {
		return s
	}
	return r.styles.Render(style, s)
}

func (r *TextReporter) write(w io.Writer, line string) {
	if _, err := fmt.Fprintln(w, line); err != nil && r.err == nil {
		r.err = err
	}
}
