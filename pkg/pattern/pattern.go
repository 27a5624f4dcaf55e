// Package pattern parses mmv's from-patterns and to-templates.
//
// A from-pattern is cut into stages, one per path segment that contains a
// wildcard; the literal directories between stages are walked directly. A
// stage starting with ';' also matches at any depth below its directory.
// The to-template is literal text with back-references to the captures.
package pattern

import (
	"strings"

	"github.com/arthur-debert/mmv/pkg/errors"
	"github.com/arthur-debert/mmv/pkg/glob"
)

const (
	// MaxPathLen bounds patterns, search paths and generated names
	MaxPathLen = 4096

	// MaxNameLen bounds a single generated file name
	MaxNameLen = 255
)

// Stage is one wildcard segment of a from-pattern. Offsets index Pattern.From.
type Stage struct {
	// Start is the first byte of the segment
	Start int

	// End is the '/' closing the segment, or len(From)
	End int

	// FirstWild is the first wildcard other than ';', or End
	FirstWild int

	// Wilds counts the wildcards of the segment, ';' included
	Wilds int

	// AnyLevel is set when the segment starts with ';'
	AnyLevel bool
}

// Pattern is a parsed pair of from-pattern and to-template
type Pattern struct {
	// From is the from-pattern after home expansion
	From     string
	Stages   []Stage
	Wilds    int
	Template *Template
}

// ParseOptions controls how patterns are parsed
type ParseOptions struct {
	// Home replaces a leading "~/"
	Home string

	// NoPathInTarget forbids '/' in the template (rename in place)
	NoPathInTarget bool
}

// Parse parses a from-pattern and its to-template
func Parse(from, to string, opts ParseOptions) (*Pattern, error) {
	if len(from) >= MaxPathLen || len(to) >= MaxPathLen {
		return nil, errors.New(errors.ErrPatternTooLong, "pattern too long")
	}
	expanded, scanFrom, err := expandHome(from, opts.Home)
	if err != nil {
		return nil, err
	}
	p := &Pattern{From: expanded}
	if err := p.parseStages(scanFrom); err != nil {
		return nil, err
	}
	tmpl, err := parseTemplate(to, p.Wilds, opts)
	if err != nil {
		return nil, err
	}
	p.Template = tmpl
	return p, nil
}

// expandHome replaces a leading "~/" with home. It returns the expanded
// string and the offset where wildcard scanning starts.
func expandHome(s, home string) (string, int, error) {
	if !strings.HasPrefix(s, "~/") {
		return s, 0, nil
	}
	if len(home)+len(s) > MaxPathLen {
		return "", 0, errors.New(errors.ErrPatternTooLong, "pattern too long")
	}
	return home + s[1:], len(home) + 1, nil
}

func (p *Pattern) parseStages(start int) error {
	from := p.From
	lastname := start
	inStage := false
	var cur Stage
	haveWild := false

	closeStage := func(end int) {
		if !haveWild {
			cur.FirstWild = end
		}
		cur.End = end
		p.Stages = append(p.Stages, cur)
		inStage = false
	}

	for i := start; i < len(from); i++ {
		c := from[i]
		switch c {
		case '/':
			lastname = i + 1
			if inStage {
				closeStage(i)
			}
		case ';', '*', '?', '[':
			if c == ';' && lastname != i {
				return errors.New(errors.ErrPatternSyntax, "badly placed ;")
			}
			if p.Wilds == glob.MaxWild {
				return errors.New(errors.ErrTooManyWildcards, "too many wildcards")
			}
			p.Wilds++
			if inStage {
				cur.Wilds++
				if !haveWild {
					cur.FirstWild = i
					haveWild = true
				}
			} else {
				cur = Stage{Start: lastname, Wilds: 1, AnyLevel: c == ';'}
				haveWild = c != ';'
				if haveWild {
					cur.FirstWild = i
				}
				inStage = true
			}
			if c != '[' {
				break
			}
			for i++; ; i++ {
				if i == len(from) {
					return errors.New(errors.ErrPatternSyntax, "missing ]")
				}
				if from[i] == ']' {
					break
				}
				switch from[i] {
				case '/':
					return errors.New(errors.ErrPatternSyntax, "'/' can not be part of []")
				case '\\':
					i++
					if i == len(from) {
						return errors.New(errors.ErrPatternSyntax, `trailing \ is superfluous`)
					}
				}
			}
		case '\\':
			i++
			if i == len(from) {
				return errors.New(errors.ErrPatternSyntax, `trailing \ is superfluous`)
			}
		}
	}

	if inStage {
		closeStage(len(from))
	} else {
		p.Stages = append(p.Stages, Stage{
			Start:     lastname,
			End:       len(from),
			FirstWild: len(from),
		})
	}
	return nil
}

// Last reports whether i is the final stage
func (p *Pattern) Last(i int) bool {
	return i+1 == len(p.Stages)
}

// Literal returns the literal prefix a stage starts with, beginning at
// offset at. The prefix stops at the first wildcard or escape.
func (p *Pattern) Literal(stage, at int) string {
	st := p.Stages[stage]
	end := st.FirstWild
	if esc := strings.IndexByte(p.From[at:end], '\\'); esc >= 0 {
		end = at + esc
	}
	return p.From[at:end]
}
