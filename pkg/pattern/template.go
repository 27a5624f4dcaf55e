package pattern

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/arthur-debert/mmv/pkg/errors"
)

// Markers substituted into names that cannot be generated
const (
	TooLong = "(too long)"
	Empty   = "(empty)"
)

// Case is the case conversion applied to a back-reference
type Case int

const (
	Stay Case = iota
	Lower
	Upper
	Capitalize
)

type token struct {
	// literal text, already unescaped; used when capture < 0
	text string
	// offset of the token in the template, for the leading slash rule
	pos     int
	capture int
	conv    Case
}

// Template is a parsed to-template
type Template struct {
	Source string
	tokens []token
}

func parseTemplate(to string, wilds int, opts ParseOptions) (*Template, error) {
	expanded, start, err := expandHome(to, opts.Home)
	if err != nil {
		return nil, err
	}
	t := &Template{Source: expanded}
	var lit strings.Builder
	litPos := 0
	flush := func() {
		if lit.Len() > 0 {
			t.tokens = append(t.tokens, token{text: lit.String(), pos: litPos, capture: -1})
			lit.Reset()
		}
	}
	lit.WriteString(expanded[:start])

	for i := start; i < len(expanded); i++ {
		at := i
		c := expanded[i]
		switch c {
		case '/':
			if opts.NoPathInTarget {
				return nil, errors.New(errors.ErrPatternSyntax, "no path allowed in target under -r")
			}
		case '#':
			flush()
			conv := Stay
			i++
			if i < len(expanded) {
				switch expanded[i] {
				case 'l':
					conv = Lower
					i++
				case 'u':
					conv = Upper
					i++
				case 'c':
					conv = Capitalize
					i++
				}
			}
			if i == len(expanded) || !isDigit(expanded[i]) {
				if i == len(expanded) {
					return nil, errors.New(errors.ErrPatternSyntax, "expected digit after #")
				}
				return nil, errors.Newf(errors.ErrPatternSyntax, "expected digit (not '%c') after #", expanded[i])
			}
			n := 0
			for ; i < len(expanded) && isDigit(expanded[i]); i++ {
				if n <= MaxPathLen {
					n = n*10 + int(expanded[i]-'0')
				}
			}
			i--
			if n < 1 || n > wilds {
				return nil, errors.Newf(errors.ErrBadBackref, "wildcard #%d does not exist", n)
			}
			t.tokens = append(t.tokens, token{pos: at, capture: n - 1, conv: conv})
			continue
		case '\\':
			i++
			if i == len(expanded) {
				return nil, errors.New(errors.ErrPatternSyntax, `trailing \ is superfluous`)
			}
			c = expanded[i]
		}
		if lit.Len() == 0 {
			litPos = at
		}
		lit.WriteByte(c)
	}
	flush()
	return t, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Instantiate builds a new name from the captures. It returns false, with
// a marker in the returned string, when the result has an empty path
// segment, is empty or is too long.
func (t *Template) Instantiate(caps []string) (string, bool) {
	var out strings.Builder
	ok := true
	for _, tok := range t.tokens {
		if tok.capture >= 0 {
			text := convert(caps[tok.capture], tok.conv)
			if out.Len()+len(text) >= MaxPathLen {
				return TooLong, false
			}
			out.WriteString(text)
			continue
		}
		for j := 0; j < len(tok.text); j++ {
			c := tok.text[j]
			if out.Len() >= MaxPathLen {
				return TooLong, false
			}
			if c == '/' && t.emptySegment(out.String(), tok, j) {
				ok = false
				if out.Len()+len(Empty) >= MaxPathLen {
					return TooLong, false
				}
				out.WriteString(Empty)
			}
			out.WriteByte(c)
		}
	}
	if out.Len() == 0 {
		return Empty, false
	}
	return out.String(), ok
}

// emptySegment reports whether writing a literal '/' after out would leave
// an empty path segment that the template did not spell out itself.
func (t *Template) emptySegment(out string, tok token, j int) bool {
	if out == "" {
		return tok.pos != 0 || j != 0
	}
	return j == 0 && out[len(out)-1] == '/'
}

func convert(s string, conv Case) string {
	switch conv {
	case Lower:
		return strings.ToLower(s)
	case Upper:
		return strings.ToUpper(s)
	case Capitalize:
		r, w := utf8.DecodeRuneInString(s)
		if w == 0 {
			return s
		}
		return string(unicode.ToUpper(r)) + strings.ToLower(s[w:])
	default:
		return s
	}
}
