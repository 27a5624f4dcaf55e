// Package glob implements the wildcard language of mmv patterns.
//
// A pattern segment may contain literal characters, '\' escapes, '?' (one
// character), '*' (any run of characters, shortest first) and '[...]'
// classes with '^' negation and 'a-b' ranges. Every wildcard captures the
// text it matched. Matching works on one path segment and stops at '/'.
package glob

import (
	"unicode/utf8"
)

// MaxWild is the largest number of wildcards a pattern may contain
const MaxWild = 20

// Span locates a capture inside the matched name
type Span struct {
	Start int
	Len   int
}

// Match matches pattern against name. The pattern ends at its first
// unescaped '/' or at the end of the string. On success it returns one
// span per wildcard, in pattern order.
func Match(pattern, name string) ([]Span, bool) {
	caps, ok := match(pattern, 0, name, 0, make([]Span, 0, MaxWild))
	if !ok {
		return nil, false
	}
	return caps, true
}

func match(pat string, pi int, s string, si int, caps []Span) ([]Span, bool) {
	for {
		if pi == len(pat) || pat[pi] == '/' {
			return caps, si == len(s)
		}
		switch pat[pi] {
		case '*':
			pi++
			if pi == len(pat) || pat[pi] == '/' {
				return append(caps, Span{si, len(s) - si}), true
			}
			base := len(caps)
			for k := si; ; {
				if out, ok := match(pat, pi, s, k, append(caps[:base], Span{si, k - si})); ok {
					return out, true
				}
				if k == len(s) {
					return caps[:base], false
				}
				_, w := utf8.DecodeRuneInString(s[k:])
				k += w
			}
		case '?':
			if si == len(s) {
				return caps, false
			}
			_, w := utf8.DecodeRuneInString(s[si:])
			caps = append(caps, Span{si, w})
			pi++
			si += w
		case '[':
			if si == len(s) {
				return caps, false
			}
			r, w := utf8.DecodeRuneInString(s[si:])
			in, next := matchClass(pat, pi+1, r)
			if !in {
				return caps, false
			}
			caps = append(caps, Span{si, w})
			pi = next
			si += w
		case '\\':
			pi++
			fallthrough
		default:
			if pi == len(pat) || si == len(s) || pat[pi] != s[si] {
				return caps, false
			}
			pi++
			si++
		}
	}
}

// classChar decodes the character at pi, honouring a '\' escape
func classChar(pat string, pi int) (r rune, next int, escaped bool) {
	if pat[pi] == '\\' && pi+1 < len(pat) {
		r, w := utf8.DecodeRuneInString(pat[pi+1:])
		return r, pi + 1 + w, true
	}
	r, w := utf8.DecodeRuneInString(pat[pi:])
	return r, pi + w, false
}

// matchClass tests r against the class starting right after '['.
// It returns the position following the closing ']'. An unterminated
// class matches nothing.
func matchClass(pat string, pi int, r rune) (bool, int) {
	negate := false
	if pi < len(pat) && pat[pi] == '^' {
		negate = true
		pi++
	}
	matched := false
	var prev rune
	havePrev := false
	for pi < len(pat) && pat[pi] != ']' {
		c, next, escaped := classChar(pat, pi)
		if c == '-' && !escaped && havePrev && next < len(pat) && pat[next] != ']' {
			hi, after, _ := classChar(pat, next)
			if prev <= r && r <= hi {
				matched = true
			}
			havePrev = false
			pi = after
			continue
		}
		if c == r {
			matched = true
		}
		prev, havePrev = c, true
		pi = next
	}
	if pi >= len(pat) {
		return false, len(pat)
	}
	return matched != negate, pi + 1
}

// Visibility is how the hidden-entry rule treats a name
type Visibility int

const (
	// Hidden names are never matched
	Hidden Visibility = iota
	// Exact names ("." and "..") match because the pattern spells them out
	Exact
	// Candidate names go through the matcher
	Candidate
)

// Classify applies the hidden-entry rule. Names starting with a dot only
// match a pattern that starts with a dot, unless matchAll is set; "." and
// ".." only match a pattern that is exactly that name.
func Classify(name, pattern string, matchAll bool) Visibility {
	if name == "" || name[0] != '.' {
		return Candidate
	}
	if name == "." || name == ".." {
		if pattern == name {
			return Exact
		}
		return Hidden
	}
	if !matchAll && (pattern == "" || pattern[0] != '.') {
		return Hidden
	}
	return Candidate
}
