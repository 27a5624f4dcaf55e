// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test wildcard matching, captures and the hidden-entry rule

package glob

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func captures(name string, spans []Span) []string {
	out := make([]string, 0, len(spans))
	for _, sp := range spans {
		out = append(out, name[sp.Start:sp.Start+sp.Len])
	}
	return out
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		match   bool
		want    []string
	}{
		{"star suffix", "*.txt", "a.txt", true, []string{"a"}},
		{"star takes inner dots", "*.txt", "a.b.txt", true, []string{"a.b"}},
		{"star shortest first", "*.*", "a.b.c", true, []string{"a", "b.c"}},
		{"star empty", "*x", "x", true, []string{""}},
		{"lone star", "*", "hello", true, []string{"hello"}},
		{"range", "[a-c]x", "bx", true, []string{"b"}},
		{"negated range", "[^a-c]x", "dx", true, []string{"d"}},
		{"negated range rejects", "[^a-c]x", "bx", false, nil},
		{"range rejects", "[a-c]x", "dx", false, nil},
		{"question mark", "?.c", "a.c", true, []string{"a"}},
		{"question mark needs a char", "?", "", false, nil},
		{"literal mismatch", "*.txt", "a.txt.bak", false, nil},
		{"literal only", "abc", "abc", true, []string{}},
		{"literal only mismatch", "abc", "abd", false, nil},
		{"escaped star", `a\*`, "a*", true, []string{}},
		{"escaped star is literal", `a\*`, "ab", false, nil},
		{"leading hyphen literal", "[-a]", "-", true, []string{"-"}},
		{"trailing hyphen literal", "[a-]", "-", true, []string{"-"}},
		{"hyphen after range literal", "[a-c-]", "-", true, []string{"-"}},
		{"escaped bracket in class", `[\]x]`, "]", true, []string{"]"}},
		{"class needs a char", "a[bc]", "a", false, nil},
		{"stops at slash", "*.c/rest", "x.c", true, []string{"x"}},
		{"bang is literal", "!*", "!a", true, []string{"a"}},
		{"multibyte question mark", "?x", "éx", true, []string{"é"}},
		{"multibyte class", "[é]", "é", true, []string{"é"}},
		{"backtracking", "*a*b", "xaab", true, []string{"x", "a"}},
		{"many wildcards", "?-?-*", "1-2-rest", true, []string{"1", "2", "rest"}},
		{"unterminated class", "[abc", "a", false, nil},
		{"unterminated negated class", "[^", "a", false, nil},
		{"unterminated range", "[a-", "a", false, nil},
		{"unterminated class after star", "*[a", "xa", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans, ok := Match(tt.pattern, tt.input)
			assert.Equal(t, tt.match, ok)
			if tt.match {
				assert.Equal(t, tt.want, captures(tt.input, spans))
			} else {
				assert.Nil(t, spans)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		entry    string
		pattern  string
		matchAll bool
		want     Visibility
	}{
		{"plain name", "a.c", "*.c", false, Candidate},
		{"dot file hidden from star", ".profile", "*", false, Hidden},
		{"dot file with dot pattern", ".profile", ".*", false, Candidate},
		{"dot file with match all", ".profile", "*", true, Candidate},
		{"dot never matches star", ".", "*", true, Hidden},
		{"dot dot never matches star", "..", "*", true, Hidden},
		{"dot spelled out", ".", ".", false, Exact},
		{"dot dot spelled out", "..", "..", false, Exact},
		{"dot dot with wildcard", "..", ".*", true, Hidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.entry, tt.pattern, tt.matchAll))
		})
	}
}
