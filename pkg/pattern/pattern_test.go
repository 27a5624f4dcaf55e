// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test from-pattern staging, template parsing and instantiation

package pattern

import (
	"strings"
	"testing"

	"github.com/arthur-debert/mmv/pkg/errors"
	"github.com/arthur-debert/mmv/pkg/glob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stageTexts(p *Pattern) []string {
	var out []string
	for _, st := range p.Stages {
		out = append(out, p.From[st.Start:st.End])
	}
	return out
}

func TestParseStages(t *testing.T) {
	tests := []struct {
		name      string
		from      string
		stages    []string
		wilds     []int
		anyLevel  []bool
		firstWild []string
	}{
		{
			name:      "single stage",
			from:      "*.jpg",
			stages:    []string{"*.jpg"},
			wilds:     []int{1},
			anyLevel:  []bool{false},
			firstWild: []string{"*.jpg"},
		},
		{
			name:      "literal directory prefix",
			from:      "src/a*.c",
			stages:    []string{"a*.c"},
			wilds:     []int{1},
			anyLevel:  []bool{false},
			firstWild: []string{"*.c"},
		},
		{
			name:      "two wildcard stages",
			from:      "*/x/?.c",
			stages:    []string{"*", "?.c"},
			wilds:     []int{1, 1},
			anyLevel:  []bool{false, false},
			firstWild: []string{"*", "?.c"},
		},
		{
			name:      "no wildcard at all",
			from:      "dir/file.c",
			stages:    []string{"file.c"},
			wilds:     []int{0},
			anyLevel:  []bool{false},
			firstWild: []string{""},
		},
		{
			name:      "trailing literal stage",
			from:      "*/Makefile",
			stages:    []string{"*", "Makefile"},
			wilds:     []int{1, 0},
			anyLevel:  []bool{false, false},
			firstWild: []string{"*", ""},
		},
		{
			name:      "any level",
			from:      "src/;*.c",
			stages:    []string{";*.c"},
			wilds:     []int{2},
			anyLevel:  []bool{true},
			firstWild: []string{"*.c"},
		},
		{
			name:      "any level literal",
			from:      ";core",
			stages:    []string{";core"},
			wilds:     []int{1},
			anyLevel:  []bool{true},
			firstWild: []string{""},
		},
		{
			name:      "class counts once",
			from:      "[a-z]x[0-9]",
			stages:    []string{"[a-z]x[0-9]"},
			wilds:     []int{2},
			anyLevel:  []bool{false},
			firstWild: []string{"[a-z]x[0-9]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.from, "x", ParseOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.stages, stageTexts(p))
			for i, st := range p.Stages {
				assert.Equal(t, tt.wilds[i], st.Wilds, "stage %d wilds", i)
				assert.Equal(t, tt.anyLevel[i], st.AnyLevel, "stage %d any level", i)
				assert.Equal(t, tt.firstWild[i], p.From[st.FirstWild:st.End], "stage %d first wildcard", i)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	many := strings.Repeat("?", glob.MaxWild)

	tests := []struct {
		name string
		from string
		to   string
		opts ParseOptions
		code errors.ErrorCode
		msg  string
	}{
		{"unterminated class", "[ab", "x", ParseOptions{}, errors.ErrPatternSyntax, "missing ]"},
		{"slash in class", "[a/b]", "x", ParseOptions{}, errors.ErrPatternSyntax, "'/' can not be part of []"},
		{"trailing escape", `a\`, "x", ParseOptions{}, errors.ErrPatternSyntax, `trailing \ is superfluous`},
		{"trailing escape in class", `[a\`, "x", ParseOptions{}, errors.ErrPatternSyntax, `trailing \ is superfluous`},
		{"trailing escape in template", "*", `x\`, ParseOptions{}, errors.ErrPatternSyntax, `trailing \ is superfluous`},
		{"misplaced any level", "a;b", "x", ParseOptions{}, errors.ErrPatternSyntax, "badly placed ;"},
		{"21st wildcard", many + "?", "x", ParseOptions{}, errors.ErrTooManyWildcards, "too many wildcards"},
		{"hash without digit", "*", "#x", ParseOptions{}, errors.ErrPatternSyntax, "expected digit (not 'x') after #"},
		{"hash at end", "*", "a#", ParseOptions{}, errors.ErrPatternSyntax, "expected digit after #"},
		{"reference out of range", "*", "#2", ParseOptions{}, errors.ErrBadBackref, "wildcard #2 does not exist"},
		{"reference zero", "*", "#0", ParseOptions{}, errors.ErrBadBackref, "wildcard #0 does not exist"},
		{"path under rename", "*", "d/#1", ParseOptions{NoPathInTarget: true}, errors.ErrPatternSyntax, "no path allowed in target under -r"},
		{"pattern too long", strings.Repeat("a", MaxPathLen), "x", ParseOptions{}, errors.ErrPatternTooLong, "pattern too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.from, tt.to, tt.opts)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
			assert.Equal(t, tt.msg, errors.Message(err))
		})
	}
}

func TestParseAcceptsTwentyWildcards(t *testing.T) {
	p, err := Parse(strings.Repeat("?", glob.MaxWild), "#20", ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, glob.MaxWild, p.Wilds)
}

func TestParseHomeExpansion(t *testing.T) {
	p, err := Parse("~/*.c", "~/old/#1.c", ParseOptions{Home: "/home/u"})
	require.NoError(t, err)
	assert.Equal(t, "/home/u/*.c", p.From)
	assert.Equal(t, []string{"*.c"}, stageTexts(p))

	got, ok := p.Template.Instantiate([]string{"main"})
	assert.True(t, ok)
	assert.Equal(t, "/home/u/old/main.c", got)
}

func TestLiteral(t *testing.T) {
	p, err := Parse(`ab\*c*`, "x", ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, "ab", p.Literal(0, p.Stages[0].Start))

	p, err = Parse("src/;foo*", "x", ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, "foo", p.Literal(0, p.Stages[0].Start+1))
}

func TestInstantiate(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		caps []string
		want string
		ok   bool
	}{
		{"identity round trip", "*", "#1", []string{"hello"}, "hello", true},
		{"extension change", "*.jpg", "#1.jpeg", []string{"a"}, "a.jpeg", true},
		{"lower", "*", "#l1", []string{"MiXeD"}, "mixed", true},
		{"upper", "*", "#u1", []string{"MiXeD"}, "MIXED", true},
		{"capitalize", "*", "#c1", []string{"mIXED"}, "Mixed", true},
		{"capitalize empty", "*", "x#c1", []string{""}, "x", true},
		{"multi digit reference", strings.Repeat("?", 12), "#12#1", []string{"a", "", "", "", "", "", "", "", "", "", "", "z"}, "za", true},
		{"escaped hash", "*", `\#1#1`, []string{"x"}, "#1x", true},
		{"absolute template", "*", "/tmp/#1", []string{"x"}, "/tmp/x", true},
		{"template slashes kept", "*", "a//#1", []string{"x"}, "a//x", true},
		{"empty capture before slash", "*", "#1/x", []string{""}, "(empty)/x", false},
		{"capture ending in slash", ";*", "#1/#2", []string{"a/b/", "f"}, "a/b/(empty)/f", false},
		{"empty result", "*", "#1", []string{""}, "(empty)", false},
		{"too long", "*", "#1", []string{strings.Repeat("x", MaxPathLen)}, "(too long)", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.from, tt.to, ParseOptions{})
			require.NoError(t, err)
			got, ok := p.Template.Instantiate(tt.caps)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchThenInstantiateRoundTrip(t *testing.T) {
	p, err := Parse("*", "#1", ParseOptions{})
	require.NoError(t, err)

	spans, ok := glob.Match(p.From[p.Stages[0].FirstWild:], "hello")
	require.True(t, ok)
	require.Len(t, spans, 1)

	got, ok := p.Template.Instantiate([]string{"hello"[spans[0].Start : spans[0].Start+spans[0].Len]})
	assert.True(t, ok)
	assert.Equal(t, "hello", got)
}
