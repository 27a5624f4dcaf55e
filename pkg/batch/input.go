package batch

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/arthur-debert/mmv/pkg/errors"
	"github.com/arthur-debert/mmv/pkg/logging"
	"github.com/arthur-debert/mmv/pkg/types"
)

// PatternPair is one from pattern and its to template
type PatternPair struct {
	From string
	To   string
	// DeleteOK pre-approves deleting whatever the targets replace
	DeleteOK bool
}

// separators may stand between the words of a pair; they are the arrows
// of an operation listing
var separators = map[string]bool{"->": true, "-^": true, "=>": true, "=^": true}

// ReadPatterns reads pattern pairs, one per line: a from word, an
// optional arrow, a to word and an optional "(*)" approving deletes.
// Words are separated by blanks; a backslash keeps the next character in
// the word and stays in it. A line without a to word is reported and
// skipped, as is a line with more words than that.
func ReadPatterns(r io.Reader, reporter types.Reporter) ([]PatternPair, error) {
	logger := logging.GetLogger("batch.input")
	var pairs []PatternPair

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		words := splitWords(scanner.Text())
		if len(words) == 0 {
			continue
		}

		from, rest := words[0], words[1:]
		for len(rest) > 0 && separators[rest[0]] {
			rest = rest[1:]
		}
		if len(rest) == 0 {
			reporter.Line("%s -> ? : missing replacement pattern.", from)
			continue
		}

		pair := PatternPair{From: from, To: rest[0]}
		rest = rest[1:]
		if len(rest) > 0 && rest[0] == "(*)" {
			pair.DeleteOK = true
			rest = rest[1:]
		}
		if len(rest) > 0 {
			logger.Debug().Int("line", n).Strs("extra", rest).Msg("skipping line with extra words")
			continue
		}
		pairs = append(pairs, pair)
	}
	if err := scanner.Err(); err != nil {
		return pairs, errors.Wrapf(err, errors.ErrInvalidInput, "reading patterns at line %d", n+1)
	}
	return pairs, nil
}

func splitWords(line string) []string {
	var words []string
	var b strings.Builder
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			b.WriteRune(r)
			escaped = true
		case unicode.IsSpace(r):
			if b.Len() > 0 {
				words = append(words, b.String())
				b.Reset()
			}
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() > 0 {
		words = append(words, b.String())
	}
	return words
}
