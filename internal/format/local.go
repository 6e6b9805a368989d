package format

import (
	"context"
	"strings"
	"unicode/utf8"
)

// LocalFormatter lays text out without a language model. Sentences end a
// line, lines are packed greedily up to the character limit, and a block that
// needs two lines is split bottom-heavy, preferring a break after a comma.
type LocalFormatter struct {
	maxChars int
	maxLines int
}

func NewLocalFormatter(opts Options) *LocalFormatter {
	opts = opts.withDefaults()
	return &LocalFormatter{
		maxChars: opts.MaxCharsPerLine,
		maxLines: opts.MaxLinesPerBlock,
	}
}

func (f *LocalFormatter) Format(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	words := strings.Fields(PrepareInput(text))
	if len(words) == 0 {
		return "", nil
	}

	var blocks []string
	var current []string
	for _, word := range words {
		candidate := append(current[:len(current):len(current)], word)
		if len(current) > 0 && !f.fits(candidate) {
			blocks = append(blocks, strings.Join(f.wrap(current), "\n"))
			candidate = []string{word}
		}
		current = candidate
	}
	if len(current) > 0 {
		blocks = append(blocks, strings.Join(f.wrap(current), "\n"))
	}

	return strings.Join(blocks, "\n\n"), nil
}

// a lone word always fits, however long
func (f *LocalFormatter) fits(words []string) bool {
	if len(words) == 1 {
		return true
	}
	lines := f.wrap(words)
	if len(lines) > f.maxLines {
		return false
	}
	for _, line := range lines {
		if utf8.RuneCountInString(line) > f.maxChars {
			return false
		}
	}
	return true
}

func (f *LocalFormatter) wrap(words []string) []string {
	if f.maxLines >= 2 && !hasInnerSentenceEnd(words) && runeLen(words) > f.maxChars {
		if lines, ok := f.balance(words); ok {
			return lines
		}
	}
	return f.greedy(words)
}

func (f *LocalFormatter) greedy(words []string) []string {
	var lines []string
	var line []string
	for i, word := range words {
		if len(line) > 0 && runeLen(append(line[:len(line):len(line)], word)) > f.maxChars {
			lines = append(lines, strings.Join(line, " "))
			line = nil
		}
		line = append(line, word)
		if endsSentence(word) && i < len(words)-1 {
			lines = append(lines, strings.Join(line, " "))
			line = nil
		}
	}
	if len(line) > 0 {
		lines = append(lines, strings.Join(line, " "))
	}
	return lines
}

// two-line split with the bottom line at least as long as the top
func (f *LocalFormatter) balance(words []string) ([]string, bool) {
	best := -1
	bestScore := 0
	for k := 1; k < len(words); k++ {
		top, bottom := runeLen(words[:k]), runeLen(words[k:])
		if top > f.maxChars || bottom > f.maxChars || top > bottom {
			continue
		}
		score := bottom - top
		if endsClause(words[k-1]) {
			score -= f.maxChars
		}
		if best < 0 || score < bestScore {
			best, bestScore = k, score
		}
	}
	if best < 0 {
		return nil, false
	}
	return []string{
		strings.Join(words[:best], " "),
		strings.Join(words[best:], " "),
	}, true
}

// rune length of words joined by single spaces
func runeLen(words []string) int {
	n := 0
	for i, w := range words {
		if i > 0 {
			n++
		}
		n += utf8.RuneCountInString(w)
	}
	return n
}

func hasInnerSentenceEnd(words []string) bool {
	for _, w := range words[:len(words)-1] {
		if endsSentence(w) {
			return true
		}
	}
	return false
}

func endsSentence(word string) bool {
	word = strings.TrimRight(word, `"')]`)
	return strings.HasSuffix(word, ".") || strings.HasSuffix(word, "!") || strings.HasSuffix(word, "?")
}

func endsClause(word string) bool {
	return strings.HasSuffix(word, ",") || strings.HasSuffix(word, ";") || strings.HasSuffix(word, ":")
}
