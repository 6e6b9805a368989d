// Package language guesses the language of subtitle text and builds the
// labelled export filenames derived from it.
package language

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// returned when nothing scores
var Default = language.AmericanEnglish

type candidate struct {
	tag       language.Tag
	stopwords map[string]bool
}

func words(list ...string) map[string]bool {
	m := make(map[string]bool, len(list))
	for _, w := range list {
		m[w] = true
	}
	return m
}

// ties go to the earlier entry
var candidates = []candidate{
	{language.BrazilianPortuguese, words("que", "não", "de", "do", "da", "para", "com", "um", "uma", "o", "a", "é", "você", "então")},
	{language.AmericanEnglish, words("the", "you", "to", "and", "of", "in", "is", "it", "that", "have", "what", "this")},
	{language.Spanish, words("que", "de", "no", "el", "la", "y", "en", "lo", "un", "por", "qué", "para")},
	{language.French, words("de", "je", "pas", "le", "la", "tu", "vous", "il", "et", "à", "un", "est")},
}

// Detect scores the texts against short stopword lists and returns the best
// match, or Default when no stopword occurs.
func Detect(texts []string) language.Tag {
	tokens := tokenize(strings.ToLower(strings.Join(texts, " ")))
	if len(tokens) == 0 {
		return Default
	}

	best, bestScore := Default, 0
	for _, c := range candidates {
		score := 0
		for _, tok := range tokens {
			if c.stopwords[tok] {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = c.tag, score
		}
	}
	return best
}

// splits on anything that is not a letter, digit or apostrophe
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// Label renders a tag the way export filenames carry it: "PT-BR", "EN-US",
// "ES". British English is labelled "EN-UK".
func Label(tag language.Tag) string {
	base, _ := tag.Base()
	label := strings.ToUpper(base.String())

	region, conf := tag.Region()
	if conf == language.Exact {
		r := region.String()
		if r == "GB" {
			r = "UK"
		}
		label += "-" + r
	}
	return label
}

// ParseLabel is the inverse of Label. It also accepts any BCP 47 tag.
func ParseLabel(s string) (language.Tag, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "EN-UK") {
		return language.BritishEnglish, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("invalid language label %q: %w", s, err)
	}
	return tag, nil
}

// English display name, e.g. "Brazilian Portuguese"
func Name(tag language.Tag) string {
	return display.English.Tags().Name(tag)
}

// how the exported text was produced
type Suffix string

const (
	SuffixEdited    Suffix = "edited"
	SuffixFormatted Suffix = "formatted"
)

// fallback base name when the source has none
const DefaultBaseName = "Subtitles"

// ExportName builds "<base>_<label>_<suffix><ext>" next to source, where base
// is the source filename without its extension.
func ExportName(source, label string, suffix Suffix, ext string) string {
	dir := filepath.Dir(source)
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if source == "" || base == "" || base == "." {
		dir = ""
		base = DefaultBaseName
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	name := fmt.Sprintf("%s_%s_%s%s", base, label, suffix, ext)
	if dir == "" || dir == "." {
		return name
	}
	return filepath.Join(dir, name)
}
