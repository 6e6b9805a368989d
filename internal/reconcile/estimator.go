package reconcile

import (
	"unicode"

	"github.com/mgpai22/cuesmith/internal/subtitle"
)

// SyntheticRuneDuration is the time added per rune once the old anchors run out.
const SyntheticRuneDuration = 100

// PoolFallbackDuration replaces a zero share when splitting a pool.
const PoolFallbackDuration = 1000

// Span is a block timing in fractional milliseconds, before rounding.
type Span struct {
	Start float64
	End   float64
}

func (s Span) Width() float64 {
	return s.End - s.Start
}

// TimingEstimator times the edited texts that replaced old blocks. It returns
// one span per text, in order, and must not produce inverted spans; overlap
// with the surrounding kept blocks is handled by the caller.
type TimingEstimator interface {
	Estimate(old []subtitle.Block, texts []string, pool Span) []Span
}

// CharAnchor is an approximate estimator. Each letter or digit of the old
// blocks is given an equal slice of its own block's time; the new texts then
// consume those slices in order, one per letter or digit. Edits that keep the
// character count roughly unchanged land close to the original timing. Texts
// longer than the anchors are extended by SyntheticRuneDuration per rune.
type CharAnchor struct{}

func (CharAnchor) Estimate(old []subtitle.Block, texts []string, pool Span) []Span {
	var anchors []Span
	for _, b := range old {
		n := anchorCount(b.Text)
		if n == 0 {
			continue
		}
		step := float64(b.End-b.Start) / float64(n)
		for k := 0; k < n; k++ {
			anchors = append(anchors, Span{
				Start: float64(b.Start) + float64(k)*step,
				End:   float64(b.Start) + float64(k+1)*step,
			})
		}
	}

	spans := make([]Span, len(texts))
	cursor := pool.Start
	next := 0

	for i, text := range texts {
		n := anchorCount(text)
		span := Span{Start: cursor, End: cursor}

		for k := 0; k < n; k++ {
			if next < len(anchors) {
				a := anchors[next]
				next++
				if k == 0 {
					span.Start = a.Start
				}
				span.End = a.End
			} else {
				span.End += SyntheticRuneDuration
			}
			cursor = span.End
		}

		if i == len(texts)-1 && len(anchors) > 0 && next >= len(anchors) && span.End < pool.End {
			span.End = pool.End
		}
		spans[i] = span
	}

	return spans
}

// SplitProportionally divides pool between texts by their letter and digit
// counts, or equally when none have any. The last span ends exactly at
// pool.End when the pool has width. A zero share becomes PoolFallbackDuration,
// so a zero-width pool still yields non-empty spans.
func SplitProportionally(pool Span, texts []string) []Span {
	if len(texts) == 0 {
		return nil
	}

	counts := make([]int, len(texts))
	total := 0
	for i, t := range texts {
		counts[i] = anchorCount(t)
		total += counts[i]
	}

	width := pool.Width()
	spans := make([]Span, len(texts))
	current := pool.Start

	for i := range texts {
		ratio := 1 / float64(len(texts))
		if total > 0 {
			ratio = float64(counts[i]) / float64(total)
		}

		duration := width * ratio
		if duration == 0 {
			duration = PoolFallbackDuration
		}

		end := current + duration
		if i == len(texts)-1 && width > 0 {
			end = pool.End
		}
		spans[i] = Span{Start: current, End: end}
		current = end
	}

	return spans
}

// letters and digits in any script; spacing and punctuation carry no timing
func anchorCount(text string) int {
	n := 0
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
