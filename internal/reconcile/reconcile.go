// Package reconcile rebuilds a timed block list from edited flattened text.
//
// Unchanged leading and trailing blocks keep their ids and timing. The blocks
// between them are re-timed from the span the old blocks occupied: edits go
// through a TimingEstimator, pure insertions are split proportionally. The
// result is always a valid store when the previous one was.
package reconcile

import (
	"math"
	"regexp"
	"strings"

	"github.com/mgpai22/cuesmith/internal/subtitle"
)

const (
	// BootstrapDuration is the length of each block synthesized when there is
	// no previous timing at all.
	BootstrapDuration = 3000
	// TailPool is the room given to text appended after the last block.
	TailPool = 2000
	// MinMiddleDuration is the shortest block the seam pass will produce.
	MinMiddleDuration = 100
)

var paragraphBreak = regexp.MustCompile(`\n{2,}`)

// SplitText splits flattened text into trimmed, non-empty block texts on runs
// of two or more line breaks.
func SplitText(text string) []string {
	text = subtitle.NormalizeNewlines(text)

	var texts []string
	for _, part := range paragraphBreak.Split(text, -1) {
		if part = strings.TrimSpace(part); part != "" {
			texts = append(texts, part)
		}
	}
	return texts
}

type Option func(*Reconciler)

// WithEstimator replaces the default CharAnchor estimator.
func WithEstimator(e TimingEstimator) Option {
	return func(r *Reconciler) {
		r.estimator = e
	}
}

// WithoutSeamFit returns synthesized blocks exactly as estimated, even when
// they cross the neighbouring kept blocks.
func WithoutSeamFit() Option {
	return func(r *Reconciler) {
		r.fitSeams = false
	}
}

type Reconciler struct {
	ids       subtitle.IDGenerator
	estimator TimingEstimator
	fitSeams  bool
}

func New(ids subtitle.IDGenerator, opts ...Option) *Reconciler {
	r := &Reconciler{
		ids:       ids,
		estimator: CharAnchor{},
		fitSeams:  true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile returns the store that text describes, reusing prev's timing for
// every block whose text did not change. It never fails.
func (r *Reconciler) Reconcile(text string, prev subtitle.Store) subtitle.Store {
	newTexts := SplitText(text)
	if len(newTexts) == 0 {
		return subtitle.Store{}
	}
	if prev.IsEmpty() {
		return r.bootstrap(newTexts)
	}

	old := prev.Blocks()
	oldTexts := prev.Texts()

	p := 0
	for p < len(oldTexts) && p < len(newTexts) && oldTexts[p] == newTexts[p] {
		p++
	}
	if p == len(oldTexts) && p == len(newTexts) {
		return prev
	}

	q := 0
	for q < len(oldTexts)-p && q < len(newTexts)-p &&
		oldTexts[len(oldTexts)-1-q] == newTexts[len(newTexts)-1-q] {
		q++
	}

	oldMiddle := old[p : len(old)-q]
	newMiddle := newTexts[p : len(newTexts)-q]
	pool := timePool(old, p, oldMiddle)

	var spans []Span
	switch {
	case len(newMiddle) == 0:
		// pure deletion
	case len(oldMiddle) == 0:
		spans = SplitProportionally(pool, newMiddle)
	default:
		spans = r.estimator.Estimate(oldMiddle, newMiddle, pool)
		if len(spans) != len(newMiddle) {
			spans = SplitProportionally(pool, newMiddle)
		}
	}

	middle := make([]subtitle.Block, len(newMiddle))
	for i, t := range newMiddle {
		middle[i] = subtitle.Block{
			ID:    r.ids.NewID(),
			Start: roundMillis(spans[i].Start),
			End:   roundMillis(spans[i].End),
			Text:  t,
		}
	}

	prefix := old[:p]
	suffix := make([]subtitle.Block, q)
	copy(suffix, old[len(old)-q:])

	if r.fitSeams && len(middle) > 0 {
		var floor int64
		if p > 0 {
			floor = prefix[p-1].End
		}
		fitSeams(floor, middle, suffix)
	}

	blocks := make([]subtitle.Block, 0, len(prefix)+len(middle)+len(suffix))
	blocks = append(blocks, prefix...)
	blocks = append(blocks, middle...)
	blocks = append(blocks, suffix...)
	return subtitle.NewStore(blocks)
}

func (r *Reconciler) bootstrap(texts []string) subtitle.Store {
	blocks := make([]subtitle.Block, len(texts))
	var start int64
	for i, t := range texts {
		blocks[i] = subtitle.Block{
			ID:    r.ids.NewID(),
			Start: start,
			End:   start + BootstrapDuration,
			Text:  t,
		}
		start += BootstrapDuration
	}
	return subtitle.NewStore(blocks)
}

// span of time the changed region may be re-timed into
func timePool(old []subtitle.Block, p int, oldMiddle []subtitle.Block) Span {
	switch {
	case len(oldMiddle) > 0:
		return Span{
			Start: float64(oldMiddle[0].Start),
			End:   float64(oldMiddle[len(oldMiddle)-1].End),
		}
	case p < len(old):
		at := float64(old[p].Start)
		return Span{Start: at, End: at}
	default:
		end := float64(old[len(old)-1].End)
		return Span{Start: end, End: end + TailPool}
	}
}

// fitSeams keeps synthesized blocks inside [floor, suffix[0].Start]. Blocks
// are floored at the previous end and given MinMiddleDuration, then compressed
// back from the suffix. When the gap is too small even for that, the middle is
// packed at MinMiddleDuration and the suffix shifts later by the shortfall.
func fitSeams(floor int64, middle, suffix []subtitle.Block) {
	lower := floor
	for i := range middle {
		if middle[i].Start < lower {
			middle[i].Start = lower
		}
		if middle[i].End < middle[i].Start+MinMiddleDuration {
			middle[i].End = middle[i].Start + MinMiddleDuration
		}
		lower = middle[i].End
	}

	if len(suffix) == 0 {
		return
	}
	ceiling := suffix[0].Start
	last := middle[len(middle)-1].End
	if last <= ceiling {
		return
	}

	if ceiling-floor >= int64(len(middle))*MinMiddleDuration {
		for i := len(middle) - 1; i >= 0; i-- {
			if middle[i].End > ceiling {
				middle[i].End = ceiling
			}
			if middle[i].Start > middle[i].End-MinMiddleDuration {
				middle[i].Start = middle[i].End - MinMiddleDuration
			}
			ceiling = middle[i].Start
		}
		return
	}

	// pack the middle at the minimum and shift the suffix by what is left
	lower = floor
	for i := range middle {
		middle[i].Start = lower
		middle[i].End = lower + MinMiddleDuration
		lower = middle[i].End
	}
	overflow := lower - ceiling
	for i := range suffix {
		suffix[i].Start += overflow
		suffix[i].End += overflow
	}
}

func roundMillis(ms float64) int64 {
	if math.IsNaN(ms) || ms < 0 {
		return 0
	}
	return int64(math.Round(ms))
}
