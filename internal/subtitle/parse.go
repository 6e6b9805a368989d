package subtitle

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mgpai22/cuesmith/internal/timecode"
)

const timingArrow = "-->"

// ParseResult holds the blocks read from a subtitle document plus any block
// that had to be dropped.
type ParseResult struct {
	Store   Store
	Skipped []SkippedBlock
}

// block that could not be imported; Ordinal is its 1-based position in the file
type SkippedBlock struct {
	Ordinal int
	Reason  string
}

// one blank-line separated group of non-empty lines
type rawCue struct {
	ordinal int
	lines   []string
}

func splitCues(content string) []rawCue {
	content = NormalizeNewlines(content)
	content = strings.TrimPrefix(content, "\ufeff")

	var cues []rawCue
	var current []string
	flush := func() {
		if len(current) > 0 {
			cues = append(cues, rawCue{ordinal: len(cues) + 1, lines: current})
			current = nil
		}
	}

	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return cues
}

// cueBuilder turns raw cues into blocks, skipping malformed ones and
// assigning ids.
type cueBuilder struct {
	ids     IDGenerator
	used    map[string]struct{}
	blocks  []Block
	skipped []SkippedBlock
}

func newCueBuilder(ids IDGenerator) *cueBuilder {
	return &cueBuilder{
		ids:  ids,
		used: make(map[string]struct{}),
	}
}

// add parses one cue. The line before the timing line, if any, is the
// advisory identifier.
func (b *cueBuilder) add(cue rawCue, numericIDsOnly bool) {
	timingIdx := -1
	for i, line := range cue.lines {
		if strings.Contains(line, timingArrow) {
			timingIdx = i
			break
		}
	}
	if timingIdx < 0 || timingIdx > 1 {
		b.skip(cue, "missing timing line")
		return
	}

	start, end, err := parseTimingLine(cue.lines[timingIdx])
	if err != nil {
		b.skip(cue, err.Error())
		return
	}
	if start >= end {
		b.skip(cue, fmt.Sprintf("start %d is not before end %d", start, end))
		return
	}

	var label string
	if timingIdx == 1 {
		label = strings.TrimSpace(cue.lines[0])
	}

	b.blocks = append(b.blocks, Block{
		ID:    b.assignID(label, numericIDsOnly),
		Start: start,
		End:   end,
		Text:  CleanText(strings.Join(cue.lines[timingIdx+1:], "\n")),
	})
}

func (b *cueBuilder) assignID(label string, numericOnly bool) string {
	id := label
	if numericOnly {
		if _, err := strconv.Atoi(label); err != nil {
			id = ""
		}
	}
	if _, taken := b.used[id]; id == "" || taken {
		id = b.ids.NewID()
	}
	b.used[id] = struct{}{}
	return id
}

func (b *cueBuilder) skip(cue rawCue, reason string) {
	b.skipped = append(b.skipped, SkippedBlock{Ordinal: cue.ordinal, Reason: reason})
}

func (b *cueBuilder) result() ParseResult {
	sort.SliceStable(b.blocks, func(i, j int) bool {
		return b.blocks[i].Start < b.blocks[j].Start
	})
	return ParseResult{
		Store:   Store{blocks: b.blocks},
		Skipped: b.skipped,
	}
}

// parses "start --> end [cue settings]"
func parseTimingLine(line string) (int64, int64, error) {
	parts := strings.SplitN(line, timingArrow, 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid timing line %q", line)
	}

	endFields := strings.Fields(parts[1])
	if len(endFields) == 0 {
		return 0, 0, fmt.Errorf("invalid timing line %q: missing end", line)
	}

	start, err := timecode.Parse(expandShortClock(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start timestamp: %w", err)
	}
	end, err := timecode.Parse(expandShortClock(endFields[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end timestamp: %w", err)
	}
	return start, end, nil
}

// WebVTT allows "MM:SS.mmm" without hours
func expandShortClock(s string) string {
	s = strings.TrimSpace(s)
	if strings.Count(s, ":") == 1 {
		return "00:" + s
	}
	return s
}
