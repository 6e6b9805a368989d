// Package timeline applies drag gestures (move, trim start, trim end) to a
// block on the timeline, with optional ripple of every later block.
package timeline

import (
	"fmt"
	"math"
	"strings"

	"github.com/mgpai22/cuesmith/internal/subtitle"
)

const (
	// MinDuration is the shortest a trim can make a block.
	MinDuration = 100
	// TailPadding is the room the timeline leaves after the last block.
	TailPadding = 2000
)

// which part of the block was grabbed
type Mode int

const (
	Move Mode = iota
	TrimStart
	TrimEnd
)

func (m Mode) String() string {
	switch m {
	case Move:
		return "move"
	case TrimStart:
		return "trim-start"
	case TrimEnd:
		return "trim-end"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "move":
		return Move, nil
	case "trim-start", "start":
		return TrimStart, nil
	case "trim-end", "end":
		return TrimEnd, nil
	default:
		return 0, fmt.Errorf("unknown drag mode %q: use move, trim-start, or trim-end", name)
	}
}

// MaxTime is the right edge of the timeline: the media duration, or two
// seconds past the last block when that is later.
func MaxTime(store subtitle.Store, mediaDuration int64) int64 {
	return max(store.End()+TailPadding, mediaDuration)
}

// Gesture is one press-drag-release on a block. It keeps the store as it was
// at the press so ripple edits are always computed from the same origin.
type Gesture struct {
	mode       Mode
	id         string
	index      int
	origStart  int64
	origEnd    int64
	grabOffset float64
	snapshot   subtitle.Store
	maxTime    float64
}

// Begin starts a gesture on the block at index, grabbed at pointer ms.
func Begin(store subtitle.Store, index int, mode Mode, pointer float64, maxTime int64) (*Gesture, error) {
	target, ok := store.At(index)
	if !ok {
		return nil, fmt.Errorf("%w: %d", subtitle.ErrIndexOutOfRange, index)
	}
	if mode < Move || mode > TrimEnd {
		return nil, fmt.Errorf("unknown drag mode %d", int(mode))
	}

	g := &Gesture{
		mode:      mode,
		id:        target.ID,
		index:     index,
		origStart: target.Start,
		origEnd:   target.End,
		snapshot:  store,
		maxTime:   float64(maxTime),
	}
	g.grabOffset = g.clamp(pointer) - float64(target.Start)
	return g, nil
}

func (g *Gesture) Mode() Mode {
	return g.mode
}

// id of the dragged block
func (g *Gesture) Target() string {
	return g.id
}

// Apply returns live with the gesture applied for the pointer position.
// Neighbour limits come from live; ripple shifts come from the snapshot taken
// at Begin. If the target block is no longer in live, live is returned as is.
func (g *Gesture) Apply(live subtitle.Store, pointer float64, ripple bool) subtitle.Store {
	idx := live.IndexOf(g.id)
	if idx < 0 {
		return live
	}

	blocks := live.Blocks()
	ptr := g.clamp(pointer)

	prevEnd := 0.0
	if idx > 0 {
		prevEnd = float64(blocks[idx-1].End)
	}
	nextStart := g.maxTime
	if idx < len(blocks)-1 {
		nextStart = float64(blocks[idx+1].Start)
	}

	target := &blocks[idx]

	switch g.mode {
	case Move:
		newStart := ptr - g.grabOffset
		duration := float64(g.origEnd - g.origStart)

		if ripple {
			delta := max(newStart-float64(g.origStart), -float64(g.origStart))
			return g.shiftTail(blocks[:idx], g.index, delta)
		}

		if newStart < prevEnd {
			newStart = prevEnd
		}
		newEnd := newStart + duration
		if newEnd > nextStart {
			newEnd = nextStart
			newStart = max(newEnd-duration, prevEnd)
		}
		target.Start = round(newStart)
		target.End = round(newEnd)

	case TrimStart:
		newStart := min(ptr, float64(target.End-MinDuration))
		newStart = max(newStart, prevEnd)
		target.Start = round(newStart)

	case TrimEnd:
		newEnd := max(ptr, float64(target.Start+MinDuration))

		if ripple {
			delta := newEnd - float64(g.origEnd)
			target.End = round(newEnd)
			return g.shiftTail(blocks[:idx+1], g.index+1, delta)
		}

		target.End = round(min(newEnd, nextStart))
	}

	return subtitle.NewStore(blocks)
}

// shiftTail appends snapshot blocks from index from on, moved by delta, to head.
func (g *Gesture) shiftTail(head []subtitle.Block, from int, delta float64) subtitle.Store {
	snap := g.snapshot.Blocks()
	out := make([]subtitle.Block, 0, len(head)+len(snap)-from)
	out = append(out, head...)
	for _, b := range snap[min(from, len(snap)):] {
		b.Start = round(float64(b.Start) + delta)
		b.End = round(float64(b.End) + delta)
		out = append(out, b)
	}
	return subtitle.NewStore(out)
}

func (g *Gesture) clamp(pointer float64) float64 {
	if math.IsNaN(pointer) || pointer < 0 {
		return 0
	}
	return min(pointer, g.maxTime)
}

func round(ms float64) int64 {
	return int64(math.Round(ms))
}
