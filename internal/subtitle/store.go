package subtitle

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrIndexOutOfRange = errors.New("block index out of range")
	ErrInvalidBlock    = errors.New("invalid block")
)

const (
	InsertGap       = 100  // ms between the anchor block and an inserted block
	InsertDuration  = 2000 // ms
	PlaceholderText = "New subtitle block..."
)

// Store is an immutable, ordered snapshot of subtitle blocks.
//
// A well-formed store is sorted by Start, has no overlapping neighbours and no
// block with Start >= End. Operations that edit timing directly (Replace,
// SetField) do not check this; callers re-establish it or call Validate.
type Store struct {
	blocks []Block
}

// NewStore copies blocks into a new snapshot.
func NewStore(blocks []Block) Store {
	if len(blocks) == 0 {
		return Store{}
	}
	cp := make([]Block, len(blocks))
	copy(cp, blocks)
	return Store{blocks: cp}
}

func (s Store) Len() int {
	return len(s.blocks)
}

func (s Store) IsEmpty() bool {
	return len(s.blocks) == 0
}

func (s Store) At(i int) (Block, bool) {
	if i < 0 || i >= len(s.blocks) {
		return Block{}, false
	}
	return s.blocks[i], true
}

func (s Store) Last() (Block, bool) {
	return s.At(len(s.blocks) - 1)
}

// Blocks returns a copy of the blocks in store order.
func (s Store) Blocks() []Block {
	cp := make([]Block, len(s.blocks))
	copy(cp, s.blocks)
	return cp
}

// IndexOf returns the position of the block with the given id, or -1.
func (s Store) IndexOf(id string) int {
	for i, b := range s.blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func (s Store) Texts() []string {
	texts := make([]string, len(s.blocks))
	for i, b := range s.blocks {
		texts[i] = b.Text
	}
	return texts
}

// Flatten joins block texts with a blank line, in store order.
func (s Store) Flatten() string {
	return strings.Join(s.Texts(), BlockSeparator)
}

// BlockAtOffset maps a byte offset in Flatten() to the index of the block
// containing it. The separator after a block belongs to that block. Returns -1
// for an empty store or an offset outside the text.
func (s Store) BlockAtOffset(offset int) int {
	if offset < 0 {
		return -1
	}
	pos := 0
	for i, b := range s.blocks {
		span := len(b.Text)
		if i < len(s.blocks)-1 {
			span += len(BlockSeparator)
		}
		if offset <= pos+span {
			return i
		}
		pos += span
	}
	return -1
}

// Equal reports whether both snapshots hold the same blocks in the same order.
func (s Store) Equal(other Store) bool {
	if len(s.blocks) != len(other.blocks) {
		return false
	}
	for i := range s.blocks {
		if s.blocks[i] != other.blocks[i] {
			return false
		}
	}
	return true
}

// End returns the end of the last block, or 0 for an empty store.
func (s Store) End() int64 {
	last, ok := s.Last()
	if !ok {
		return 0
	}
	return last.End
}

// InsertAfter adds a placeholder block right after anchor, starting
// InsertGap ms after the anchor ends. Other blocks are not moved. On an empty
// store the anchor is ignored and the block starts at 0.
func (s Store) InsertAfter(anchor int, ids IDGenerator) (Store, error) {
	if len(s.blocks) == 0 {
		return NewStore([]Block{{
			ID:    ids.NewID(),
			Start: 0,
			End:   InsertDuration,
			Text:  PlaceholderText,
		}}), nil
	}
	if anchor < 0 || anchor >= len(s.blocks) {
		return s, fmt.Errorf("%w: %d (0-%d)", ErrIndexOutOfRange, anchor, len(s.blocks)-1)
	}

	start := s.blocks[anchor].End + InsertGap
	block := Block{
		ID:    ids.NewID(),
		Start: start,
		End:   start + InsertDuration,
		Text:  PlaceholderText,
	}

	blocks := make([]Block, 0, len(s.blocks)+1)
	blocks = append(blocks, s.blocks[:anchor+1]...)
	blocks = append(blocks, block)
	blocks = append(blocks, s.blocks[anchor+1:]...)
	return Store{blocks: blocks}, nil
}

// Remove deletes the block at index i. Remaining ids are unchanged.
func (s Store) Remove(i int) (Store, error) {
	if err := s.checkIndex(i); err != nil {
		return s, err
	}
	blocks := make([]Block, 0, len(s.blocks)-1)
	blocks = append(blocks, s.blocks[:i]...)
	blocks = append(blocks, s.blocks[i+1:]...)
	return Store{blocks: blocks}, nil
}

// Replace swaps the block at index i wholesale.
func (s Store) Replace(i int, b Block) (Store, error) {
	if err := s.checkIndex(i); err != nil {
		return s, err
	}
	blocks := s.Blocks()
	blocks[i] = b
	return Store{blocks: blocks}, nil
}

// SetField merges a partial update into the block at index i.
func (s Store) SetField(i int, p Patch) (Store, error) {
	if err := s.checkIndex(i); err != nil {
		return s, err
	}
	b := s.blocks[i]
	if p.Start != nil {
		b.Start = *p.Start
	}
	if p.End != nil {
		b.End = *p.End
	}
	if p.Text != nil {
		b.Text = *p.Text
	}
	return s.Replace(i, b)
}

// Validate returns the first broken store invariant, if any.
func (s Store) Validate() error {
	seen := make(map[string]struct{}, len(s.blocks))
	for i, b := range s.blocks {
		if _, dup := seen[b.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q at %d", ErrInvalidBlock, b.ID, i)
		}
		seen[b.ID] = struct{}{}

		if b.Start < 0 {
			return fmt.Errorf("%w: block %d starts before zero (%d)", ErrInvalidBlock, i, b.Start)
		}
		if b.Start >= b.End {
			return fmt.Errorf(
				"%w: block %d has start %d >= end %d",
				ErrInvalidBlock,
				i,
				b.Start,
				b.End,
			)
		}
		if strings.Contains(b.Text, BlockSeparator) {
			return fmt.Errorf("%w: block %d text contains a blank line", ErrInvalidBlock, i)
		}
		if i == 0 {
			continue
		}
		prev := s.blocks[i-1]
		if b.Start < prev.Start {
			return fmt.Errorf("%w: block %d starts before block %d", ErrInvalidBlock, i, i-1)
		}
		if prev.End > b.Start {
			return fmt.Errorf(
				"%w: block %d (ends %d) overlaps block %d (starts %d)",
				ErrInvalidBlock,
				i-1,
				prev.End,
				i,
				b.Start,
			)
		}
	}
	return nil
}

func (s Store) checkIndex(i int) error {
	if i < 0 || i >= len(s.blocks) {
		if len(s.blocks) == 0 {
			return fmt.Errorf("%w: %d (store is empty)", ErrIndexOutOfRange, i)
		}
		return fmt.Errorf("%w: %d (0-%d)", ErrIndexOutOfRange, i, len(s.blocks)-1)
	}
	return nil
}
