// Package editor holds the live block list of one editing session. Every
// command takes the current snapshot, runs a pure transform from the
// subtitle, reconcile or timeline packages and commits the result. Calls to
// AI collaborators run without the lock and only commit when nothing else
// changed the blocks in the meantime.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mgpai22/cuesmith/internal/format"
	"github.com/mgpai22/cuesmith/internal/reconcile"
	"github.com/mgpai22/cuesmith/internal/subtitle"
	"github.com/mgpai22/cuesmith/internal/timeline"
	"github.com/mgpai22/cuesmith/internal/transcribe"
)

var (
	ErrGestureActive = errors.New("a drag gesture is in progress")
	ErrNoGesture     = errors.New("no drag gesture in progress")
	ErrStaleSnapshot = errors.New("blocks changed while the request was running")
	ErrCollaborator  = errors.New("collaborator request failed")
)

type Option func(*Session)

// WithStore starts the session with blocks already loaded.
func WithStore(store subtitle.Store) Option {
	return func(s *Session) {
		s.store = store
	}
}

// WithReconcileOptions configures the reconciler used by ApplyText and
// AutoFormat.
func WithReconcileOptions(opts ...reconcile.Option) Option {
	return func(s *Session) {
		s.reconcileOpts = append(s.reconcileOpts, opts...)
	}
}

// WithMediaDuration sets the length of the attached media in ms.
func WithMediaDuration(ms int64) Option {
	return func(s *Session) {
		s.mediaDuration = ms
	}
}

type Session struct {
	mu            sync.Mutex
	store         subtitle.Store
	version       uint64
	ids           subtitle.IDGenerator
	reconcileOpts []reconcile.Option
	reconciler    *reconcile.Reconciler
	gesture       *timeline.Gesture
	mediaDuration int64
}

func NewSession(ids subtitle.IDGenerator, opts ...Option) *Session {
	if ids == nil {
		ids = subtitle.UUIDGenerator{}
	}
	s := &Session{ids: ids}
	for _, opt := range opts {
		opt(s)
	}
	s.reconciler = reconcile.New(ids, s.reconcileOpts...)
	return s
}

// Snapshot returns the current blocks and the version they belong to.
func (s *Session) Snapshot() (subtitle.Store, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store, s.version
}

func (s *Session) Store() subtitle.Store {
	store, _ := s.Snapshot()
	return store
}

// Dragging reports whether a gesture is in progress.
func (s *Session) Dragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gesture != nil
}

// must hold mu
func (s *Session) commit(next subtitle.Store) subtitle.Store {
	s.store = next
	s.version++
	return next
}

// update runs fn on the current blocks and commits its result. Refused while
// a gesture is active.
func (s *Session) update(fn func(subtitle.Store) (subtitle.Store, error)) (subtitle.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gesture != nil {
		return s.store, ErrGestureActive
	}
	next, err := fn(s.store)
	if err != nil {
		return s.store, err
	}
	return s.commit(next), nil
}

// Load replaces all blocks, as after an import.
func (s *Session) Load(store subtitle.Store) error {
	_, err := s.update(func(subtitle.Store) (subtitle.Store, error) {
		return store, nil
	})
	return err
}

// ApplyText reconciles edited continuous text against the current blocks.
func (s *Session) ApplyText(text string) (subtitle.Store, error) {
	return s.update(func(prev subtitle.Store) (subtitle.Store, error) {
		return s.reconciler.Reconcile(text, prev), nil
	})
}

// Insert adds a placeholder block after the block at anchor.
func (s *Session) Insert(anchor int) (subtitle.Store, error) {
	return s.update(func(prev subtitle.Store) (subtitle.Store, error) {
		return prev.InsertAfter(anchor, s.ids)
	})
}

func (s *Session) Remove(index int) (subtitle.Store, error) {
	return s.update(func(prev subtitle.Store) (subtitle.Store, error) {
		return prev.Remove(index)
	})
}

func (s *Session) Replace(index int, b subtitle.Block) (subtitle.Store, error) {
	return s.update(func(prev subtitle.Store) (subtitle.Store, error) {
		return prev.Replace(index, b)
	})
}

// SetField merges a partial update into one block. Timing is not validated.
func (s *Session) SetField(index int, p subtitle.Patch) (subtitle.Store, error) {
	return s.update(func(prev subtitle.Store) (subtitle.Store, error) {
		return prev.SetField(index, p)
	})
}

func (s *Session) SetMediaDuration(ms int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mediaDuration = max(ms, 0)
}

// MaxTime is the right edge of the timeline for the current blocks.
func (s *Session) MaxTime() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return timeline.MaxTime(s.store, s.mediaDuration)
}

// BeginDrag starts a gesture on the block at index, grabbed at pointer ms.
func (s *Session) BeginDrag(index int, mode timeline.Mode, pointer float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gesture != nil {
		return ErrGestureActive
	}
	g, err := timeline.Begin(s.store, index, mode, pointer, timeline.MaxTime(s.store, s.mediaDuration))
	if err != nil {
		return err
	}
	s.gesture = g
	return nil
}

// DragTo applies the active gesture for a new pointer position and commits
// the result.
func (s *Session) DragTo(pointer float64, ripple bool) (subtitle.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gesture == nil {
		return s.store, ErrNoGesture
	}
	return s.commit(s.gesture.Apply(s.store, pointer, ripple)), nil
}

// Release ends the gesture, keeping the last committed position.
func (s *Session) Release() (subtitle.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gesture == nil {
		return s.store, ErrNoGesture
	}
	s.gesture = nil
	return s.store, nil
}

// Cancel abandons the gesture without restoring the pre-drag blocks; moves
// already committed stay.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gesture = nil
}

// begin reads the current snapshot for a collaborator call
func (s *Session) begin() (subtitle.Store, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gesture != nil {
		return s.store, s.version, ErrGestureActive
	}
	return s.store, s.version, nil
}

// finish commits a collaborator result if the snapshot is still current
func (s *Session) finish(version uint64, fn func(subtitle.Store) subtitle.Store) (subtitle.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gesture != nil {
		return s.store, ErrGestureActive
	}
	if s.version != version {
		return s.store, ErrStaleSnapshot
	}
	return s.commit(fn(s.store)), nil
}

// AutoFormat sends the flattened text to f and reconciles the answer against
// the blocks it was computed from.
func (s *Session) AutoFormat(ctx context.Context, f format.Formatter) (subtitle.Store, error) {
	prev, version, err := s.begin()
	if err != nil {
		return prev, err
	}

	formatted, err := f.Format(ctx, prev.Flatten())
	if err != nil {
		return prev, fmt.Errorf("%w: %w", ErrCollaborator, err)
	}
	if formatted == "" {
		return prev, nil
	}

	return s.finish(version, func(current subtitle.Store) subtitle.Store {
		return s.reconciler.Reconcile(formatted, current)
	})
}

// Transcribe replaces the blocks with a transcript of the audio at path.
// Blocks the transcript could not parse are reported in the result.
func (s *Session) Transcribe(ctx context.Context, t transcribe.Transcriber, path string) (subtitle.ParseResult, error) {
	_, version, err := s.begin()
	if err != nil {
		return subtitle.ParseResult{}, err
	}

	body, err := t.Transcribe(ctx, path)
	if err != nil {
		return subtitle.ParseResult{}, fmt.Errorf("%w: %w", ErrCollaborator, err)
	}

	var result subtitle.ParseResult
	_, err = s.finish(version, func(subtitle.Store) subtitle.Store {
		result = transcribe.Ingest(body, s.ids)
		return result.Store
	})
	if err != nil {
		return subtitle.ParseResult{}, err
	}
	return result, nil
}
