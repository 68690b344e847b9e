package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-builder/internal/types"
)

// Status is the display-only persistence indicator.
type Status string

// Saver statuses.
const (
	StatusSaved  Status = "saved"
	StatusSaving Status = "saving"
)

// DefaultDebounce is the quiet period before a scheduled save is written.
const DefaultDebounce = 500 * time.Millisecond

// Saver writes the document to a snapshot slot with a trailing-edge
// debounce: scheduling a save while the timer is armed restarts it, so only
// the latest document state is ever written. Intermediate states within the
// window are superseded, never lost — the in-memory document stays
// authoritative until the write.
type Saver struct {
	slot  Snapshot
	delay time.Duration
	log   *zap.Logger

	mu       sync.Mutex
	timer    *time.Timer
	pending  *types.ResumeDocument
	status   Status
	onStatus func(Status)
	closed   bool
}

// SaverOption configures a Saver.
type SaverOption func(*Saver)

// WithDebounce overrides the debounce delay.
func WithDebounce(d time.Duration) SaverOption {
	return func(s *Saver) { s.delay = d }
}

// WithStatusFunc registers an observer for saved/saving transitions. The
// signal is for display only and carries no correctness obligation.
func WithStatusFunc(fn func(Status)) SaverOption {
	return func(s *Saver) { s.onStatus = fn }
}

// NewSaver creates a debounced saver over the given snapshot slot.
func NewSaver(slot Snapshot, log *zap.Logger, opts ...SaverOption) *Saver {
	s := &Saver{
		slot:   slot,
		delay:  DefaultDebounce,
		log:    log,
		status: StatusSaved,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Status returns the current persistence indicator.
func (s *Saver) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// ScheduleSave marks the document dirty and arms the debounce timer. A
// previously armed timer is restarted, discarding the superseded state.
func (s *Saver) ScheduleSave(doc types.ResumeDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	copied := doc.Clone()
	s.pending = &copied
	s.setStatusLocked(StatusSaving)

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.fire)
}

// fire writes the pending document once the quiet period elapses.
func (s *Saver) fire() {
	s.mu.Lock()
	doc := s.pending
	s.pending = nil
	s.mu.Unlock()

	if doc == nil {
		return
	}
	s.write(*doc)
}

// Flush cancels any armed timer and writes the pending document
// immediately. A flush with nothing pending is a no-op.
func (s *Saver) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	doc := s.pending
	s.pending = nil
	s.mu.Unlock()

	if doc != nil {
		s.write(*doc)
	}
}

// Reset cancels pending work, erases the snapshot slot, and returns the
// default document. Reset is synchronous: when it returns, the slot is gone.
func (s *Saver) Reset(ctx context.Context) types.ResumeDocument {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = nil
	s.mu.Unlock()

	if err := s.slot.Delete(ctx); err != nil {
		// Persistence errors never surface to the user.
		s.log.Warn("failed to erase snapshot on reset", zap.Error(err))
	}

	s.mu.Lock()
	s.setStatusLocked(StatusSaved)
	s.mu.Unlock()

	return types.DefaultDocument()
}

// Close cancels any armed timer without writing. Pending state is dropped;
// callers that need it durable call Flush first.
func (s *Saver) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = nil
}

func (s *Saver) write(doc types.ResumeDocument) {
	data, err := json.Marshal(doc)
	if err != nil {
		s.log.Error("failed to serialize document", zap.Error(err))
		return
	}
	if err := s.slot.Save(context.Background(), data); err != nil {
		s.log.Warn("failed to write snapshot", zap.Error(err))
		return
	}

	s.mu.Lock()
	// A mutation may have raced in; only report saved when nothing newer
	// is pending.
	if s.pending == nil {
		s.setStatusLocked(StatusSaved)
	}
	s.mu.Unlock()
}

func (s *Saver) setStatusLocked(status Status) {
	if s.status == status {
		return
	}
	s.status = status
	if s.onStatus != nil {
		s.onStatus(status)
	}
}
