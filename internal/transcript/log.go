// Package transcript keeps the per-document conversation log: append-only
// from the workflow's perspective, persisted with a single trailing write
// after the last change. Chat history is not undoable.
package transcript

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/avisser/redline/internal/schedule"
)

// DefaultFlushDelay is the trailing delay before the log is persisted.
const DefaultFlushDelay = time.Second

// PersistFunc writes the full current log for a document. Persistence is
// last-write-wins; there is no append-only storage optimization.
type PersistFunc func(documentID string, msgs []Message) error

// Log is the conversation log for one document.
type Log struct {
	mu         sync.Mutex
	documentID string
	msgs       []Message

	debounce *schedule.Debouncer
	persist  PersistFunc
	logger   *zap.Logger
}

// NewLog creates a log seeded with previously persisted messages.
// persist may be nil for in-memory-only operation (tests).
func NewLog(documentID string, initial []Message, flushDelay time.Duration, persist PersistFunc, logger *zap.Logger) *Log {
	if flushDelay <= 0 {
		flushDelay = DefaultFlushDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	msgs := make([]Message, len(initial))
	copy(msgs, initial)
	return &Log{
		documentID: documentID,
		msgs:       msgs,
		debounce:   schedule.NewDebouncer(flushDelay),
		persist:    persist,
		logger:     logger,
	}
}

// Append adds a message and schedules a trailing persistence write.
func (l *Log) Append(msg Message) {
	l.mu.Lock()
	l.msgs = append(l.msgs, msg)
	l.mu.Unlock()

	l.schedulePersist()
}

// Messages returns a copy of the log in creation order.
func (l *Log) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Message, len(l.msgs))
	copy(out, l.msgs)
	return out
}

// Recent returns up to max of the newest messages, oldest first.
func (l *Log) Recent(max int) []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	if max <= 0 || max >= len(l.msgs) {
		out := make([]Message, len(l.msgs))
		copy(out, l.msgs)
		return out
	}
	out := make([]Message, max)
	copy(out, l.msgs[len(l.msgs)-max:])
	return out
}

// Len returns the number of messages.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.msgs)
}

// Clear empties the log and schedules persistence of the empty state.
// This is the explicit, confirmed destructive operation; callers gate it,
// and it is deliberately not synchronized with undo/redo.
func (l *Log) Clear() {
	l.mu.Lock()
	l.msgs = nil
	l.mu.Unlock()

	l.schedulePersist()
}

// Flush persists any pending changes immediately. Called on session close
// so a trailing write is not lost.
func (l *Log) Flush() {
	l.debounce.Flush()
}

// schedulePersist arms the trailing write. A persistence failure is
// non-fatal: the in-memory log stays intact and the next change retries.
func (l *Log) schedulePersist() {
	if l.persist == nil {
		return
	}
	l.debounce.Schedule(func() {
		if err := l.persist(l.documentID, l.Messages()); err != nil {
			l.logger.Warn("transcript persist failed",
				zap.String("document_id", l.documentID),
				zap.Error(err),
			)
		}
	})
}
