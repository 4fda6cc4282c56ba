// Package history provides bounded undo/redo stacks of whole-document
// snapshots. Snapshots are full strings, not deltas: documents here are
// short-form articles, so simplicity wins over memory efficiency.
package history

import "sync"

// DefaultLimit is the undo stack cap when none is configured.
const DefaultLimit = 50

// Stack manages undo/redo snapshots for one document.
// Pushing always clears the redo stack: there is no redo after a new
// forward action.
type Stack struct {
	mu sync.Mutex

	undo []string
	redo []string

	limit int
}

// New creates a snapshot stack with the given undo cap.
func New(limit int) *Stack {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack{limit: limit}
}

// Push records a snapshot on the undo stack and clears the redo stack.
// Once the cap is reached the oldest snapshot is silently dropped.
func (s *Stack) Push(snapshot string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.undo = append(s.undo, snapshot)
	s.redo = nil

	if len(s.undo) > s.limit {
		excess := len(s.undo) - s.limit
		s.undo = s.undo[excess:]
	}
}

// Undo pops the most recent snapshot, pushing current onto the redo stack
// first. The popped snapshot becomes the new live document. Returns
// ok=false (a no-op) when the undo stack is empty.
func (s *Stack) Undo(current string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.undo) == 0 {
		return "", false
	}

	snapshot := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, current)
	return snapshot, true
}

// Redo is the symmetric inverse of Undo; no-op when the redo stack is empty.
func (s *Stack) Redo(current string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.redo) == 0 {
		return "", false
	}

	snapshot := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, current)
	return snapshot, true
}

// CanUndo returns true if undo is available.
func (s *Stack) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo) > 0
}

// CanRedo returns true if redo is available.
func (s *Stack) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.redo) > 0
}

// UndoCount returns the number of undo snapshots available.
func (s *Stack) UndoCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo)
}

// RedoCount returns the number of redo snapshots available.
func (s *Stack) RedoCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.redo)
}

// Clear removes all undo/redo snapshots.
func (s *Stack) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undo = nil
	s.redo = nil
}

// Limit returns the undo stack cap.
func (s *Stack) Limit() int {
	return s.limit
}
