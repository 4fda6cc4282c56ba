// Package selection tracks the active text selection reported by the host
// UI and resolves it to an offset range within the authoritative document.
//
// The host layer (browser, TUI, anything) implements the observation side:
// it calls Observe with the raw selected text on every selection-change
// event. The tracker debounces those bursts and resolves the coalesced
// value against the document content it is given.
package selection

import (
	"strings"
	"sync"
	"time"

	"github.com/avisser/redline/internal/document"
	"github.com/avisser/redline/internal/schedule"
)

// DefaultDebounce is the coalescing window for selection events.
const DefaultDebounce = 100 * time.Millisecond

// Snapshot is the tracker's observable state after resolution.
type Snapshot struct {
	// Text is the raw selected text, possibly empty.
	Text string

	// Range is the resolved [start, end) span, or nil when the selection
	// is empty or the text could not be located. A non-nil range is
	// best-effort only: documents with repeated passages may resolve to
	// the wrong occurrence.
	Range *document.Range
}

// Tracker debounces selection events and resolves selected text to a range.
// It never mutates the document.
type Tracker struct {
	mu       sync.Mutex
	current  Snapshot
	debounce *schedule.Debouncer
}

// New creates a tracker with the given coalescing window.
func New(debounce time.Duration) *Tracker {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Tracker{debounce: schedule.NewDebouncer(debounce)}
}

// Observe records a raw selection event against the given document content.
// Rapid-fire events within the coalescing window collapse into a single
// resolution of the last value seen.
func (t *Tracker) Observe(content, selectedText string) {
	t.debounce.Schedule(func() {
		t.set(Resolve(content, selectedText))
	})
}

// ObserveNow resolves immediately, bypassing the debounce window.
// Used by hosts that already coalesce their own events.
func (t *Tracker) ObserveNow(content, selectedText string) {
	t.debounce.Stop()
	t.set(Resolve(content, selectedText))
}

// Current returns the most recently resolved selection.
func (t *Tracker) Current() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Clear drops the tracked selection.
func (t *Tracker) Clear() {
	t.debounce.Stop()
	t.set(Snapshot{})
}

// Flush resolves any pending observation immediately. Exposed for tests
// and for hosts that need the range before the window elapses.
func (t *Tracker) Flush() {
	t.debounce.Flush()
}

func (t *Tracker) set(s Snapshot) {
	t.mu.Lock()
	t.current = s
	t.mu.Unlock()
}

// Resolve locates selectedText within content via first-occurrence
// substring search. Empty selections resolve to a nil range. When the text
// cannot be found (selection spanned rendered-but-not-raw content), the
// text is still reported but the range is nil; callers must treat any
// returned range as best-effort, not authoritative.
func Resolve(content, selectedText string) Snapshot {
	if selectedText == "" {
		return Snapshot{}
	}

	idx := strings.Index(content, selectedText)
	if idx < 0 {
		return Snapshot{Text: selectedText}
	}

	return Snapshot{
		Text:  selectedText,
		Range: &document.Range{Start: idx, End: idx + len(selectedText)},
	}
}
