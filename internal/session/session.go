// Package session orchestrates the AI patch workflow for one open editor:
// request → review → accept/reject, with bounded history and the
// conversation log riding along. A session is single-owner; the mutex only
// guards against the host UI's event handlers overlapping on the API.
package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/avisser/redline/internal/diff"
	"github.com/avisser/redline/internal/document"
	"github.com/avisser/redline/internal/errors"
	"github.com/avisser/redline/internal/gateway"
	"github.com/avisser/redline/internal/history"
	"github.com/avisser/redline/internal/selection"
	"github.com/avisser/redline/internal/transcript"
)

// State is the patch workflow state.
type State string

const (
	// StateIdle: no transform in flight, no proposal under review.
	StateIdle State = "idle"

	// StateAwaiting: a transform request has been issued and the
	// collaborator has not answered yet. The document stays editable.
	StateAwaiting State = "awaiting_response"

	// StateReviewing: an edit proposal is pending accept/reject.
	StateReviewing State = "reviewing"
)

// Proposal is the single in-flight, unreconciled AI suggestion.
type Proposal struct {
	// OriginalExcerpt is exactly what was sent to the collaborator.
	OriginalExcerpt string

	// ProposedText is the collaborator's answer. The user may edit it
	// freely before accepting.
	ProposedText string

	// CapturedRange is the selection recorded at request issuance;
	// nil means whole document. Merges use this range against Snapshot,
	// never the live document, so the offsets stay valid.
	CapturedRange *document.Range

	// Snapshot is the full document at request time.
	Snapshot string
}

// ProposalView is the review payload handed to the host UI.
type ProposalView struct {
	OriginalExcerpt string          `json:"original_excerpt"`
	ProposedText    string          `json:"proposed_text"`
	CapturedRange   *document.Range `json:"captured_range,omitempty"`
	Spans           []diff.Span     `json:"spans"`

	// Diverged is true when the live document no longer matches the
	// request-time snapshot: accepting will merge against the snapshot
	// and discard intervening edits in the merged region. Hosts should
	// warn before allowing accept.
	Diverged bool `json:"diverged"`
}

// Session is one open editor over a document.
type Session struct {
	mu sync.Mutex

	// Token identifies the session to API clients.
	Token string

	doc     *document.Document
	hist    *history.Stack
	tracker *selection.Tracker
	log     *transcript.Log
	client  gateway.Client
	logger  *zap.Logger

	state   State
	pending *Proposal

	// contextMax caps the recent transcript turns sent with a request.
	contextMax int

	// capturedRange and capturedSnapshot carry the request-time capture
	// from beginRequest to the response handler.
	capturedRange    *document.Range
	capturedSnapshot string

	// cursor is the tracked byte offset for image insertion; -1 unknown.
	cursor int
}

// New creates a session. client may be nil for hosts that never request
// transforms (the CLI's read paths). contextMax <= 0 falls back to
// gateway.MaxContextMessages.
func New(token string, doc *document.Document, hist *history.Stack, tracker *selection.Tracker, log *transcript.Log, client gateway.Client, contextMax int, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if contextMax <= 0 {
		contextMax = gateway.MaxContextMessages
	}
	return &Session{
		Token:      token,
		doc:        doc,
		hist:       hist,
		tracker:    tracker,
		log:        log,
		client:     client,
		logger:     logger,
		state:      StateIdle,
		contextMax: contextMax,
		cursor:     -1,
	}
}

// State returns the current workflow state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Document returns a copy of the current document.
func (s *Session) Document() document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.doc
}

// Content returns the live document content.
func (s *Session) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Content
}

// SetContent applies a manual edit. Manual edits are not auto-snapshotted:
// only significant, reviewable mutations (accepted patches, image
// insertion) push history.
func (s *Session) SetContent(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setContentLocked(content)
}

// SetTitle applies a title edit.
func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Title = title
}

// SetCursor records the host's cursor offset for image insertion.
func (s *Session) SetCursor(offset int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = offset
}

// Observe feeds a selection event from the host into the tracker,
// debounced against the live content.
func (s *Session) Observe(selectedText string) {
	s.tracker.Observe(s.Content(), selectedText)
}

// Transcript returns the conversation log in creation order.
func (s *Session) Transcript() []transcript.Message {
	return s.log.Messages()
}

// ClearTranscript empties the conversation log. Callers gate this behind
// explicit confirmation; it is not undoable.
func (s *Session) ClearTranscript() {
	s.log.Clear()
}

// RequestTransform issues a transform for the current selection (falling
// back to the whole document) and drives the workflow through
// AwaitingResponse to either Reviewing (edit) or Idle (reply/error).
// Failures are recorded as an error-flagged system chat message and
// returned; no proposal is created and the user may retry.
//
// explicitRange, when non-nil and in-bounds, overrides the tracker's
// best-effort first-occurrence resolution.
func (s *Session) RequestTransform(ctx context.Context, kind gateway.ActionKind, instruction string, explicitRange *document.Range) error {
	req, err := s.beginRequest(kind, instruction, explicitRange)
	if err != nil {
		return err
	}

	result, callErr := s.client.Transform(ctx, *req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if callErr != nil {
		s.state = StateIdle
		s.log.Append(transcript.NewErrorMessage(fmt.Sprintf("Transform failed: %v", callErr)))
		s.logger.Warn("transform failed", zap.String("document_id", s.doc.ID), zap.Error(callErr))
		return errors.NewGatewayFailed(callErr)
	}

	if !result.IsEdit() {
		s.state = StateIdle
		reply := transcript.NewMessage(transcript.RoleAI, result.Text)
		reply.IsReply = true
		s.log.Append(reply)
		return nil
	}

	s.pending = &Proposal{
		OriginalExcerpt: req.Text,
		ProposedText:    result.Text,
		CapturedRange:   s.capturedRange,
		Snapshot:        s.capturedSnapshot,
	}
	s.state = StateReviewing
	s.logger.Debug("proposal pending",
		zap.String("document_id", s.doc.ID),
		zap.Bool("partial", req.IsPartial),
	)
	return nil
}

// beginRequest validates preconditions, captures the range and snapshot at
// issuance, records the user's turn, and transitions to AwaitingResponse.
func (s *Session) beginRequest(kind gateway.ActionKind, instruction string, explicitRange *document.Range) (*gateway.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil, errors.NewInvalidRequest("no collaborator is configured")
	}
	if s.state != StateIdle {
		return nil, errors.NewProposalPending()
	}
	if !kind.Known() {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown action kind %q", kind))
	}

	snapshot := s.doc.Content
	captured := s.resolveRange(snapshot, explicitRange)

	text := snapshot
	isPartial := false
	if captured != nil {
		text = snapshot[captured.Start:captured.End]
		isPartial = true
	}
	if text == "" {
		return nil, errors.NewInvalidRequest("document is empty; nothing to transform")
	}

	s.log.Append(transcript.NewMessage(transcript.RoleUser, userTurn(kind, instruction, isPartial)))

	s.capturedRange = captured
	s.capturedSnapshot = snapshot
	s.state = StateAwaiting

	return &gateway.Request{
		Kind:          kind,
		Text:          text,
		IsPartial:     isPartial,
		Instruction:   instruction,
		Context:       s.recentContext(),
		DocumentTitle: s.doc.Title,
	}, nil
}

// resolveRange picks the merge target: an in-bounds explicit range wins,
// otherwise the tracker's debounced first-occurrence resolution. A stale
// or out-of-bounds range degrades to whole-document.
func (s *Session) resolveRange(content string, explicit *document.Range) *document.Range {
	if explicit != nil {
		if explicit.Valid(len(content)) && explicit.Start < explicit.End {
			r := *explicit
			return &r
		}
		return nil
	}

	s.tracker.Flush()
	snap := s.tracker.Current()
	if snap.Range == nil || !snap.Range.Valid(len(content)) {
		return nil
	}
	// Guard against a range resolved before an intervening edit.
	if content[snap.Range.Start:snap.Range.End] != snap.Text {
		return nil
	}
	r := *snap.Range
	return &r
}

// recentContext maps the newest transcript turns into gateway context.
func (s *Session) recentContext() []gateway.ContextMessage {
	recent := s.log.Recent(s.contextMax)
	out := make([]gateway.ContextMessage, 0, len(recent))
	for _, m := range recent {
		out = append(out, gateway.ContextMessage{Role: string(m.Role), Content: m.Content})
	}
	return out
}

// userTurn renders the user's request as a transcript entry.
func userTurn(kind gateway.ActionKind, instruction string, isPartial bool) string {
	if kind == gateway.ActionCustom {
		return instruction
	}
	scope := "the document"
	if isPartial {
		scope = "the selection"
	}
	return fmt.Sprintf("[%s] %s", kind, scope)
}

// Proposal returns the review payload, or an error when nothing is under
// review. The diff compares the sent excerpt against the (possibly
// user-edited) proposed text.
func (s *Session) Proposal() (*ProposalView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return nil, errors.NewNoProposal()
	}

	return &ProposalView{
		OriginalExcerpt: s.pending.OriginalExcerpt,
		ProposedText:    s.pending.ProposedText,
		CapturedRange:   s.pending.CapturedRange,
		Spans:           diff.Compute(s.pending.OriginalExcerpt, s.pending.ProposedText),
		Diverged:        s.doc.Content != s.pending.Snapshot,
	}, nil
}

// EditProposal replaces the proposed text before acceptance.
func (s *Session) EditProposal(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return errors.NewNoProposal()
	}
	s.pending.ProposedText = text
	return nil
}

// Accept merges the pending proposal. The merge applies against the
// snapshot captured at request time, not the live document, so the
// captured offsets remain valid regardless of intervening edits. The
// pre-merge live document is pushed onto history first.
func (s *Session) Accept() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return "", errors.NewNoProposal()
	}

	s.hist.Push(s.doc.Content)

	merged := s.pending.ProposedText
	if r := s.pending.CapturedRange; r != nil {
		merged = r.Splice(s.pending.Snapshot, s.pending.ProposedText)
	}
	s.setContentLocked(merged)

	s.pending = nil
	s.state = StateIdle
	s.log.Append(transcript.NewMessage(transcript.RoleSystem, "Edit accepted and merged."))
	s.logger.Debug("proposal accepted", zap.String("document_id", s.doc.ID))
	return merged, nil
}

// Reject discards the pending proposal with no document mutation and no
// history push.
func (s *Session) Reject() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return errors.NewNoProposal()
	}

	s.pending = nil
	s.state = StateIdle
	s.log.Append(transcript.NewMessage(transcript.RoleSystem, "Edit rejected."))
	return nil
}

// InsertImage pushes a history snapshot, then splices a markdown image
// token at the tracked cursor offset (document end when unknown).
func (s *Session) InsertImage(altText, url string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hist.Push(s.doc.Content)
	s.setContentLocked(document.InsertAt(s.doc.Content, document.ImageToken(altText, url), s.cursor))
	return s.doc.Content
}

// Undo restores the previous snapshot; no-op (ok=false) on empty stack.
func (s *Session) Undo() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	restored, ok := s.hist.Undo(s.doc.Content)
	if !ok {
		return s.doc.Content, false
	}
	s.setContentLocked(restored)
	return restored, true
}

// Redo restores the last undone snapshot; no-op (ok=false) on empty stack.
func (s *Session) Redo() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	restored, ok := s.hist.Redo(s.doc.Content)
	if !ok {
		return s.doc.Content, false
	}
	s.setContentLocked(restored)
	return restored, true
}

// Close flushes the conversation log's trailing write.
func (s *Session) Close() {
	s.log.Flush()
}

func (s *Session) setContentLocked(content string) {
	s.doc.Content = content
	s.doc.ContentChars = document.CountChars(content)
	s.doc.TokensEstimate = document.EstimateTokens(content)
}
