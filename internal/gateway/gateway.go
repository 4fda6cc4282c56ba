// Package gateway is the boundary to the external AI collaborator. It
// sends transformation requests and classifies each response as either a
// conversational reply or an edit proposal. The gateway is stateless per
// call; the session layer enforces the one-outstanding-request contract.
package gateway

import "context"

// ActionKind identifies the requested transformation.
type ActionKind string

const (
	ActionImprove    ActionKind = "improve"
	ActionExpand     ActionKind = "expand"
	ActionSummarize  ActionKind = "summarize"
	ActionFixGrammar ActionKind = "fix_grammar"
	ActionCustom     ActionKind = "custom"
)

// Known reports whether k is a recognized action kind.
func (k ActionKind) Known() bool {
	switch k {
	case ActionImprove, ActionExpand, ActionSummarize, ActionFixGrammar, ActionCustom:
		return true
	}
	return false
}

// MaxContextMessages caps how much recent conversation accompanies a
// request, bounding request size.
const MaxContextMessages = 6

// ContextMessage is one turn of recent conversation sent along for context.
type ContextMessage struct {
	Role    string `json:"role"` // "user" | "ai" | "system"
	Content string `json:"content"`
}

// Request describes one user-initiated transformation.
type Request struct {
	// Kind selects the transformation.
	Kind ActionKind

	// Text is the input: a selection excerpt or the whole document.
	// Must be non-empty.
	Text string

	// IsPartial is true when Text is a selection rather than the whole
	// document.
	IsPartial bool

	// Instruction carries the free-form request for ActionCustom.
	Instruction string

	// Context holds the most recent conversation turns, oldest first.
	// The gateway truncates to MaxContextMessages.
	Context []ContextMessage

	// DocumentTitle gives the collaborator document-level context.
	DocumentTitle string
}

// ResultType tags the collaborator's classification of its own response.
type ResultType string

const (
	// ResultReply is conversational: it lands in the transcript and has
	// no further effect.
	ResultReply ResultType = "reply"

	// ResultEdit is transformational: it becomes a pending proposal.
	ResultEdit ResultType = "edit"
)

// Result is a classified collaborator response.
type Result struct {
	Type ResultType
	Text string
}

// IsEdit reports whether the result should create a proposal.
func (r *Result) IsEdit() bool {
	return r.Type == ResultEdit
}

// Client issues transform requests to the collaborator.
// Implementations must return an error (never a Result) on transport
// failure, malformed responses, or collaborator-reported errors; callers
// convert those into error-flagged chat messages and no proposal.
type Client interface {
	Transform(ctx context.Context, req Request) (*Result, error)
}

// TruncateContext keeps only the most recent max messages.
func TruncateContext(msgs []ContextMessage, max int) []ContextMessage {
	if max <= 0 {
		max = MaxContextMessages
	}
	if len(msgs) <= max {
		return msgs
	}
	return msgs[len(msgs)-max:]
}
