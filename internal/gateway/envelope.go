package gateway

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// systemPrompt instructs the collaborator to tag its own response so the
// gateway can route it without guessing.
const systemPrompt = `You are an editorial assistant embedded in an article editor.
Respond with a single JSON object and nothing else:
  {"type": "edit", "result": "<the rewritten text>"} when you are transforming the provided text, or
  {"type": "reply", "result": "<your answer>"} when you are answering conversationally.
For "edit" results, return only the replacement text itself: no surrounding
quotes, no commentary, and preserve the author's markdown formatting.`

// actionInstructions maps each action kind to the instruction sent with
// the text to transform.
var actionInstructions = map[ActionKind]string{
	ActionImprove:    "Improve the clarity and flow of the following text while preserving its meaning and voice.",
	ActionExpand:     "Expand the following text with more detail and supporting material, keeping the author's voice.",
	ActionSummarize:  "Summarize the following text concisely, keeping the essential points.",
	ActionFixGrammar: "Fix grammar, spelling, and punctuation in the following text. Change nothing else.",
}

// buildUserPrompt assembles the instruction + scope + text for one request.
func buildUserPrompt(req Request) string {
	var b strings.Builder

	instruction := actionInstructions[req.Kind]
	if req.Kind == ActionCustom {
		instruction = req.Instruction
	}
	b.WriteString(instruction)
	b.WriteString("\n\n")

	if req.DocumentTitle != "" {
		fmt.Fprintf(&b, "Document title: %s\n", req.DocumentTitle)
	}
	if req.IsPartial {
		b.WriteString("Scope: a selected passage from the document.\n")
	} else {
		b.WriteString("Scope: the whole document.\n")
	}

	b.WriteString("\nText:\n")
	b.WriteString(req.Text)
	return b.String()
}

// parseEnvelope extracts the tagged result from the collaborator's raw
// response. Models sometimes wrap JSON in a code fence; that wrapping is
// stripped before parsing. An unparsable or untagged body is a failure.
func parseEnvelope(raw string) (*Result, error) {
	body := stripFence(strings.TrimSpace(raw))
	if body == "" {
		return nil, fmt.Errorf("empty response body")
	}
	if !gjson.Valid(body) {
		return nil, fmt.Errorf("response is not valid JSON")
	}

	if errField := gjson.Get(body, "error"); errField.Exists() && errField.String() != "" {
		return nil, fmt.Errorf("collaborator error: %s", errField.String())
	}

	typ := gjson.Get(body, "type").String()
	result := gjson.Get(body, "result")
	if !result.Exists() {
		return nil, fmt.Errorf("response missing result field")
	}

	switch ResultType(typ) {
	case ResultReply, ResultEdit:
		return &Result{Type: ResultType(typ), Text: result.String()}, nil
	default:
		return nil, fmt.Errorf("response has unknown type %q", typ)
	}
}

// stripFence removes a surrounding markdown code fence, if present.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
