// Package diff renders a word-granularity comparison of two document
// versions for human review. The output is purely presentational; it is
// never applied programmatically.
package diff

import (
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
)

// Tag classifies a diff span.
type Tag string

const (
	TagEqual  Tag = "equal"
	TagInsert Tag = "insert"
	TagDelete Tag = "delete"
)

// Span is one annotated run of text. Concatenating the Text of all
// non-delete spans reconstructs the modified string; all non-insert spans
// reconstruct the original.
type Span struct {
	Tag  Tag    `json:"tag"`
	Text string `json:"text"`
}

// Compute diffs original against modified at word granularity.
// Tokens are maximal runs of whitespace or non-whitespace, so typical prose
// edits produce word-sized spans instead of noisy character churn.
// Total over any two strings; identical inputs yield a single equal span.
func Compute(original, modified string) []Span {
	if original == modified {
		if original == "" {
			return nil
		}
		return []Span{{Tag: TagEqual, Text: original}}
	}

	a := tokenize(original)
	b := tokenize(modified)

	var spans []Span
	m := difflib.NewMatcher(a, b)
	for _, op := range m.GetOpCodes() {
		switch op.Tag {
		case 'e':
			spans = appendSpan(spans, TagEqual, join(a[op.I1:op.I2]))
		case 'd':
			spans = appendSpan(spans, TagDelete, join(a[op.I1:op.I2]))
		case 'i':
			spans = appendSpan(spans, TagInsert, join(b[op.J1:op.J2]))
		case 'r':
			spans = appendSpan(spans, TagDelete, join(a[op.I1:op.I2]))
			spans = appendSpan(spans, TagInsert, join(b[op.J1:op.J2]))
		}
	}
	return spans
}

// tokenize splits text into alternating runs of whitespace and
// non-whitespace. The runs concatenate back to the input exactly.
func tokenize(text string) []string {
	if text == "" {
		return nil
	}

	var tokens []string
	start := 0
	inSpace := false
	for i, r := range text {
		isSpace := unicode.IsSpace(r)
		if i == 0 {
			inSpace = isSpace
			continue
		}
		if isSpace != inSpace {
			tokens = append(tokens, text[start:i])
			start = i
			inSpace = isSpace
		}
	}
	return append(tokens, text[start:])
}

// appendSpan adds a span, merging into the previous one when tags match
// and skipping empties.
func appendSpan(spans []Span, tag Tag, text string) []Span {
	if text == "" {
		return spans
	}
	if n := len(spans); n > 0 && spans[n-1].Tag == tag {
		spans[n-1].Text += text
		return spans
	}
	return append(spans, Span{Tag: tag, Text: text})
}

func join(tokens []string) string {
	total := 0
	for _, t := range tokens {
		total += len(t)
	}
	buf := make([]byte, 0, total)
	for _, t := range tokens {
		buf = append(buf, t...)
	}
	return string(buf)
}
