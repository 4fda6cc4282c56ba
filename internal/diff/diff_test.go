package diff

import (
	"strings"
	"testing"
)

// reconstruct rebuilds the original (equal+delete) and modified
// (equal+insert) texts from a span sequence.
func reconstruct(spans []Span) (original, modified string) {
	var o, m strings.Builder
	for _, s := range spans {
		switch s.Tag {
		case TagEqual:
			o.WriteString(s.Text)
			m.WriteString(s.Text)
		case TagDelete:
			o.WriteString(s.Text)
		case TagInsert:
			m.WriteString(s.Text)
		}
	}
	return o.String(), m.String()
}

func TestCompute_Identity(t *testing.T) {
	spans := Compute("The cat sat.", "The cat sat.")
	if len(spans) != 1 {
		t.Fatalf("span count = %d, want 1", len(spans))
	}
	if spans[0].Tag != TagEqual {
		t.Errorf("tag = %q, want equal", spans[0].Tag)
	}
	if spans[0].Text != "The cat sat." {
		t.Errorf("text = %q, want full input", spans[0].Text)
	}
}

func TestCompute_BothEmpty(t *testing.T) {
	if spans := Compute("", ""); len(spans) != 0 {
		t.Errorf("span count = %d, want 0", len(spans))
	}
}

func TestCompute_InsertOnly(t *testing.T) {
	spans := Compute("", "hello world")
	if len(spans) != 1 {
		t.Fatalf("span count = %d, want 1", len(spans))
	}
	if spans[0].Tag != TagInsert || spans[0].Text != "hello world" {
		t.Errorf("got %+v, want single insert of full text", spans[0])
	}
}

func TestCompute_DeleteOnly(t *testing.T) {
	spans := Compute("hello world", "")
	if len(spans) != 1 {
		t.Fatalf("span count = %d, want 1", len(spans))
	}
	if spans[0].Tag != TagDelete || spans[0].Text != "hello world" {
		t.Errorf("got %+v, want single delete of full text", spans[0])
	}
}

func TestCompute_WordReplacement(t *testing.T) {
	spans := Compute("The cat sat.", "The feline sat.")

	original, modified := reconstruct(spans)
	if original != "The cat sat." {
		t.Errorf("original reconstruction = %q", original)
	}
	if modified != "The feline sat." {
		t.Errorf("modified reconstruction = %q", modified)
	}

	var sawDelete, sawInsert bool
	for _, s := range spans {
		if s.Tag == TagDelete && strings.Contains(s.Text, "cat") {
			sawDelete = true
		}
		if s.Tag == TagInsert && strings.Contains(s.Text, "feline") {
			sawInsert = true
		}
	}
	if !sawDelete {
		t.Error("expected a delete span containing the replaced word")
	}
	if !sawInsert {
		t.Error("expected an insert span containing the replacement word")
	}
}

func TestCompute_Totality(t *testing.T) {
	cases := []struct {
		name     string
		original string
		modified string
	}{
		{"append sentence", "First sentence.", "First sentence. Second sentence."},
		{"prepend", "body text", "Title\n\nbody text"},
		{"whitespace change", "a  b", "a b"},
		{"multiline edit", "line one\nline two\nline three", "line one\nline 2\nline three"},
		{"unicode", "café über naïve", "cafe über naïve résumé"},
		{"total rewrite", "completely different", "nothing shared here at all"},
		{"trailing newline", "text", "text\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spans := Compute(tc.original, tc.modified)
			original, modified := reconstruct(spans)
			if original != tc.original {
				t.Errorf("original reconstruction = %q, want %q", original, tc.original)
			}
			if modified != tc.modified {
				t.Errorf("modified reconstruction = %q, want %q", modified, tc.modified)
			}
		})
	}
}

func TestCompute_AdjacentSpansMerged(t *testing.T) {
	spans := Compute("one two three", "one TWO THREE")
	for i := 1; i < len(spans); i++ {
		if spans[i].Tag == spans[i-1].Tag {
			t.Errorf("spans %d and %d share tag %q; should be merged", i-1, i, spans[i].Tag)
		}
	}
}

func TestCompute_NoEmptySpans(t *testing.T) {
	spans := Compute("The quick brown fox", "The slow brown wolf")
	for i, s := range spans {
		if s.Text == "" {
			t.Errorf("span %d has empty text", i)
		}
	}
}
