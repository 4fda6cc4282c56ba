package document

// Document is the authoritative text buffer being edited.
// There is exactly one authoritative Content per document at any instant;
// diff previews and proposal buffers are derived copies until merged.
type Document struct {
	// ID is a ULID that uniquely identifies this document.
	// It also keys history and transcript persistence.
	ID string `json:"id"`

	// Title is the human-readable article title
	Title string `json:"title"`

	// Content is the markdown body
	Content string `json:"content"`

	// ContentChars is the character count (runes, not bytes)
	ContentChars int `json:"content_chars"`

	// TokensEstimate is the estimated token count for collaborator
	// context budgeting
	TokensEstimate int `json:"tokens_estimate"`

	// Published indicates the article is live; false means draft
	Published bool `json:"published"`

	// CreatedAt is the Unix timestamp when the document was created
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp when the document was last saved
	UpdatedAt int64 `json:"updated_at"`

	// DeletedAt is the Unix timestamp for soft delete (nullable)
	DeletedAt *int64 `json:"deleted_at,omitempty"`
}

// Summary is the metadata view of a document used by list surfaces.
type Summary struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	ContentChars   int    `json:"content_chars"`
	TokensEstimate int    `json:"tokens_estimate"`
	Published      bool   `json:"published"`
	CreatedAt      int64  `json:"created_at"`
	UpdatedAt      int64  `json:"updated_at"`
	Deleted        bool   `json:"deleted,omitempty"`
}

// Range is a half-open [Start, End) byte-offset span into Document.Content,
// valid at the moment it was captured. It is not guaranteed to remain valid
// once Content changes; merges therefore apply against the snapshot the
// range was captured with, never the live document.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Valid reports whether the range is well-formed for content of the given length.
func (r Range) Valid(contentLen int) bool {
	return r.Start >= 0 && r.Start <= r.End && r.End <= contentLen
}

// Splice returns content with the span [r.Start, r.End) replaced by text.
// The caller must have checked Valid first.
func (r Range) Splice(content, text string) string {
	return content[:r.Start] + text + content[r.End:]
}
