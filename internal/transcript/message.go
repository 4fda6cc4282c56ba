package transcript

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser   Role = "user"
	RoleAI     Role = "ai"
	RoleSystem Role = "system"
)

// Known reports whether r is a recognized role.
func (r Role) Known() bool {
	return r == RoleUser || r == RoleAI || r == RoleSystem
}

// Message is one turn in a document's conversation log.
type Message struct {
	// ID is a ULID; creation order matches lexical order.
	ID string `json:"id"`

	// Role is the author: user, ai, or system.
	Role Role `json:"role"`

	// Content is the message body.
	Content string `json:"content"`

	// IsReply marks collaborator responses classified as conversational
	// (as opposed to edit proposals, which are recorded on resolution).
	IsReply bool `json:"is_reply,omitempty"`

	// IsError marks failure notices surfaced into the conversation.
	IsError bool `json:"is_error,omitempty"`

	// CreatedAt is the Unix timestamp of creation.
	CreatedAt int64 `json:"created_at"`
}

// NewMessage creates a message with a fresh ULID.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        newULID(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().Unix(),
	}
}

// NewErrorMessage creates the system-flagged error message used to surface
// gateway and persistence failures to the user.
func NewErrorMessage(content string) Message {
	m := NewMessage(RoleSystem, content)
	m.IsError = true
	return m
}

// newULID generates a new ULID, falling back to a timestamp-only ULID if
// the entropy source fails.
func newULID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return ulid.Make().String()
	}
	return id.String()
}
