package db

import (
	"database/sql"

	"github.com/avisser/redline/internal/errors"
	"github.com/avisser/redline/internal/transcript"
)

// ReplaceTranscript overwrites the stored conversation log for a document.
// Persistence is last-write-wins over the whole log, matching the debounced
// flush model: the newest in-memory state simply replaces what is stored.
func ReplaceTranscript(db *sql.DB, documentID string, msgs []transcript.Message) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages WHERE document_id = ?", documentID); err != nil {
		return errors.NewInternal(err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO messages (
			id, document_id, position, role, content, is_reply, is_error, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer stmt.Close()

	for i, m := range msgs {
		_, err := stmt.Exec(
			m.ID, documentID, i, string(m.Role), m.Content,
			boolToInt(m.IsReply), boolToInt(m.IsError), m.CreatedAt,
		)
		if err != nil {
			return errors.NewInternal(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// LoadTranscript returns the stored conversation log in insertion order.
// A document with no stored messages yields an empty slice, not an error.
func LoadTranscript(db *sql.DB, documentID string) ([]transcript.Message, error) {
	rows, err := db.Query(`
		SELECT id, role, content, is_reply, is_error, created_at
		FROM messages
		WHERE document_id = ?
		ORDER BY position ASC
	`, documentID)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var msgs []transcript.Message
	for rows.Next() {
		var (
			m       transcript.Message
			role    string
			isReply int
			isError int
		)
		if err := rows.Scan(&m.ID, &role, &m.Content, &isReply, &isError, &m.CreatedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		m.Role = transcript.Role(role)
		m.IsReply = isReply != 0
		m.IsError = isError != 0
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return msgs, nil
}
