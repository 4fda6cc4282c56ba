package db

import (
	"database/sql"
	"strings"
	"time"

	"github.com/avisser/redline/internal/document"
	"github.com/avisser/redline/internal/errors"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.RedlineError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

// Insert stores a new document in the database.
func Insert(db *sql.DB, d *document.Document) error {
	query := `
		INSERT INTO documents (
			id, title, content, content_chars, tokens_estimate,
			published, created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL)
	`

	_, err := db.Exec(query,
		d.ID, d.Title, d.Content, d.ContentChars, d.TokensEstimate,
		boolToInt(d.Published), d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}

	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetByID retrieves a document by its ULID.
// If includeDeleted is false, soft-deleted documents are excluded.
func GetByID(db *sql.DB, id string, includeDeleted bool) (*document.Document, error) {
	query := `
		SELECT id, title, content, content_chars, tokens_estimate,
			published, created_at, updated_at, deleted_at
		FROM documents
		WHERE id = ?
	`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	row := db.QueryRow(query, id)
	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return d, nil
}

// List returns one page of document summaries ordered by most recently
// updated, plus the total count for pagination.
func List(db *sql.DB, limit, offset int, includeDeleted bool) ([]document.Summary, int, error) {
	where := " WHERE deleted_at IS NULL"
	if includeDeleted {
		where = ""
	}

	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM documents" + where).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `
		SELECT id, title, content_chars, tokens_estimate,
			published, created_at, updated_at, deleted_at
		FROM documents
	` + where + " ORDER BY updated_at DESC LIMIT ? OFFSET ?"

	rows, err := db.Query(query, limit, offset)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var items []document.Summary
	for rows.Next() {
		var (
			s         document.Summary
			published int
			deletedAt sql.NullInt64
		)
		err := rows.Scan(
			&s.ID, &s.Title, &s.ContentChars, &s.TokensEstimate,
			&published, &s.CreatedAt, &s.UpdatedAt, &deletedAt,
		)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		s.Published = published != 0
		s.Deleted = deletedAt.Valid
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return items, total, nil
}

// UpdateByID updates mutable fields of an existing document.
// Sets updated_at to current timestamp. Does NOT change id or created_at.
func UpdateByID(db *sql.DB, d *document.Document) error {
	now := time.Now().Unix()

	query := `
		UPDATE documents
		SET title = ?, content = ?, content_chars = ?,
			tokens_estimate = ?, published = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := db.Exec(query,
		d.Title, d.Content, d.ContentChars,
		d.TokensEstimate, boolToInt(d.Published), now,
		d.ID,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(d.ID)
	}

	d.UpdatedAt = now

	return nil
}

// SoftDelete marks a document as deleted by setting deleted_at.
// The transcript is kept so an undeleted document keeps its history.
func SoftDelete(db *sql.DB, id string) error {
	now := time.Now().Unix()

	query := `
		UPDATE documents
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := db.Exec(query, now, id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// Purge permanently removes a document and its transcript.
// Works on both active and soft-deleted documents.
func Purge(db *sql.DB, id string) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback()

	result, err := tx.Exec("DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return errors.NewInternal(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}

	if _, err := tx.Exec("DELETE FROM messages WHERE document_id = ?", id); err != nil {
		return errors.NewInternal(err)
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// scanDocument scans a single row into a Document struct.
func scanDocument(row *sql.Row) (*document.Document, error) {
	var (
		d         document.Document
		published int
		deletedAt sql.NullInt64
	)

	err := row.Scan(
		&d.ID, &d.Title, &d.Content, &d.ContentChars, &d.TokensEstimate,
		&published, &d.CreatedAt, &d.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	d.Published = published != 0
	if deletedAt.Valid {
		d.DeletedAt = &deletedAt.Int64
	}

	return &d, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
