package ops

import (
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/avisser/redline/internal/config"
	"github.com/avisser/redline/internal/db"
	"github.com/avisser/redline/internal/document"
	"github.com/avisser/redline/internal/errors"
)

// StoreInput contains parameters for the Store operation.
type StoreInput struct {
	Title     string // required
	Content   string // required
	Published bool
}

// StoreOutput contains the result of the Store operation.
type StoreOutput struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt int64  `json:"created_at"`
}

// Store creates a new document.
func Store(database *sql.DB, cfg *config.Config, input StoreInput) (*StoreOutput, error) {
	title := document.CleanTitle(input.Title)
	if err := document.ValidateSave(title, input.Content, cfg.DocumentMaxChars); err != nil {
		return nil, err
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now().Unix()
	d := &document.Document{
		ID:             id,
		Title:          title,
		Content:        input.Content,
		ContentChars:   document.CountChars(input.Content),
		TokensEstimate: document.EstimateTokens(input.Content),
		Published:      input.Published,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := db.Insert(database, d); err != nil {
		return nil, err
	}

	return &StoreOutput{
		ID:        id,
		Title:     title,
		CreatedAt: now,
	}, nil
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
