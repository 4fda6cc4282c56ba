package ops

import (
	"database/sql"
	"strings"

	"github.com/avisser/redline/internal/config"
	"github.com/avisser/redline/internal/db"
	"github.com/avisser/redline/internal/document"
	"github.com/avisser/redline/internal/errors"
)

// SaveInput contains parameters for the Save operation.
type SaveInput struct {
	ID        string // required
	Title     string // required
	Content   string // required
	Published *bool  // optional; nil leaves the stored value unchanged
}

// SaveOutput contains the result of the Save operation.
type SaveOutput struct {
	ID        string `json:"id"`
	UpdatedAt int64  `json:"updated_at"`
}

// Save persists the current editor state over an existing document.
func Save(database *sql.DB, cfg *config.Config, input SaveInput) (*SaveOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	title := document.CleanTitle(input.Title)
	if err := document.ValidateSave(title, input.Content, cfg.DocumentMaxChars); err != nil {
		return nil, err
	}

	d, err := db.GetByID(database, id, false)
	if err != nil {
		return nil, err
	}

	d.Title = title
	d.Content = input.Content
	d.ContentChars = document.CountChars(input.Content)
	d.TokensEstimate = document.EstimateTokens(input.Content)
	if input.Published != nil {
		d.Published = *input.Published
	}

	if err := db.UpdateByID(database, d); err != nil {
		return nil, err
	}

	return &SaveOutput{
		ID:        d.ID,
		UpdatedAt: d.UpdatedAt,
	}, nil
}
