package ops

import (
	"database/sql"
	"strings"

	"github.com/avisser/redline/internal/db"
	"github.com/avisser/redline/internal/document"
	"github.com/avisser/redline/internal/errors"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID             string
	IncludeDeleted bool
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	Document *document.Document `json:"document"`
}

// Fetch retrieves a document by ID.
func Fetch(database *sql.DB, input FetchInput) (*FetchOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	d, err := db.GetByID(database, id, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	return &FetchOutput{Document: d}, nil
}
