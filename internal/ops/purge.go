package ops

import (
	"database/sql"
	"strings"

	"github.com/avisser/redline/internal/db"
	"github.com/avisser/redline/internal/errors"
)

// PurgeInput contains parameters for the Purge operation.
type PurgeInput struct {
	ID string
}

// PurgeOutput contains the result of the Purge operation.
type PurgeOutput struct {
	Purged bool   `json:"purged"`
	ID     string `json:"id"`
}

// Purge permanently removes a document and its transcript.
// Unlike Delete this is irreversible; surfaces gate it behind confirmation.
func Purge(database *sql.DB, input PurgeInput) (*PurgeOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	if err := db.Purge(database, id); err != nil {
		return nil, err
	}

	return &PurgeOutput{
		Purged: true,
		ID:     id,
	}, nil
}
