package ops

import (
	"strings"
	"testing"

	"github.com/avisser/redline/internal/errors"
)

func TestSave_UpdatesDocument(t *testing.T) {
	database, cfg := testSetup(t)

	stored, err := Store(database, cfg, StoreInput{Title: "Before", Content: "old"})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	out, err := Save(database, cfg, SaveInput{
		ID:      stored.ID,
		Title:   "After",
		Content: "new body",
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if out.ID != stored.ID {
		t.Errorf("ID = %q, want %q", out.ID, stored.ID)
	}

	fetched, err := Fetch(database, FetchInput{ID: stored.ID})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fetched.Document.Title != "After" || fetched.Document.Content != "new body" {
		t.Errorf("document = %+v", fetched.Document)
	}
}

func TestSave_PublishedNilLeavesUnchanged(t *testing.T) {
	database, cfg := testSetup(t)

	stored, err := Store(database, cfg, StoreInput{Title: "T", Content: "c", Published: true})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if _, err := Save(database, cfg, SaveInput{ID: stored.ID, Title: "T", Content: "c2"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	fetched, err := Fetch(database, FetchInput{ID: stored.ID})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !fetched.Document.Published {
		t.Error("Published should survive a save that omits it")
	}

	unpublish := false
	if _, err := Save(database, cfg, SaveInput{ID: stored.ID, Title: "T", Content: "c3", Published: &unpublish}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	fetched, err = Fetch(database, FetchInput{ID: stored.ID})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fetched.Document.Published {
		t.Error("explicit Published=false should unpublish")
	}
}

func TestSave_MissingID(t *testing.T) {
	database, cfg := testSetup(t)

	_, err := Save(database, cfg, SaveInput{ID: " ", Title: "T", Content: "c"})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestSave_UnknownID(t *testing.T) {
	database, cfg := testSetup(t)

	_, err := Save(database, cfg, SaveInput{ID: "01UNKNOWN00000000000000000", Title: "T", Content: "c"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestSave_ContentTooLarge(t *testing.T) {
	database, cfg := testSetup(t)

	stored, err := Store(database, cfg, StoreInput{Title: "T", Content: "c"})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	cfg.DocumentMaxChars = 5
	_, err = Save(database, cfg, SaveInput{ID: stored.ID, Title: "T", Content: strings.Repeat("x", 6)})
	if !errors.Is(err, errors.ErrDocumentTooLarge) {
		t.Errorf("err = %v, want DOCUMENT_TOO_LARGE", err)
	}
}
