package ops

import (
	"testing"

	"github.com/avisser/redline/internal/errors"
)

func TestDelete_SoftDeletes(t *testing.T) {
	database, cfg := testSetup(t)

	stored, err := Store(database, cfg, StoreInput{Title: "T", Content: "c"})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	out, err := Delete(database, DeleteInput{ID: stored.ID})
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !out.Deleted || out.ID != stored.ID {
		t.Errorf("out = %+v", out)
	}

	if _, err := Fetch(database, FetchInput{ID: stored.ID}); !errors.Is(err, errors.ErrNotFound) {
		t.Error("deleted document should not be fetchable by default")
	}

	fetched, err := Fetch(database, FetchInput{ID: stored.ID, IncludeDeleted: true})
	if err != nil {
		t.Fatalf("Fetch(IncludeDeleted) failed: %v", err)
	}
	if fetched.Document.DeletedAt == nil {
		t.Error("DeletedAt should be set")
	}
}

func TestDelete_MissingID(t *testing.T) {
	database, _ := testSetup(t)

	if _, err := Delete(database, DeleteInput{ID: ""}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestDelete_UnknownID(t *testing.T) {
	database, _ := testSetup(t)

	if _, err := Delete(database, DeleteInput{ID: "nope"}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestPurge_RemovesPermanently(t *testing.T) {
	database, cfg := testSetup(t)

	stored, err := Store(database, cfg, StoreInput{Title: "T", Content: "c"})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	out, err := Purge(database, PurgeInput{ID: stored.ID})
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if !out.Purged {
		t.Errorf("out = %+v", out)
	}

	if _, err := Fetch(database, FetchInput{ID: stored.ID, IncludeDeleted: true}); !errors.Is(err, errors.ErrNotFound) {
		t.Error("purged document should be gone even with IncludeDeleted")
	}
}

func TestPurge_WorksOnSoftDeleted(t *testing.T) {
	database, cfg := testSetup(t)

	stored, err := Store(database, cfg, StoreInput{Title: "T", Content: "c"})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if _, err := Delete(database, DeleteInput{ID: stored.ID}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := Purge(database, PurgeInput{ID: stored.ID}); err != nil {
		t.Fatalf("Purge after Delete failed: %v", err)
	}
}

func TestFetch_MissingID(t *testing.T) {
	database, _ := testSetup(t)

	if _, err := Fetch(database, FetchInput{ID: "  "}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}
