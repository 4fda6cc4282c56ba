package db

import (
	"fmt"
	"testing"
	"time"

	"github.com/avisser/redline/internal/document"
	"github.com/avisser/redline/internal/errors"
)

func testDoc(id, title, content string) *document.Document {
	now := time.Now().Unix()
	return &document.Document{
		ID:             id,
		Title:          title,
		Content:        content,
		ContentChars:   document.CountChars(content),
		TokensEstimate: document.EstimateTokens(content),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestInsertAndGetByID(t *testing.T) {
	database := testDB(t)

	d := testDoc("01TESTDOC0000000000000000A", "My Article", "The body.")
	if err := Insert(database, d); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := GetByID(database, d.ID, false)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "My Article" || got.Content != "The body." {
		t.Errorf("got %+v", got)
	}
	if got.Published {
		t.Error("Published should default to false")
	}
	if got.DeletedAt != nil {
		t.Error("DeletedAt should be nil for a fresh document")
	}
}

func TestInsert_DuplicateID(t *testing.T) {
	database := testDB(t)

	d := testDoc("01TESTDOC0000000000000000B", "A", "body")
	if err := Insert(database, d); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := Insert(database, d); err != ErrUniqueConstraint {
		t.Errorf("duplicate insert: err = %v, want ErrUniqueConstraint", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	database := testDB(t)

	_, err := GetByID(database, "missing", false)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestUpdateByID(t *testing.T) {
	database := testDB(t)

	d := testDoc("01TESTDOC0000000000000000C", "Before", "old body")
	if err := Insert(database, d); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	d.Title = "After"
	d.Content = "new body"
	d.Published = true
	if err := UpdateByID(database, d); err != nil {
		t.Fatalf("UpdateByID failed: %v", err)
	}

	got, err := GetByID(database, d.ID, false)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "After" || got.Content != "new body" || !got.Published {
		t.Errorf("got %+v", got)
	}
}

func TestUpdateByID_NotFound(t *testing.T) {
	database := testDB(t)

	d := testDoc("nonexistent", "x", "y")
	if err := UpdateByID(database, d); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestSoftDelete(t *testing.T) {
	database := testDB(t)

	d := testDoc("01TESTDOC0000000000000000D", "Doomed", "body")
	if err := Insert(database, d); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := SoftDelete(database, d.ID); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}

	if _, err := GetByID(database, d.ID, false); !errors.Is(err, errors.ErrNotFound) {
		t.Error("soft-deleted document should be hidden by default")
	}

	got, err := GetByID(database, d.ID, true)
	if err != nil {
		t.Fatalf("GetByID(includeDeleted) failed: %v", err)
	}
	if got.DeletedAt == nil {
		t.Error("DeletedAt should be set")
	}

	// Deleting again is NOT_FOUND (already deleted).
	if err := SoftDelete(database, d.ID); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second delete: err = %v, want NOT_FOUND", err)
	}
}

func TestPurge_RemovesDocumentAndTranscript(t *testing.T) {
	database := testDB(t)

	d := testDoc("01TESTDOC0000000000000000E", "Purged", "body")
	if err := Insert(database, d); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := database.Exec(
		"INSERT INTO messages (id, document_id, position, role, content, is_reply, is_error, created_at) VALUES (?, ?, 0, 'user', 'hi', 0, 0, ?)",
		"msg1", d.ID, time.Now().Unix(),
	); err != nil {
		t.Fatalf("seed message: %v", err)
	}

	if err := Purge(database, d.ID); err != nil {
		t.Fatalf("Purge failed: %v", err)
	}

	if _, err := GetByID(database, d.ID, true); !errors.Is(err, errors.ErrNotFound) {
		t.Error("purged document should be gone entirely")
	}

	var count int
	if err := database.QueryRow("SELECT COUNT(*) FROM messages WHERE document_id = ?", d.ID).Scan(&count); err != nil {
		t.Fatalf("count messages: %v", err)
	}
	if count != 0 {
		t.Errorf("messages remaining = %d, want 0", count)
	}
}

func TestList_PaginationAndOrder(t *testing.T) {
	database := testDB(t)

	for i := 0; i < 5; i++ {
		d := testDoc(fmt.Sprintf("01TESTDOC000000000000000%02d", i), fmt.Sprintf("Doc %d", i), "body")
		d.UpdatedAt = int64(1000 + i)
		if err := Insert(database, d); err != nil {
			t.Fatalf("Insert %d failed: %v", i, err)
		}
	}

	items, total, err := List(database, 2, 0, false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(items) != 2 {
		t.Fatalf("page size = %d, want 2", len(items))
	}
	if items[0].Title != "Doc 4" {
		t.Errorf("first item = %q, want most recently updated", items[0].Title)
	}

	items, _, err = List(database, 2, 4, false)
	if err != nil {
		t.Fatalf("List offset failed: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Doc 0" {
		t.Errorf("last page = %+v", items)
	}
}

func TestList_ExcludesDeleted(t *testing.T) {
	database := testDB(t)

	keep := testDoc("01TESTDOC000000000000000KE", "Keep", "body")
	gone := testDoc("01TESTDOC000000000000000GO", "Gone", "body")
	for _, d := range []*document.Document{keep, gone} {
		if err := Insert(database, d); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	if err := SoftDelete(database, gone.ID); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}

	items, total, err := List(database, 10, 0, false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Title != "Keep" {
		t.Errorf("items = %+v, total = %d", items, total)
	}

	items, total, err = List(database, 10, 0, true)
	if err != nil {
		t.Fatalf("List(includeDeleted) failed: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("includeDeleted: items = %d, total = %d", len(items), total)
	}
}
