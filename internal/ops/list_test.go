package ops

import (
	"fmt"
	"testing"
)

func TestList_DefaultsAndPagination(t *testing.T) {
	database, cfg := testSetup(t)

	for i := 0; i < 25; i++ {
		if _, err := Store(database, cfg, StoreInput{
			Title:   fmt.Sprintf("Doc %d", i),
			Content: "body",
		}); err != nil {
			t.Fatalf("Store %d failed: %v", i, err)
		}
	}

	out, err := List(database, ListInput{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out.Items) != DefaultListLimit {
		t.Errorf("len = %d, want default limit %d", len(out.Items), DefaultListLimit)
	}
	if out.Pagination.Total != 25 || !out.Pagination.HasMore {
		t.Errorf("pagination = %+v", out.Pagination)
	}
	if out.Sort != "updated_at_desc" {
		t.Errorf("Sort = %q", out.Sort)
	}

	out, err = List(database, ListInput{Limit: 10, Offset: 20})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out.Items) != 5 || out.Pagination.HasMore {
		t.Errorf("last page: len=%d hasMore=%v", len(out.Items), out.Pagination.HasMore)
	}
}

func TestList_ClampsLimit(t *testing.T) {
	database, cfg := testSetup(t)

	if _, err := Store(database, cfg, StoreInput{Title: "T", Content: "c"}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	out, err := List(database, ListInput{Limit: 5000})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if out.Pagination.Limit != MaxListLimit {
		t.Errorf("Limit = %d, want clamped to %d", out.Pagination.Limit, MaxListLimit)
	}
}

func TestList_EmptyIsArrayNotNil(t *testing.T) {
	database, _ := testSetup(t)

	out, err := List(database, ListInput{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if out.Items == nil {
		t.Error("Items must serialize as [], not null")
	}
	if out.Pagination.Total != 0 || out.Pagination.HasMore {
		t.Errorf("pagination = %+v", out.Pagination)
	}
}

func TestList_IncludeDeleted(t *testing.T) {
	database, cfg := testSetup(t)

	stored, err := Store(database, cfg, StoreInput{Title: "Gone", Content: "c"})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if _, err := Delete(database, DeleteInput{ID: stored.ID}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	out, err := List(database, ListInput{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out.Items) != 0 {
		t.Errorf("deleted document leaked into default listing: %+v", out.Items)
	}

	out, err = List(database, ListInput{IncludeDeleted: true})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out.Items) != 1 || !out.Items[0].Deleted {
		t.Errorf("items = %+v", out.Items)
	}
}
