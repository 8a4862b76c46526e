package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestInsertFile_AssignsIDAndTimestamp(t *testing.T) {
	db := newTestDB(t)

	start := time.Now().UTC().Add(-time.Minute)
	f, err := InsertFile(context.Background(), db, "report.pdf", "a1b2c3", 42, "deadbeef")
	if err != nil {
		t.Fatalf("InsertFile: %v", err)
	}
	if f.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if f.OriginalName != "report.pdf" || f.StoredName != "a1b2c3" || f.SizeBytes != 42 || f.SHA256 != "deadbeef" {
		t.Fatalf("unexpected fields: %+v", f)
	}
	if f.UploadedAt.Before(start) {
		t.Fatalf("UploadedAt seems unset: %v", f.UploadedAt)
	}
}

func TestGetFile_RoundTripAndNotFound(t *testing.T) {
	db := newTestDB(t)

	f, err := InsertFile(context.Background(), db, "a.bin", "stored-a", 1, "aa")
	if err != nil {
		t.Fatalf("InsertFile: %v", err)
	}

	got, err := GetFile(context.Background(), db, f.ID)
	if err != nil {
		t.Fatalf("GetFile: %v", err)
	}
	if got.StoredName != "stored-a" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}

	if _, err := GetFile(context.Background(), db, f.ID+1000); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListFiles_NewestFirstCapped(t *testing.T) {
	db := newTestDB(t)

	for i := 0; i < 5; i++ {
		if _, err := InsertFile(context.Background(), db, fmt.Sprintf("f%d", i), fmt.Sprintf("s%d", i), int64(i), "x"); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	files, err := ListFiles(context.Background(), db, 3)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(files))
	}
	for i := 1; i < len(files); i++ {
		if files[i-1].ID <= files[i].ID {
			t.Fatalf("not descending by id: %#v", files)
		}
	}
}

func TestListFiles_EmptyIsNotAnError(t *testing.T) {
	db := newTestDB(t)

	files, err := ListFiles(context.Background(), db, 10)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected empty slice, got %d", len(files))
	}
}

func TestInsertFile_DuplicateStoredNameRejected(t *testing.T) {
	db := newTestDB(t)

	if _, err := InsertFile(context.Background(), db, "a", "same-token", 1, "aa"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := InsertFile(context.Background(), db, "b", "same-token", 2, "bb"); err == nil {
		t.Fatal("expected unique index violation on stored_name")
	}
}
