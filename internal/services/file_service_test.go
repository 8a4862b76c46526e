package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"testing"
)

func newFileService(t *testing.T, maxBytes int64) *FileService {
	t.Helper()
	return &FileService{
		DB:             newServiceDB(t),
		FilesDir:       t.TempDir(),
		MaxUploadBytes: maxBytes,
	}
}

func blobCount(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read blob dir: %v", err)
	}
	return len(entries)
}

func TestStoreUpload_RoundTrip(t *testing.T) {
	svc := newFileService(t, 1<<30)
	payload := bytes.Repeat([]byte("piratebox"), 5000)

	rec, err := svc.StoreUpload(context.Background(), bytes.NewReader(payload), "  report.pdf ")
	if err != nil {
		t.Fatalf("StoreUpload: %v", err)
	}
	if rec.ID == 0 {
		t.Error("record id not assigned")
	}
	if rec.OriginalName != "report.pdf" {
		t.Errorf("OriginalName = %q, want %q", rec.OriginalName, "report.pdf")
	}
	if rec.SizeBytes != int64(len(payload)) {
		t.Errorf("SizeBytes = %d, want %d", rec.SizeBytes, len(payload))
	}

	want := sha256.Sum256(payload)
	if rec.SHA256 != hex.EncodeToString(want[:]) {
		t.Errorf("SHA256 = %s, want %s", rec.SHA256, hex.EncodeToString(want[:]))
	}

	got, path, err := svc.Resolve(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.StoredName != rec.StoredName {
		t.Errorf("StoredName = %q, want %q", got.StoredName, rec.StoredName)
	}
	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read blob: %v", err)
	}
	if !bytes.Equal(onDisk, payload) {
		t.Error("blob bytes differ from uploaded payload")
	}
}

func TestStoreUpload_StoredNameIsOpaque(t *testing.T) {
	svc := newFileService(t, 1<<20)

	rec, err := svc.StoreUpload(context.Background(), bytes.NewReader([]byte("x")), "../../etc/passwd")
	if err != nil {
		t.Fatalf("StoreUpload: %v", err)
	}
	if len(rec.StoredName) != 32 {
		t.Errorf("StoredName length = %d, want 32", len(rec.StoredName))
	}
	for _, r := range rec.StoredName {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			t.Fatalf("StoredName contains non-hex rune %q", r)
		}
	}
}

func TestStoreUpload_EmptyNameRejected(t *testing.T) {
	svc := newFileService(t, 1<<20)

	for _, name := range []string{"", "   ", "\t"} {
		_, err := svc.StoreUpload(context.Background(), bytes.NewReader([]byte("x")), name)
		if !errors.Is(err, ErrInvalidFilename) {
			t.Errorf("StoreUpload(name=%q) err = %v, want ErrInvalidFilename", name, err)
		}
	}
	if n := blobCount(t, svc.FilesDir); n != 0 {
		t.Errorf("blob dir has %d entries, want 0", n)
	}
}

func TestStoreUpload_OversizeCleansUp(t *testing.T) {
	svc := newFileService(t, 64)
	payload := bytes.Repeat([]byte("a"), 65)

	_, err := svc.StoreUpload(context.Background(), bytes.NewReader(payload), "big.bin")
	if !errors.Is(err, ErrUploadTooLarge) {
		t.Fatalf("err = %v, want ErrUploadTooLarge", err)
	}
	if n := blobCount(t, svc.FilesDir); n != 0 {
		t.Errorf("partial blob left behind: %d entries", n)
	}

	files, err := svc.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("metadata recorded for rejected upload: %d rows", len(files))
	}
}

func TestStoreUpload_ExactLimitAccepted(t *testing.T) {
	svc := newFileService(t, 64)
	payload := bytes.Repeat([]byte("a"), 64)

	rec, err := svc.StoreUpload(context.Background(), bytes.NewReader(payload), "fits.bin")
	if err != nil {
		t.Fatalf("StoreUpload at exact limit: %v", err)
	}
	if rec.SizeBytes != 64 {
		t.Errorf("SizeBytes = %d, want 64", rec.SizeBytes)
	}
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestStoreUpload_ReadErrorCleansUp(t *testing.T) {
	svc := newFileService(t, 1<<20)
	boom := errors.New("connection reset")

	_, err := svc.StoreUpload(context.Background(), io.MultiReader(
		bytes.NewReader(bytes.Repeat([]byte("a"), 100)),
		failingReader{err: boom},
	), "partial.bin")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
	if n := blobCount(t, svc.FilesDir); n != 0 {
		t.Errorf("partial blob left behind: %d entries", n)
	}
}

func TestStoreUpload_CancelledContextCleansUp(t *testing.T) {
	svc := newFileService(t, 1<<20)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.StoreUpload(ctx, bytes.NewReader([]byte("data")), "cancelled.bin")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if n := blobCount(t, svc.FilesDir); n != 0 {
		t.Errorf("partial blob left behind: %d entries", n)
	}
}

func TestResolve_MissingRecord(t *testing.T) {
	svc := newFileService(t, 1<<20)

	_, _, err := svc.Resolve(context.Background(), 9999)
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("err = %v, want ErrFileNotFound", err)
	}
}

func TestResolve_MissingBlob(t *testing.T) {
	svc := newFileService(t, 1<<20)

	rec, err := svc.StoreUpload(context.Background(), bytes.NewReader([]byte("x")), "gone.bin")
	if err != nil {
		t.Fatalf("StoreUpload: %v", err)
	}
	_, path, err := svc.Resolve(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove blob: %v", err)
	}

	_, _, err = svc.Resolve(context.Background(), rec.ID)
	if !errors.Is(err, ErrBlobMissing) {
		t.Fatalf("err = %v, want ErrBlobMissing", err)
	}
}

func TestList_NewestFirst(t *testing.T) {
	svc := newFileService(t, 1<<20)

	for _, name := range []string{"one.txt", "two.txt", "three.txt"} {
		if _, err := svc.StoreUpload(context.Background(), bytes.NewReader([]byte(name)), name); err != nil {
			t.Fatalf("StoreUpload(%s): %v", name, err)
		}
	}

	files, err := svc.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("len = %d, want 3", len(files))
	}
	if files[0].OriginalName != "three.txt" {
		t.Errorf("first = %q, want newest %q", files[0].OriginalName, "three.txt")
	}
	for i := 1; i < len(files); i++ {
		if files[i-1].ID <= files[i].ID {
			t.Errorf("ids not descending at %d: %d then %d", i, files[i-1].ID, files[i].ID)
		}
	}
}
