package attachment

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestFromBytes(t *testing.T) {
	payload := []byte("jpeg bytes")
	a := FromBytes(payload, "image/jpeg", QualityMedium)

	if a.MimeType() != "image/jpeg" {
		t.Errorf("MimeType() = %q, want image/jpeg", a.MimeType())
	}
	if a.Quality() != QualityMedium {
		t.Errorf("Quality() = %q, want %q", a.Quality(), QualityMedium)
	}
	if a.Size() != int64(len(payload)) {
		t.Errorf("Size() = %d, want %d", a.Size(), len(payload))
	}
	if a.TempPath() != "" {
		t.Errorf("TempPath() = %q, want empty for in-memory payload", a.TempPath())
	}

	got, err := a.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Bytes() = %q, want %q (payload must pass through unchanged)", got, payload)
	}

	// Closing an in-memory attachment is a no-op.
	if err := a.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestFromTempFileOwnsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.mp4")
	if err := os.WriteFile(path, []byte("mp4 payload"), 0644); err != nil {
		t.Fatal(err)
	}

	a, err := FromTempFile(path, "video/mp4", QualityMedium)
	if err != nil {
		t.Fatalf("FromTempFile() error = %v", err)
	}
	if a.Size() != int64(len("mp4 payload")) {
		t.Errorf("Size() = %d, want %d", a.Size(), len("mp4 payload"))
	}

	got, err := a.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	if string(got) != "mp4 payload" {
		t.Errorf("Bytes() = %q, want %q", got, "mp4 payload")
	}

	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("backing file still exists after Close: stat err = %v", err)
	}

	// Second close must be a no-op, not a second delete attempt.
	if err := a.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestFromTempFileMissing(t *testing.T) {
	if _, err := FromTempFile(filepath.Join(t.TempDir(), "nope.mp4"), "video/mp4", QualityMedium); err == nil {
		t.Error("FromTempFile() on missing file: error = nil, want error")
	}
}

func TestCloseAll(t *testing.T) {
	dir := t.TempDir()
	alloc := NewTempAllocator(dir)
	paths := make([]string, 2)
	attachments := make([]*Attachment, 0, 3)

	for i := range paths {
		paths[i] = alloc.Path(".mp4")
		if err := os.WriteFile(paths[i], []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		a, err := FromTempFile(paths[i], "video/mp4", QualityMedium)
		if err != nil {
			t.Fatal(err)
		}
		attachments = append(attachments, a)
	}
	attachments = append(attachments, nil) // nil entries are tolerated

	if err := CloseAll(attachments); err != nil {
		t.Fatalf("CloseAll() error = %v", err)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("file %s still exists after CloseAll", p)
		}
	}
}

func TestTempAllocatorUniquePaths(t *testing.T) {
	alloc := NewTempAllocator(t.TempDir())
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		p := alloc.Path(".mp4")
		if seen[p] {
			t.Fatalf("duplicate temp path %s", p)
		}
		if filepath.Ext(p) != ".mp4" {
			t.Fatalf("Path(.mp4) = %s, want .mp4 extension", p)
		}
		seen[p] = true
	}
}
