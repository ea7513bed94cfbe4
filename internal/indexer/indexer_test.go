package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"photo-picker/internal/database"
	"photo-picker/internal/library"
)

func newTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.New(context.Background(), filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestScanIndexesLibrary(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "IMG_0001.jpg"))
	writeFile(t, filepath.Join(root, "Trips", "beach.jpg"))
	writeFile(t, filepath.Join(root, "Trips", "surf.mp4"))
	writeFile(t, filepath.Join(root, "Trips", "Nested", "deep.jpg"))
	writeFile(t, filepath.Join(root, "notes.txt"))          // non-media, skipped
	writeFile(t, filepath.Join(root, ".hidden", "x.jpg"))   // hidden dir, skipped
	writeFile(t, filepath.Join(root, "Trips", "~tmp.jpg"))  // temp file, skipped

	db := newTestDB(t)
	idx := New(db, root, time.Hour)
	if err := idx.Scan(context.Background()); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	ctx := context.Background()
	total, err := db.TotalAssets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if total != 4 {
		t.Fatalf("TotalAssets() = %d, want 4", total)
	}

	albums, err := db.Albums(ctx)
	if err != nil {
		t.Fatal(err)
	}

	byName := map[string]library.AlbumInfo{}
	for _, a := range albums {
		byName[a.Name] = a
	}

	trips, ok := byName["Trips"]
	if !ok {
		t.Fatal("Trips album not indexed")
	}
	if trips.Kind != library.AlbumUser {
		t.Errorf("Trips kind = %q, want %q", trips.Kind, library.AlbumUser)
	}
	if trips.AssetCount != 2 {
		t.Errorf("Trips count = %d, want 2", trips.AssetCount)
	}

	nested, ok := byName["Trips/Nested"]
	if !ok {
		t.Fatal("nested folder grouping not indexed")
	}
	if nested.Kind != library.AlbumFolder {
		t.Errorf("nested kind = %q, want %q", nested.Kind, library.AlbumFolder)
	}
}

func TestScanPrunesDeletedFiles(t *testing.T) {
	root := t.TempDir()
	keep := filepath.Join(root, "keep.jpg")
	gone := filepath.Join(root, "gone.jpg")
	writeFile(t, keep)
	writeFile(t, gone)

	db := newTestDB(t)
	idx := New(db, root, time.Hour)
	ctx := context.Background()

	if err := idx.Scan(ctx); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(gone); err != nil {
		t.Fatal(err)
	}
	if err := idx.Scan(ctx); err != nil {
		t.Fatal(err)
	}

	total, err := db.TotalAssets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("TotalAssets() = %d after prune, want 1", total)
	}

	a, err := db.AllPhotos().AssetAt(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if a.Path != keep {
		t.Errorf("remaining asset = %s, want %s", a.Path, keep)
	}
}

func TestScanEmptyRoot(t *testing.T) {
	db := newTestDB(t)
	idx := New(db, t.TempDir(), time.Hour)

	if err := idx.Scan(context.Background()); err != nil {
		t.Fatalf("Scan() on empty root error = %v", err)
	}

	total, err := db.TotalAssets(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 {
		t.Errorf("TotalAssets() = %d, want 0", total)
	}
}

func TestTriggerCausesRescan(t *testing.T) {
	root := t.TempDir()
	db := newTestDB(t)
	idx := New(db, root, time.Hour)
	ctx := context.Background()

	if err := idx.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer idx.Stop()

	writeFile(t, filepath.Join(root, "late.jpg"))
	idx.Trigger()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		total, err := db.TotalAssets(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if total == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("asset not indexed after Trigger()")
}
