package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"photo-picker/internal/library"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := New(context.Background(), filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return db
}

func seedAsset(t *testing.T, db *Database, name, album string, kind library.MediaKind, created time.Time) {
	t.Helper()
	a := library.Asset{
		Name:      name,
		Path:      "/library/" + album + "/" + name,
		Album:     album,
		Kind:      kind,
		MimeType:  library.MimeTypeForPath(name),
		Size:      1,
		CreatedAt: created,
	}
	if album == "" {
		a.Path = "/library/" + name
	}
	if err := db.UpsertAsset(context.Background(), a, library.AlbumUser, 1); err != nil {
		t.Fatalf("UpsertAsset(%s) error = %v", name, err)
	}
}

func TestAllPhotosOrderedByCreation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	seedAsset(t, db, "b.jpg", "", library.KindImage, base.Add(2*time.Hour))
	seedAsset(t, db, "a.jpg", "", library.KindImage, base)
	seedAsset(t, db, "c.mov", "", library.KindVideo, base.Add(4*time.Hour))

	src := db.AllPhotos()
	n, err := src.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 3 {
		t.Fatalf("Count() = %d, want 3", n)
	}

	want := []string{"a.jpg", "b.jpg", "c.mov"}
	for i, name := range want {
		a, err := src.AssetAt(ctx, i)
		if err != nil {
			t.Fatalf("AssetAt(%d) error = %v", i, err)
		}
		if a.Name != name {
			t.Errorf("AssetAt(%d).Name = %q, want %q", i, a.Name, name)
		}
	}
}

func TestAssetAtOutOfRange(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedAsset(t, db, "a.jpg", "", library.KindImage, time.Now())

	src := db.AllPhotos()
	for _, i := range []int{-1, 1, 100} {
		if _, err := src.AssetAt(ctx, i); !errors.Is(err, library.ErrIndexOutOfRange) {
			t.Errorf("AssetAt(%d) error = %v, want ErrIndexOutOfRange", i, err)
		}
	}
}

func TestAlbumsOrderedByEndDate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// "Trips" has the newer newest asset, so it sorts after "Pets".
	seedAsset(t, db, "dog.jpg", "Pets", library.KindImage, base)
	seedAsset(t, db, "old.jpg", "Trips", library.KindImage, base.Add(-48*time.Hour))
	seedAsset(t, db, "new.jpg", "Trips", library.KindImage, base.Add(24*time.Hour))
	seedAsset(t, db, "loose.jpg", "", library.KindImage, base)

	albums, err := db.Albums(ctx)
	if err != nil {
		t.Fatalf("Albums() error = %v", err)
	}
	if len(albums) != 2 {
		t.Fatalf("Albums() returned %d albums, want 2 (loose files excluded)", len(albums))
	}
	if albums[0].Name != "Pets" || albums[1].Name != "Trips" {
		t.Errorf("album order = [%s, %s], want [Pets, Trips]", albums[0].Name, albums[1].Name)
	}
	if albums[1].AssetCount != 2 {
		t.Errorf("Trips AssetCount = %d, want 2", albums[1].AssetCount)
	}
	if want := base.Add(24 * time.Hour); !albums[1].EndDate.Equal(want) {
		t.Errorf("Trips EndDate = %v, want %v", albums[1].EndDate, want)
	}
}

func TestSmartAlbums(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	seedAsset(t, db, "old.jpg", "", library.KindImage, now.Add(-90*24*time.Hour))
	seedAsset(t, db, "fresh.jpg", "", library.KindImage, now.Add(-time.Hour))
	seedAsset(t, db, "clip.mp4", "", library.KindVideo, now.Add(-time.Hour))
	seedAsset(t, db, "Screenshot 2025-06-01.png", "", library.KindImage, now.Add(-90*24*time.Hour))

	tests := []struct {
		kind library.SmartKind
		want int
	}{
		{library.SmartVideos, 1},
		{library.SmartRecents, 2},
		{library.SmartScreenshots, 1},
		{library.SmartKind("bogus"), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			n, err := db.SmartAlbum(tt.kind).Count(ctx)
			if err != nil {
				t.Fatalf("Count() error = %v", err)
			}
			if n != tt.want {
				t.Errorf("Count() = %d, want %d", n, tt.want)
			}
		})
	}
}

func TestPruneBefore(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now()

	a := library.Asset{Name: "keep.jpg", Path: "/library/keep.jpg", Kind: library.KindImage, CreatedAt: now}
	b := library.Asset{Name: "gone.jpg", Path: "/library/gone.jpg", Kind: library.KindImage, CreatedAt: now}
	if err := db.UpsertAsset(ctx, a, library.AlbumUser, 2); err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertAsset(ctx, b, library.AlbumUser, 1); err != nil {
		t.Fatal(err)
	}

	dropped, err := db.PruneBefore(ctx, 2)
	if err != nil {
		t.Fatalf("PruneBefore() error = %v", err)
	}
	if dropped != 1 {
		t.Errorf("PruneBefore() dropped %d rows, want 1", dropped)
	}

	total, err := db.TotalAssets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("TotalAssets() = %d, want 1", total)
	}
}

func TestUpsertRefreshesExisting(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	a := library.Asset{Name: "a.jpg", Path: "/library/a.jpg", Kind: library.KindImage, Size: 10, CreatedAt: now}
	if err := db.UpsertAsset(ctx, a, library.AlbumUser, 1); err != nil {
		t.Fatal(err)
	}
	a.Size = 20
	if err := db.UpsertAsset(ctx, a, library.AlbumUser, 2); err != nil {
		t.Fatal(err)
	}

	total, err := db.TotalAssets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Fatalf("TotalAssets() = %d, want 1 after re-upsert", total)
	}

	got, err := db.AllPhotos().AssetAt(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got.Size != 20 {
		t.Errorf("Size = %d, want 20 after refresh", got.Size)
	}
}

func TestAssetDataPassthrough(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "photo.jpg")
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02}
	if err := os.WriteFile(path, payload, 0644); err != nil {
		t.Fatal(err)
	}

	a := library.Asset{Name: "photo.jpg", Path: path, Kind: library.KindImage, MimeType: "image/jpeg", CreatedAt: time.Now()}
	data, mimeType, err := db.AssetData(ctx, a)
	if err != nil {
		t.Fatalf("AssetData() error = %v", err)
	}
	if string(data) != string(payload) {
		t.Error("AssetData() bytes differ from file contents")
	}
	if mimeType != "image/jpeg" {
		t.Errorf("AssetData() mime = %q, want image/jpeg", mimeType)
	}

	a.Path = filepath.Join(dir, "missing.jpg")
	if _, _, err := db.AssetData(ctx, a); err == nil {
		t.Error("AssetData() on missing file: error = nil, want error")
	}
}

// Compile-time check that Database satisfies the store contract.
var _ library.Store = (*Database)(nil)
