package library

import (
	"context"
	"time"
)

// AlbumKind distinguishes groupings discovered in the library root.
type AlbumKind string

const (
	// AlbumUser is a user-created album: a top-level directory of assets.
	AlbumUser AlbumKind = "user"
	// AlbumFolder is a nested directory tree. Folders are not selectable
	// collections; the catalog logs and skips them.
	AlbumFolder AlbumKind = "folder"
)

// SmartKind identifies a predefined smart-album query.
type SmartKind string

const (
	// SmartVideos selects all video assets.
	SmartVideos SmartKind = "videos"
	// SmartRecents selects assets created within the last 30 days.
	SmartRecents SmartKind = "recents"
	// SmartScreenshots selects assets whose file name marks a screenshot.
	SmartScreenshots SmartKind = "screenshots"
)

// AlbumInfo describes one discovered grouping: its name, kind, current
// asset count, and the creation time of its newest asset (the "end date"
// the catalog sorts user albums by).
type AlbumInfo struct {
	Name       string    `json:"name"`
	Kind       AlbumKind `json:"kind"`
	AssetCount int       `json:"assetCount"`
	EndDate    time.Time `json:"endDate"`
}

// Store is the host media store contract. The production implementation is
// the SQLite index over the library root; the catalog, converter, and
// thumbnail generator consume it without knowing the backing.
type Store interface {
	// AllPhotos returns the full library sorted by creation time ascending.
	AllPhotos() AssetSource

	// Album returns the contents of a named user album, sorted by creation
	// time ascending.
	Album(name string) AssetSource

	// SmartAlbum returns the contents of a predefined smart-album query.
	SmartAlbum(kind SmartKind) AssetSource

	// Albums enumerates discovered groupings in store order.
	Albums(ctx context.Context) ([]AlbumInfo, error)

	// AssetByID resolves a single asset reference.
	AssetByID(ctx context.Context, id int64) (Asset, error)

	// AssetData returns the original bytes of an asset together with its
	// MIME type. The bytes are returned exactly as stored.
	AssetData(ctx context.Context, a Asset) ([]byte, string, error)
}
