package catalog

import (
	"context"
	"fmt"

	"photo-picker/internal/library"
	"photo-picker/internal/logging"
)

// AllPhotosTitle is the display title of the synthetic full-library entry.
const AllPhotosTitle = "All Photos"

// smartTitles maps smart-album kinds to display titles, in presentation
// order.
var smartOrder = []library.SmartKind{
	library.SmartVideos,
	library.SmartRecents,
	library.SmartScreenshots,
}

var smartTitles = map[library.SmartKind]string{
	library.SmartVideos:      "Videos",
	library.SmartRecents:     "Recents",
	library.SmartScreenshots: "Screenshots",
}

// Collection is a named grouping of assets. Two variants share the
// contract: the synthetic all-photos entry and a store-backed album.
type Collection interface {
	// ID is a stable identifier usable in URLs and lookups.
	ID() string

	// LocalizedTitle is the display name of the collection.
	LocalizedTitle() string

	// Contents returns a live view of the collection's assets.
	Contents() library.AssetSource
}

type collection struct {
	id     string
	title  string
	source library.AssetSource
}

func (c *collection) ID() string                   { return c.id }
func (c *collection) LocalizedTitle() string       { return c.title }
func (c *collection) Contents() library.AssetSource { return c.source }

// Catalog produces the ordered list of selectable collections.
type Catalog struct {
	store library.Store
}

// New creates a Catalog over the given store.
func New(store library.Store) *Catalog {
	return &Catalog{store: store}
}

// AllPhotos returns the synthetic full-library collection.
func (c *Catalog) AllPhotos() Collection {
	return &collection{id: "all", title: AllPhotosTitle, source: c.store.AllPhotos()}
}

// ByID resolves a collection identifier produced by AllCollections.
func (c *Catalog) ByID(ctx context.Context, id string) (Collection, error) {
	cols, err := c.AllCollections(ctx)
	if err != nil {
		return nil, err
	}
	for _, col := range cols {
		if col.ID() == id {
			return col, nil
		}
	}
	return nil, fmt.Errorf("no collection %q", id)
}

// AllCollections enumerates every selectable collection: all-photos
// first, then non-empty user albums in store order, then non-empty smart
// albums. Unsupported grouping kinds are skipped, never fatal.
func (c *Catalog) AllCollections(ctx context.Context) ([]Collection, error) {
	// The all-photos entry is never filtered, even over an empty store.
	collections := []Collection{c.AllPhotos()}

	albums, err := c.store.Albums(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate albums: %w", err)
	}

	for _, info := range albums {
		if info.Kind != library.AlbumUser {
			logging.Warn("Skipping unsupported collection kind %q for %q", info.Kind, info.Name)
			continue
		}

		source := c.store.Album(info.Name)
		n, err := source.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count album %q: %w", info.Name, err)
		}
		if n == 0 {
			continue
		}
		collections = append(collections, &collection{
			id:     "album:" + info.Name,
			title:  info.Name,
			source: source,
		})
	}

	for _, kind := range smartOrder {
		source := c.store.SmartAlbum(kind)
		n, err := source.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count smart album %q: %w", kind, err)
		}
		if n == 0 {
			continue
		}
		collections = append(collections, &collection{
			id:     "smart:" + string(kind),
			title:  smartTitles[kind],
			source: source,
		})
	}

	return collections, nil
}
