package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"photo-picker/internal/library"
)

// recentsWindow is how far back the Recents smart album reaches.
const recentsWindow = 30 * 24 * time.Hour

const assetColumns = "id, name, path, album, kind, mime_type, size, created_at"

func scanAsset(row interface{ Scan(...any) error }) (library.Asset, error) {
	var a library.Asset
	var created int64
	var kind string
	err := row.Scan(&a.ID, &a.Name, &a.Path, &a.Album, &kind, &a.MimeType, &a.Size, &created)
	if err != nil {
		return library.Asset{}, err
	}
	a.Kind = library.MediaKind(kind)
	a.CreatedAt = time.Unix(created, 0).UTC()
	return a, nil
}

// UpsertAsset inserts or refreshes one indexed asset, stamping it with the
// current scan generation so PruneBefore can drop vanished files.
func (d *Database) UpsertAsset(ctx context.Context, a library.Asset, albumKind library.AlbumKind, generation int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := d.db.ExecContext(ctx, `
		INSERT INTO assets (name, path, album, album_kind, kind, mime_type, size, created_at, scan_generation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			name = excluded.name,
			album = excluded.album,
			album_kind = excluded.album_kind,
			kind = excluded.kind,
			mime_type = excluded.mime_type,
			size = excluded.size,
			created_at = excluded.created_at,
			scan_generation = excluded.scan_generation`,
		a.Name, a.Path, a.Album, string(albumKind), string(a.Kind), a.MimeType, a.Size, a.CreatedAt.Unix(), generation)
	if err != nil {
		return fmt.Errorf("failed to upsert asset %s: %w", a.Path, err)
	}
	return nil
}

// PruneBefore removes assets not seen by the given scan generation and
// returns how many rows were dropped.
func (d *Database) PruneBefore(ctx context.Context, generation int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := d.db.ExecContext(ctx, `DELETE FROM assets WHERE scan_generation < ?`, generation)
	if err != nil {
		return 0, fmt.Errorf("failed to prune stale assets: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

// TotalAssets returns the number of indexed assets.
func (d *Database) TotalAssets(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assets`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count assets: %w", err)
	}
	return n, nil
}

// Albums enumerates discovered groupings: one row per album, newest-asset
// date ascending, the order the catalog presents user albums in.
func (d *Database) Albums(ctx context.Context) ([]library.AlbumInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, `
		SELECT album, album_kind, COUNT(*), MAX(created_at)
		FROM assets
		WHERE album != ''
		GROUP BY album, album_kind
		ORDER BY MAX(created_at) ASC, album ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate albums: %w", err)
	}
	defer rows.Close()

	var albums []library.AlbumInfo
	for rows.Next() {
		var info library.AlbumInfo
		var kind string
		var end int64
		if err := rows.Scan(&info.Name, &kind, &info.AssetCount, &end); err != nil {
			return nil, fmt.Errorf("failed to scan album row: %w", err)
		}
		info.Kind = library.AlbumKind(kind)
		info.EndDate = time.Unix(end, 0).UTC()
		albums = append(albums, info)
	}
	return albums, rows.Err()
}

// AssetByID resolves a single asset reference.
func (d *Database) AssetByID(ctx context.Context, id int64) (library.Asset, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := d.db.QueryRowContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE id = ?`, id)
	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return library.Asset{}, fmt.Errorf("asset %d not found: %w", id, err)
	}
	if err != nil {
		return library.Asset{}, fmt.Errorf("failed to load asset %d: %w", id, err)
	}
	return a, nil
}

// AssetData returns the asset's original bytes and MIME type. Bytes are
// read from the library root exactly as stored; nothing is re-encoded.
func (d *Database) AssetData(ctx context.Context, a library.Asset) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read asset %s: %w", a.Path, err)
	}

	mimeType := a.MimeType
	if mimeType == "" {
		mimeType = library.MimeTypeForPath(a.Path)
	}
	return data, mimeType, nil
}

// querySource is a lazily counted AssetSource over a WHERE clause. Counts
// and offsets are evaluated per call; the indexer may change results
// between calls, which callers tolerate by re-fetching on notification.
type querySource struct {
	db    *Database
	where string
	args  func() []any
}

func (s *querySource) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int
	query := `SELECT COUNT(*) FROM assets WHERE ` + s.where
	if err := s.db.db.QueryRowContext(ctx, query, s.args()...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count assets: %w", err)
	}
	return n, nil
}

func (s *querySource) AssetAt(ctx context.Context, i int) (library.Asset, error) {
	if i < 0 {
		return library.Asset{}, library.ErrIndexOutOfRange
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `SELECT ` + assetColumns + ` FROM assets WHERE ` + s.where +
		` ORDER BY created_at ASC, id ASC LIMIT 1 OFFSET ?`
	row := s.db.db.QueryRowContext(ctx, query, append(s.args(), i)...)

	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return library.Asset{}, library.ErrIndexOutOfRange
	}
	if err != nil {
		return library.Asset{}, fmt.Errorf("failed to load asset at %d: %w", i, err)
	}
	return a, nil
}

func staticArgs(args ...any) func() []any {
	return func() []any { return append([]any(nil), args...) }
}

// AllPhotos returns the full library sorted by creation time ascending.
func (d *Database) AllPhotos() library.AssetSource {
	return &querySource{db: d, where: `1=1`, args: staticArgs()}
}

// Album returns the contents of a named user album.
func (d *Database) Album(name string) library.AssetSource {
	return &querySource{db: d, where: `album = ?`, args: staticArgs(name)}
}

// SmartAlbum returns the contents of a predefined smart-album query.
// Unknown kinds yield an empty source, which the catalog drops.
func (d *Database) SmartAlbum(kind library.SmartKind) library.AssetSource {
	switch kind {
	case library.SmartVideos:
		return &querySource{db: d, where: `kind = ?`, args: staticArgs(string(library.KindVideo))}
	case library.SmartRecents:
		return &querySource{
			db:    d,
			where: `created_at >= ?`,
			// Evaluated per query so the window tracks wall-clock time.
			args: func() []any { return []any{time.Now().Add(-recentsWindow).Unix()} },
		}
	case library.SmartScreenshots:
		return &querySource{db: d, where: `name LIKE 'Screenshot%'`, args: staticArgs()}
	default:
		return &querySource{db: d, where: `1=0`, args: staticArgs()}
	}
}
