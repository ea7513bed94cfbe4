package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"photo-picker/internal/logging"
)

// defaultTimeout bounds individual index queries.
const defaultTimeout = 5 * time.Second

// Database is the SQLite-backed photo library index.
type Database struct {
	db     *sql.DB
	dbPath string
}

// New opens (or creates) the index at dbPath. The parent directory must
// already exist and be writable.
func New(ctx context.Context, dbPath string) (*Database, error) {
	logging.Info("Library index path: %s", dbPath)

	// WAL keeps readers unblocked while the indexer writes; busy_timeout
	// avoids "database is locked" under concurrent scans.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open library index: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close index after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to library index: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	d := &Database{db: db, dbPath: dbPath}
	if err := d.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close index after init failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize index schema: %w", err)
	}

	return d, nil
}

func (d *Database) initialize(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS assets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		path TEXT NOT NULL UNIQUE,
		album TEXT NOT NULL DEFAULT '',
		album_kind TEXT NOT NULL DEFAULT 'user',
		kind TEXT NOT NULL,
		mime_type TEXT NOT NULL DEFAULT '',
		size INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		scan_generation INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_assets_created ON assets(created_at, id);
	CREATE INDEX IF NOT EXISTS idx_assets_album ON assets(album, created_at);
	CREATE INDEX IF NOT EXISTS idx_assets_kind ON assets(kind, created_at);
	`

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return err
	}
	return nil
}

// Path returns the index file path.
func (d *Database) Path() string { return d.dbPath }

// Close closes the underlying connection pool.
func (d *Database) Close() error {
	return d.db.Close()
}
