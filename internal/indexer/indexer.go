package indexer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"photo-picker/internal/database"
	"photo-picker/internal/library"
	"photo-picker/internal/logging"
	"photo-picker/internal/metrics"
)

// defaultInterval is the periodic rescan interval when none is configured.
const defaultInterval = 30 * time.Minute

// Indexer keeps the SQLite index in sync with the library root.
type Indexer struct {
	db       *database.Database
	root     string
	interval time.Duration

	trigger chan struct{}
	stop    chan struct{}
	done    chan struct{}

	mu       sync.Mutex
	scanning bool
	lastScan time.Time
}

// New creates an Indexer for the library rooted at root.
func New(db *database.Database, root string, interval time.Duration) *Indexer {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Indexer{
		db:       db,
		root:     root,
		interval: interval,
		trigger:  make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the initial scan synchronously, then rescans in the
// background on the configured interval and on Trigger.
func (idx *Indexer) Start(ctx context.Context) error {
	if err := idx.Scan(ctx); err != nil {
		return fmt.Errorf("initial library scan failed: %w", err)
	}

	go idx.loop(ctx)
	return nil
}

// Stop halts background rescans.
func (idx *Indexer) Stop() {
	close(idx.stop)
	<-idx.done
}

// Trigger requests a rescan. Signals arriving while a rescan is already
// pending are coalesced.
func (idx *Indexer) Trigger() {
	select {
	case idx.trigger <- struct{}{}:
	default:
	}
}

// LastScan returns when the most recent scan completed.
func (idx *Indexer) LastScan() time.Time {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.lastScan
}

func (idx *Indexer) loop(ctx context.Context) {
	defer close(idx.done)

	ticker := time.NewTicker(idx.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
		case <-idx.trigger:
		case <-idx.stop:
			return
		case <-ctx.Done():
			return
		}

		if err := idx.Scan(ctx); err != nil {
			logging.Error("Library rescan failed: %v", err)
		}
	}
}

// Scan walks the library root, upserting every media file it finds and
// pruning index rows whose files have vanished. Concurrent calls collapse:
// a scan that finds another in flight returns immediately.
func (idx *Indexer) Scan(ctx context.Context) error {
	idx.mu.Lock()
	if idx.scanning {
		idx.mu.Unlock()
		logging.Debug("Scan already in progress, skipping")
		return nil
	}
	idx.scanning = true
	idx.mu.Unlock()

	defer func() {
		idx.mu.Lock()
		idx.scanning = false
		idx.lastScan = time.Now()
		idx.mu.Unlock()
	}()

	start := time.Now()
	generation := start.UnixNano()
	var files int

	err := filepath.WalkDir(idx.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A directory that disappeared mid-walk is normal churn.
			logging.Warn("Scan error at %s: %v", path, err)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		name := d.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~") {
			if d.IsDir() && path != idx.root {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		kind := library.KindForPath(path)
		if kind == library.KindOther {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logging.Warn("Failed to stat %s: %v", path, err)
			return nil
		}

		album, albumKind := idx.classify(path)
		asset := library.Asset{
			Name:      name,
			Path:      path,
			Album:     album,
			Kind:      kind,
			MimeType:  library.MimeTypeForPath(path),
			Size:      info.Size(),
			CreatedAt: creationTime(info),
		}

		if err := idx.db.UpsertAsset(ctx, asset, albumKind, generation); err != nil {
			return err
		}
		files++
		return nil
	})

	if err != nil {
		metrics.IndexRunsTotal.WithLabelValues("error").Inc()
		return err
	}

	pruned, err := idx.db.PruneBefore(ctx, generation)
	if err != nil {
		metrics.IndexRunsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.IndexRunsTotal.WithLabelValues("success").Inc()
	metrics.AssetsIndexed.Set(float64(files))
	logging.Info("Library scan complete: %d assets, %d pruned, took %s", files, pruned, time.Since(start).Round(time.Millisecond))
	return nil
}

// classify maps a file path to its grouping. Files directly under the
// root have no album; a single directory level is a user album; anything
// deeper is a folder grouping the catalog skips.
func (idx *Indexer) classify(path string) (string, library.AlbumKind) {
	rel, err := filepath.Rel(idx.root, path)
	if err != nil {
		return "", library.AlbumUser
	}
	dir := filepath.Dir(rel)
	if dir == "." {
		return "", library.AlbumUser
	}
	if !strings.Contains(dir, string(filepath.Separator)) {
		return dir, library.AlbumUser
	}
	return filepath.ToSlash(dir), library.AlbumFolder
}

// creationTime approximates asset creation time. Plain mod time is the
// portable choice; media stores that preserve timestamps on import keep
// this accurate enough for album ordering.
func creationTime(info os.FileInfo) time.Time {
	return info.ModTime().UTC()
}
