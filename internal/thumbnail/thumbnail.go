package thumbnail

import (
	"bytes"
	"context"
	"crypto/md5"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"photo-picker/internal/library"
	"photo-picker/internal/logging"
	"photo-picker/internal/metrics"
	"photo-picker/internal/task"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// DefaultSize is the bounding box used when a request passes size <= 0.
const DefaultSize = 200

// jpegQuality is the encode quality for cached thumbnails.
const jpegQuality = 80

// Generator renders and caches asset thumbnails.
type Generator struct {
	cacheDir string
	enabled  bool
	mu       sync.Mutex
}

// New creates a Generator caching into cacheDir. When disabled, every
// request settles with an error and callers fall back to placeholders.
func New(cacheDir string, enabled bool) *Generator {
	if enabled {
		logging.Debug("Thumbnail generator enabled, cache dir: %s", cacheDir)
		if err := os.MkdirAll(cacheDir, 0755); err != nil {
			logging.Warn("Failed to create thumbnail cache dir: %v", err)
		}
	} else {
		logging.Debug("Thumbnail generator disabled")
	}
	return &Generator{cacheDir: cacheDir, enabled: enabled}
}

// IsEnabled reports whether thumbnail generation is on.
func (g *Generator) IsEnabled() bool { return g.enabled }

// Request renders a thumbnail asynchronously. The result is advisory:
// callers substitute a placeholder on error instead of failing their own
// rendering.
func (g *Generator) Request(ctx context.Context, a library.Asset, size int) *task.Task[[]byte] {
	return task.Go(ctx, func(ctx context.Context) ([]byte, error) {
		return g.Get(ctx, a, size)
	})
}

// Get renders (or serves from cache) a JPEG thumbnail fitting a size×size
// bounding box.
func (g *Generator) Get(ctx context.Context, a library.Asset, size int) ([]byte, error) {
	if !g.enabled {
		return nil, fmt.Errorf("thumbnails disabled")
	}
	if size <= 0 {
		size = DefaultSize
	}

	if _, err := os.Stat(a.Path); err != nil {
		metrics.ThumbnailsTotal.WithLabelValues("generated", "error").Inc()
		return nil, fmt.Errorf("asset not accessible: %w", err)
	}

	cachePath := g.cachePath(a.Path, size)
	if data, err := os.ReadFile(cachePath); err == nil {
		metrics.ThumbnailsTotal.WithLabelValues("cache", "success").Inc()
		logging.Debug("Thumbnail cache hit: %s", a.Path)
		return data, nil
	}

	// Generation is serialized: thumbnails are cheap individually but a
	// grid fling can request dozens at once.
	g.mu.Lock()
	defer g.mu.Unlock()

	if data, err := os.ReadFile(cachePath); err == nil {
		metrics.ThumbnailsTotal.WithLabelValues("cache", "success").Inc()
		return data, nil
	}

	start := time.Now()
	data, err := g.generate(ctx, a, size)
	if err != nil {
		metrics.ThumbnailsTotal.WithLabelValues("generated", "error").Inc()
		return nil, err
	}
	metrics.ThumbnailsTotal.WithLabelValues("generated", "success").Inc()
	metrics.ThumbnailDuration.Observe(time.Since(start).Seconds())

	if err := os.WriteFile(cachePath, data, 0644); err != nil {
		logging.Warn("Failed to cache thumbnail %s: %v", cachePath, err)
	}
	return data, nil
}

func (g *Generator) cachePath(assetPath string, size int) string {
	hash := md5.Sum([]byte(fmt.Sprintf("%s|%d", assetPath, size)))
	return filepath.Join(g.cacheDir, fmt.Sprintf("%x.jpg", hash))
}

func (g *Generator) generate(ctx context.Context, a library.Asset, size int) ([]byte, error) {
	var img image.Image
	var err error

	switch a.Kind {
	case library.KindImage:
		img, err = decodeImage(a.Path, size)
	case library.KindVideo:
		img, err = extractVideoFrame(ctx, a.Path)
	default:
		return nil, fmt.Errorf("no thumbnail path for kind %q", a.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("thumbnail generation failed for %s: %w", a.Path, err)
	}

	thumb := imaging.Fit(img, size, size, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeImage tries the vips fast path, then pure-Go decoding.
func decodeImage(path string, size int) (image.Image, error) {
	if img, err := vipsThumbnail(path, size); err == nil {
		return img, nil
	} else if vipsUsable() {
		logging.Debug("vips decode failed for %s: %v, falling back", path, err)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err == nil {
		return img, nil
	}
	logging.Debug("imaging.Open failed for %s: %v, trying image.Decode", path, err)

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.Warn("Failed to close %s: %v", path, err)
		}
	}()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	logging.Debug("Decoded %s as %s", path, format)
	return img, nil
}

// extractVideoFrame grabs a single frame with ffmpeg, preferring the
// one-second mark and retrying from the start for very short clips.
func extractVideoFrame(ctx context.Context, path string) (image.Image, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}

	frame, err := runFrameExtract(ctx, path, true)
	if err != nil {
		logging.Debug("Frame extract at 1s failed for %s: %v, retrying from start", path, err)
		frame, err = runFrameExtract(ctx, path, false)
		if err != nil {
			return nil, err
		}
	}

	img, _, err := image.Decode(bytes.NewReader(frame))
	if err != nil {
		return nil, fmt.Errorf("failed to decode extracted frame: %w", err)
	}
	return img, nil
}

func runFrameExtract(ctx context.Context, path string, seek bool) ([]byte, error) {
	args := []string{"-i", path}
	if seek {
		args = []string{"-ss", "00:00:01", "-i", path}
	}
	args = append(args, "-vframes", "1", "-f", "image2pipe", "-vcodec", "png", "-")

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %v, stderr: %s", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output for %s", path)
	}
	return stdout.Bytes(), nil
}
