package thumbnail

import (
	"bytes"
	"fmt"
	"image"
	"sync"

	"github.com/davidbyttow/govips/v2/vips"
	"github.com/disintegration/imaging"

	"photo-picker/internal/logging"
)

var (
	vipsOnce      sync.Once
	vipsAvailable bool
)

// InitVips starts libvips once per process. govips cannot be stopped and
// restarted, so there is no matching shutdown here; call this at startup
// and let process exit reclaim it. Safe to call more than once.
func InitVips() {
	vipsOnce.Do(func() {
		defer func() {
			// vips.Startup panics when the shared library is missing;
			// the pure-Go path covers that machine.
			if r := recover(); r != nil {
				logging.Warn("libvips unavailable, using pure-Go decoding: %v", r)
				vipsAvailable = false
			}
		}()

		vips.LoggingSettings(func(domain string, level vips.LogLevel, msg string) {
			switch level {
			case vips.LogLevelError, vips.LogLevelCritical:
				logging.Error("[%s] %s", domain, msg)
			case vips.LogLevelWarning:
				logging.Warn("[%s] %s", domain, msg)
			default:
				logging.Debug("[%s] %s", domain, msg)
			}
		}, vips.LogLevelWarning)

		// Conservative memory settings; thumbnails are small and bursty.
		vips.Startup(&vips.Config{
			ConcurrencyLevel: 1,
			MaxCacheMem:      50 * 1024 * 1024,
			MaxCacheSize:     100,
		})

		vipsAvailable = true
		logging.Info("libvips initialized (version: %s)", vips.Version)
	})
}

// vipsUsable reports whether the vips fast path is active.
func vipsUsable() bool {
	return vipsAvailable
}

// vipsThumbnail decodes and downscales in one pass, which keeps large
// camera originals from being fully decoded just to produce a grid tile.
func vipsThumbnail(path string, size int) (image.Image, error) {
	if !vipsAvailable {
		return nil, fmt.Errorf("libvips not available")
	}

	ref, err := vips.LoadImageFromFile(path, vips.NewImportParams())
	if err != nil {
		return nil, fmt.Errorf("vips failed to load image: %w", err)
	}
	defer ref.Close()

	if err := ref.Thumbnail(size, size, vips.InterestingNone); err != nil {
		return nil, fmt.Errorf("vips resize failed: %w", err)
	}

	imgBytes, _, err := ref.ExportJpeg(&vips.JpegExportParams{
		Quality:        95,
		OptimizeCoding: true,
	})
	if err != nil {
		return nil, fmt.Errorf("vips export failed: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(imgBytes), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode vips output: %w", err)
	}
	return img, nil
}
