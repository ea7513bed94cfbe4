package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"photo-picker/internal/library"
	"photo-picker/internal/logging"
)

// FFmpeg exports videos by shelling out to the ffmpeg binary.
type FFmpeg struct {
	binary string
}

// NewFFmpeg returns an exporter using the given binary name, or "ffmpeg"
// from PATH when empty. Availability is checked per export, not here, so
// construction never fails.
func NewFFmpeg(binary string) *FFmpeg {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpeg{binary: binary}
}

// Available reports whether the ffmpeg binary can be found.
func (f *FFmpeg) Available() bool {
	_, err := exec.LookPath(f.binary)
	return err == nil
}

// Export transcodes srcPath into a fresh MP4 at dstPath: H.264 video at a
// medium preset, AAC audio, faststart layout, metadata stripped. On any
// failure the partial output file is removed.
func (f *FFmpeg) Export(ctx context.Context, srcPath, dstPath string) error {
	path, err := exec.LookPath(f.binary)
	if err != nil {
		return fmt.Errorf("%s not found: %w", f.binary, library.ErrExportUnavailable)
	}
	logging.Debug("Exporting video %s -> %s using %s", srcPath, dstPath, path)

	cmd := exec.CommandContext(ctx, path,
		"-i", srcPath,
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		"-map_metadata", "-1",
		"-f", "mp4",
		"-y",
		dstPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start export session: %v: %w", err, library.ErrExportUnavailable)
	}

	if err := cmd.Wait(); err != nil {
		if removeErr := os.Remove(dstPath); removeErr != nil && !os.IsNotExist(removeErr) {
			logging.Warn("Failed to remove partial export %s: %v", dstPath, removeErr)
		}
		return fmt.Errorf("export failed: %v, stderr: %s", err, stderr.String())
	}

	return nil
}
