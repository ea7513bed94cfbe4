package export

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"

	"photo-picker/internal/library"
)

func TestExportUnavailableWhenBinaryMissing(t *testing.T) {
	f := NewFFmpeg("definitely-not-a-real-transcoder")

	if f.Available() {
		t.Fatal("Available() = true for nonexistent binary")
	}

	dst := filepath.Join(t.TempDir(), "out.mp4")
	err := f.Export(context.Background(), "/nonexistent/in.mov", dst)
	if !errors.Is(err, library.ErrExportUnavailable) {
		t.Errorf("Export() error = %v, want ErrExportUnavailable", err)
	}
}

func TestExportDefaultsBinaryName(t *testing.T) {
	f := NewFFmpeg("")
	if f.binary != "ffmpeg" {
		t.Errorf("binary = %q, want ffmpeg", f.binary)
	}
}

func TestExportFailsOnBadInput(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}

	f := NewFFmpeg("")
	dst := filepath.Join(t.TempDir(), "out.mp4")
	err := f.Export(context.Background(), filepath.Join(t.TempDir(), "missing.mov"), dst)
	if err == nil {
		t.Fatal("Export() on missing input: error = nil, want error")
	}
	// A failed run is an export failure, not an unavailable session.
	if errors.Is(err, library.ErrExportUnavailable) {
		t.Errorf("Export() error = %v, want plain failure (session was created)", err)
	}
}
