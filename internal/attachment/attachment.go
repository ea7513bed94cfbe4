package attachment

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"photo-picker/internal/logging"
)

// Quality hints at the compression level downstream encoders should apply.
// This layer never re-encodes payloads itself.
type Quality string

// QualityMedium is the hint attached to picker output.
const QualityMedium Quality = "medium"

// Attachment is an immutable artifact derived from exactly one asset.
// Exactly one of data or tempPath backs the payload.
type Attachment struct {
	mimeType string
	quality  Quality
	size     int64

	data     []byte
	tempPath string

	closeOnce sync.Once
	closeErr  error
}

// FromBytes wraps an in-memory payload. The attachment takes ownership of
// data; callers must not mutate it afterwards.
func FromBytes(data []byte, mimeType string, quality Quality) *Attachment {
	return &Attachment{
		mimeType: mimeType,
		quality:  quality,
		size:     int64(len(data)),
		data:     data,
	}
}

// FromTempFile wraps a payload written to path. The attachment owns the
// file and deletes it on Close.
func FromTempFile(path, mimeType string, quality Quality) (*Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("attachment file not accessible: %w", err)
	}
	return &Attachment{
		mimeType: mimeType,
		quality:  quality,
		size:     info.Size(),
		tempPath: path,
	}, nil
}

// MimeType returns the payload's MIME type.
func (a *Attachment) MimeType() string { return a.mimeType }

// Quality returns the downstream compression hint.
func (a *Attachment) Quality() Quality { return a.quality }

// Size returns the payload size in bytes.
func (a *Attachment) Size() int64 { return a.size }

// TempPath returns the owned backing file path, or "" for in-memory payloads.
func (a *Attachment) TempPath() string { return a.tempPath }

// Open returns a reader over the payload. The reader must be closed; it
// stays valid only until the attachment itself is closed.
func (a *Attachment) Open() (io.ReadCloser, error) {
	if a.tempPath != "" {
		f, err := os.Open(a.tempPath)
		if err != nil {
			return nil, fmt.Errorf("open attachment payload: %w", err)
		}
		return f, nil
	}
	return io.NopCloser(bytes.NewReader(a.data)), nil
}

// Bytes returns the full payload. For file-backed attachments this reads
// the owned file.
func (a *Attachment) Bytes() ([]byte, error) {
	if a.tempPath != "" {
		data, err := os.ReadFile(a.tempPath)
		if err != nil {
			return nil, fmt.Errorf("read attachment payload: %w", err)
		}
		return data, nil
	}
	return a.data, nil
}

// Close releases the backing temporary file, if any. It is idempotent:
// the file is deleted exactly once, on the first call.
func (a *Attachment) Close() error {
	a.closeOnce.Do(func() {
		if a.tempPath == "" {
			return
		}
		if err := os.Remove(a.tempPath); err != nil && !os.IsNotExist(err) {
			logging.Warn("Failed to remove attachment temp file %s: %v", a.tempPath, err)
			a.closeErr = err
		}
	})
	return a.closeErr
}

// CloseAll closes every attachment in the slice, keeping the first error.
// Used to discard partially converted batches.
func CloseAll(attachments []*Attachment) error {
	var firstErr error
	for _, a := range attachments {
		if a == nil {
			continue
		}
		if err := a.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
