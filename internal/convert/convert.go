package convert

import (
	"context"
	"fmt"
	"time"

	"photo-picker/internal/attachment"
	"photo-picker/internal/library"
	"photo-picker/internal/logging"
	"photo-picker/internal/metrics"
	"photo-picker/internal/task"
)

// DataSource supplies original asset bytes. Satisfied by the library store.
type DataSource interface {
	AssetData(ctx context.Context, a library.Asset) ([]byte, string, error)
}

// VideoExporter writes a stripped MP4 rendition of srcPath to dstPath.
// Satisfied by export.FFmpeg.
type VideoExporter interface {
	Export(ctx context.Context, srcPath, dstPath string) error
}

// Converter is the attachment conversion service.
type Converter struct {
	source   DataSource
	exporter VideoExporter
	temp     *attachment.TempAllocator
}

// New creates a Converter over the given store, exporter, and scratch
// allocator.
func New(source DataSource, exporter VideoExporter, temp *attachment.TempAllocator) *Converter {
	return &Converter{
		source:   source,
		exporter: exporter,
		temp:     temp,
	}
}

// OutgoingAttachment converts one asset asynchronously. The returned task
// settles with the attachment or with one of the library conversion
// errors; it is attempted exactly once, never retried.
func (c *Converter) OutgoingAttachment(ctx context.Context, a library.Asset) *task.Task[*attachment.Attachment] {
	return task.Go(ctx, func(ctx context.Context) (*attachment.Attachment, error) {
		return c.convert(ctx, a)
	})
}

// OutgoingAttachments converts a selection concurrently and joins
// all-or-nothing: on any failure it releases every attachment already
// produced and returns only the error.
func (c *Converter) OutgoingAttachments(ctx context.Context, assets []library.Asset) ([]*attachment.Attachment, error) {
	tasks := make([]*task.Task[*attachment.Attachment], len(assets))
	for i, a := range assets {
		tasks[i] = c.OutgoingAttachment(ctx, a)
	}

	attachments, err := task.All(ctx, tasks...)
	if err != nil {
		if closeErr := attachment.CloseAll(attachments); closeErr != nil {
			logging.Warn("Failed to release partial batch: %v", closeErr)
		}
		metrics.BatchesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.BatchesTotal.WithLabelValues("success").Inc()
	return attachments, nil
}

func (c *Converter) convert(ctx context.Context, a library.Asset) (att *attachment.Attachment, err error) {
	start := time.Now()
	defer func() {
		metrics.ConversionsTotal.WithLabelValues(string(a.Kind), metrics.StatusLabel(err)).Inc()
		if err == nil {
			metrics.ConversionDuration.WithLabelValues(string(a.Kind)).Observe(time.Since(start).Seconds())
		}
	}()

	switch a.Kind {
	case library.KindImage:
		return c.convertImage(ctx, a)
	case library.KindVideo:
		return c.convertVideo(ctx, a)
	default:
		// Rejected before any store request is issued.
		return nil, fmt.Errorf("asset %s has kind %q: %w", a.Name, a.Kind, library.ErrUnsupportedMediaType)
	}
}

// convertImage wraps the store's original bytes without re-encoding.
func (c *Converter) convertImage(ctx context.Context, a library.Asset) (*attachment.Attachment, error) {
	data, mimeType, err := c.source.AssetData(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("no bytes for %s: %v: %w", a.Name, err, library.ErrDataUnavailable)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty payload for %s: %w", a.Name, library.ErrDataUnavailable)
	}
	if mimeType == "" {
		return nil, fmt.Errorf("no format identifier for %s: %w", a.Name, library.ErrDataUnavailable)
	}

	logging.Debug("Converted image %s (%d bytes, %s)", a.Name, len(data), mimeType)
	return attachment.FromBytes(data, mimeType, attachment.QualityMedium), nil
}

// convertVideo exports a stripped MP4 into a fresh temp file owned by the
// returned attachment.
func (c *Converter) convertVideo(ctx context.Context, a library.Asset) (*attachment.Attachment, error) {
	dst := c.temp.Path(".mp4")

	if err := c.exporter.Export(ctx, a.Path, dst); err != nil {
		return nil, fmt.Errorf("exporting %s: %w", a.Name, err)
	}

	att, err := attachment.FromTempFile(dst, "video/mp4", attachment.QualityMedium)
	if err != nil {
		return nil, fmt.Errorf("wrapping export of %s: %v: %w", a.Name, err, library.ErrDataUnavailable)
	}

	logging.Debug("Converted video %s -> %s (%d bytes)", a.Name, dst, att.Size())
	return att, nil
}
