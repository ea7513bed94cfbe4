package picker

import (
	"context"
	"errors"
	"sync"

	"photo-picker/internal/attachment"
	"photo-picker/internal/catalog"
	"photo-picker/internal/library"
	"photo-picker/internal/logging"
	"photo-picker/internal/watch"
)

// ErrSessionClosed is returned by Pick after Close.
var ErrSessionClosed = errors.New("picker session closed")

// Converter converts a selection into attachments, all-or-nothing.
// Satisfied by convert.Converter.
type Converter interface {
	OutgoingAttachments(ctx context.Context, assets []library.Asset) ([]*attachment.Attachment, error)
}

// Session is one picker instance presented over the library.
type Session struct {
	catalog   *catalog.Catalog
	converter Converter

	sub *watch.Subscription

	mu       sync.Mutex
	closed   bool
	onPicked func([]*attachment.Attachment)
	onChange func()
}

// NewSession creates a session. notifier may be nil when the surface does
// not track library changes.
func NewSession(cat *catalog.Catalog, converter Converter, notifier *watch.Notifier) *Session {
	s := &Session{
		catalog:   cat,
		converter: converter,
	}
	if notifier != nil {
		s.sub = notifier.Subscribe(s.libraryChanged)
	}
	return s
}

// Catalog exposes the collection catalog for the presenting surface.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// OnAttachmentsPicked registers the delegate that receives converted
// attachments. The receiver becomes responsible for closing them.
func (s *Session) OnAttachmentsPicked(fn func([]*attachment.Attachment)) {
	s.mu.Lock()
	s.onPicked = fn
	s.mu.Unlock()
}

// OnLibraryChanged registers a hook run on every library change while the
// session is open. The event carries no detail; re-query wholesale.
func (s *Session) OnLibraryChanged(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Session) libraryChanged() {
	s.mu.Lock()
	fn := s.onChange
	closed := s.closed
	s.mu.Unlock()

	if closed || fn == nil {
		return
	}
	fn()
}

// Pick converts the selection and hands the attachments to the delegate,
// in selection order, exactly once. On any conversion failure nothing is
// delivered and the session stays open; the caller decides whether to
// retry with a new selection.
func (s *Session) Pick(ctx context.Context, selection ...library.Asset) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	delegate := s.onPicked
	s.mu.Unlock()

	if delegate == nil {
		// Programmer error on the presenting side; abort without
		// converting rather than drop finished attachments.
		logging.Error("Pick called with no attachments delegate registered")
		return nil
	}

	attachments, err := s.converter.OutgoingAttachments(ctx, selection)
	if err != nil {
		return err
	}

	delegate(attachments)
	return nil
}

// Close tears the session down and unsubscribes its change observer.
// Conversions already in flight run to completion but deliver nothing.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	if s.sub != nil {
		s.sub.Unsubscribe()
	}
}
