// Package convert turns selected library assets into outgoing attachments.
//
// Images pass through byte-for-byte: the store's original bytes are
// wrapped with their MIME type and a medium-quality hint, and any further
// compression is the surrounding application's job. Videos are always
// re-exported to a fresh temporary MP4 with metadata stripped; the
// resulting attachment owns that file. Every other asset kind is rejected
// without touching the store.
//
// Conversions are independent asynchronous units of work. Batches join
// all-or-nothing: one failure fails the batch, cancels its outstanding
// siblings, and releases whatever attachments had already been produced.
package convert
