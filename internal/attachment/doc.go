// Package attachment models the transport-ready artifact derived from one
// library asset: a byte payload, a MIME type, and a quality hint.
//
// Image attachments hold their payload in memory. Video attachments own a
// freshly transcoded temporary file; Close releases it exactly once, so the
// caller that receives an attachment is responsible for closing it when the
// payload has been handed off.
package attachment
