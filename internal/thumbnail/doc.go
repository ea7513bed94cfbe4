// Package thumbnail renders small preview images for grid display.
//
// Requests are advisory: a failed thumbnail settles with an error the
// caller maps to a placeholder, and never aborts rendering. Generation
// tries libvips first when available, falls back to pure-Go decoding, and
// extracts a frame with ffmpeg for video assets. Results are cached as
// JPEG files keyed by asset path and size.
package thumbnail
