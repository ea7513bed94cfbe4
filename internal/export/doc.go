// Package export transcodes video assets into shareable MP4 files using
// ffmpeg. Output is re-encoded at a medium-quality preset with all
// container metadata stripped, so location and device details never leave
// with the attachment.
package export
