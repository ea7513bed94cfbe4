package library

import "errors"

// Conversion error taxonomy. Each is terminal for the single request that
// raised it; nothing in this layer retries.
var (
	// ErrDataUnavailable means the store returned no bytes, no format
	// identifier, or the converted output could not be wrapped.
	ErrDataUnavailable = errors.New("asset data unavailable")

	// ErrExportUnavailable means a video export session could not be
	// created (the transcoder is missing or refused to start).
	ErrExportUnavailable = errors.New("video export unavailable")

	// ErrUnsupportedMediaType means the asset kind has no conversion path.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
)
