package library

import (
	"mime"
	"path/filepath"
	"strings"
	"time"
)

// MediaKind classifies an asset by its media type.
type MediaKind string

const (
	// KindImage represents a still image asset.
	KindImage MediaKind = "image"
	// KindVideo represents a video asset.
	KindVideo MediaKind = "video"
	// KindOther represents an unsupported or unknown asset kind.
	KindOther MediaKind = "other"
)

// Asset is a single photo or video record in the library. It references
// content owned by the underlying store; the struct itself carries only
// metadata and is safe to copy.
type Asset struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Album     string    `json:"album,omitempty"`
	Kind      MediaKind `json:"kind"`
	MimeType  string    `json:"mimeType,omitempty"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// ImageExtensions maps file extensions to whether they are supported image formats.
var ImageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".webp": true, ".tiff": true, ".tif": true,
	".heic": true, ".heif": true,
}

// VideoExtensions maps file extensions to whether they are supported video formats.
var VideoExtensions = map[string]bool{
	".mp4": true, ".mkv": true, ".avi": true, ".mov": true,
	".wmv": true, ".flv": true, ".webm": true, ".m4v": true,
	".mpeg": true, ".mpg": true, ".3gp": true, ".ts": true,
}

// KindForPath classifies a file path by extension.
func KindForPath(path string) MediaKind {
	ext := strings.ToLower(filepath.Ext(path))
	if ImageExtensions[ext] {
		return KindImage
	}
	if VideoExtensions[ext] {
		return KindVideo
	}
	return KindOther
}

// fallbackMimeTypes covers extensions the platform mime database commonly
// lacks. Keys are lowercase extensions including the dot.
var fallbackMimeTypes = map[string]string{
	".heic": "image/heic",
	".heif": "image/heif",
	".mkv":  "video/x-matroska",
	".m4v":  "video/x-m4v",
	".ts":   "video/mp2t",
	".3gp":  "video/3gpp",
}

// MimeTypeForPath returns the MIME type for a file path, or "" if unknown.
func MimeTypeForPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if mt := mime.TypeByExtension(ext); mt != "" {
		return mt
	}
	return fallbackMimeTypes[ext]
}
