package handlers

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"photo-picker/internal/logging"
	"photo-picker/internal/thumbnail"
)

// GetAsset serves an asset's original bytes exactly as stored.
func (h *Handlers) GetAsset(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSONError(w, "Invalid asset id", http.StatusBadRequest)
		return
	}

	a, err := h.db.AssetByID(r.Context(), id)
	if err != nil {
		writeJSONError(w, "Asset not found", http.StatusNotFound)
		return
	}

	if a.MimeType != "" {
		w.Header().Set("Content-Type", a.MimeType)
	}
	http.ServeFile(w, r, a.Path)
}

// GetThumbnail serves a cached thumbnail for the asset. Thumbnails are
// advisory: any failure serves a neutral placeholder instead of an error,
// so a grid render never breaks on one bad file.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSONError(w, "Invalid asset id", http.StatusBadRequest)
		return
	}

	size := thumbnail.DefaultSize
	if v, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil && v > 0 && v <= 1024 {
		size = v
	}

	a, err := h.db.AssetByID(r.Context(), id)
	if err != nil {
		writeJSONError(w, "Asset not found", http.StatusNotFound)
		return
	}

	data, err := h.thumbs.Request(r.Context(), a, size).Await(r.Context())
	if err != nil {
		logging.Debug("Thumbnail unavailable for %s, serving placeholder: %v", a.Path, err)
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("X-Thumbnail-Placeholder", "1")
		if _, err := w.Write(placeholderPNG()); err != nil {
			logging.Warn("Failed to write placeholder: %v", err)
		}
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write(data); err != nil {
		logging.Warn("Failed to write thumbnail: %v", err)
	}
}

var (
	placeholderOnce sync.Once
	placeholderData []byte
)

// placeholderPNG renders a flat gray square once and reuses the bytes.
func placeholderPNG() []byte {
	placeholderOnce.Do(func() {
		img := image.NewRGBA(image.Rect(0, 0, 32, 32))
		gray := color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
		for y := 0; y < 32; y++ {
			for x := 0; x < 32; x++ {
				img.Set(x, y, gray)
			}
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			logging.Error("Failed to encode placeholder: %v", err)
			return
		}
		placeholderData = buf.Bytes()
	})
	return placeholderData
}
