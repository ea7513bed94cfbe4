package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"photo-picker/internal/library"
	"photo-picker/internal/logging"
)

const (
	defaultPageSize = 100
	maxPageSize     = 500
)

// CollectionResponse is one entry in the collection listing.
type CollectionResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Count int    `json:"count"`
}

// AssetResponse is the JSON shape of one indexed asset.
type AssetResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	MimeType  string    `json:"mimeType"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// AssetPageResponse is a page of a collection's contents.
type AssetPageResponse struct {
	Collection string          `json:"collection"`
	Title      string          `json:"title"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	Assets     []AssetResponse `json:"assets"`
}

func toAssetResponse(a library.Asset) AssetResponse {
	return AssetResponse{
		ID:        a.ID,
		Name:      a.Name,
		Kind:      string(a.Kind),
		MimeType:  a.MimeType,
		Size:      a.Size,
		CreatedAt: a.CreatedAt,
	}
}

// ListCollections returns every selectable collection, all-photos first.
func (h *Handlers) ListCollections(w http.ResponseWriter, r *http.Request) {
	cols, err := h.catalog.AllCollections(r.Context())
	if err != nil {
		logging.Error("Failed to enumerate collections: %v", err)
		writeJSONError(w, "Failed to enumerate collections", http.StatusInternalServerError)
		return
	}

	response := make([]CollectionResponse, 0, len(cols))
	for _, col := range cols {
		n, err := col.Contents().Count(r.Context())
		if err != nil {
			logging.Error("Failed to count collection %s: %v", col.ID(), err)
			writeJSONError(w, "Failed to enumerate collections", http.StatusInternalServerError)
			return
		}
		response = append(response, CollectionResponse{
			ID:    col.ID(),
			Title: col.LocalizedTitle(),
			Count: n,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, response)
}

// ListAssets returns one page of a collection's contents. Counts and rows
// are read lazily, so a page may reflect a rescan that landed between
// requests; clients re-fetch on change notification.
func (h *Handlers) ListAssets(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	col, err := h.catalog.ByID(r.Context(), id)
	if err != nil {
		writeJSONError(w, "Collection not found", http.StatusNotFound)
		return
	}

	page := 1
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	pageSize := defaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("pageSize")); err == nil && v > 0 && v <= maxPageSize {
		pageSize = v
	}

	source := col.Contents()
	total, err := source.Count(r.Context())
	if err != nil {
		logging.Error("Failed to count collection %s: %v", id, err)
		writeJSONError(w, "Failed to read collection", http.StatusInternalServerError)
		return
	}

	response := AssetPageResponse{
		Collection: col.ID(),
		Title:      col.LocalizedTitle(),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		Assets:     []AssetResponse{},
	}

	start := (page - 1) * pageSize
	for i := start; i < start+pageSize && i < total; i++ {
		a, err := source.AssetAt(r.Context(), i)
		if errors.Is(err, library.ErrIndexOutOfRange) {
			// The library shrank under us; return the shorter page.
			break
		}
		if err != nil {
			logging.Error("Failed to read asset %d of %s: %v", i, id, err)
			writeJSONError(w, "Failed to read collection", http.StatusInternalServerError)
			return
		}
		response.Assets = append(response.Assets, toAssetResponse(a))
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, response)
}
