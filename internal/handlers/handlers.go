package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"photo-picker/internal/catalog"
	"photo-picker/internal/database"
	"photo-picker/internal/indexer"
	"photo-picker/internal/logging"
	"photo-picker/internal/picker"
	"photo-picker/internal/thumbnail"
	"photo-picker/internal/watch"
)

// Version is set at build time via -ldflags.
var Version = "development"

type Handlers struct {
	db        *database.Database
	catalog   *catalog.Catalog
	converter picker.Converter
	thumbs    *thumbnail.Generator
	indexer   *indexer.Indexer
	notifier  *watch.Notifier
}

func New(db *database.Database, cat *catalog.Catalog, converter picker.Converter, thumbs *thumbnail.Generator, idx *indexer.Indexer, notifier *watch.Notifier) *Handlers {
	return &Handlers{
		db:        db,
		catalog:   cat,
		converter: converter,
		thumbs:    thumbs,
		indexer:   idx,
		notifier:  notifier,
	}
}

// Router registers all routes. Middleware is attached by the caller.
func (h *Handlers) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/api/version", h.GetVersion).Methods(http.MethodGet)

	r.HandleFunc("/api/collections", h.ListCollections).Methods(http.MethodGet)
	r.HandleFunc("/api/collections/{id}/assets", h.ListAssets).Methods(http.MethodGet)

	r.HandleFunc("/api/assets/{id:[0-9]+}", h.GetAsset).Methods(http.MethodGet)
	r.HandleFunc("/api/assets/{id:[0-9]+}/thumbnail", h.GetThumbnail).Methods(http.MethodGet)

	r.HandleFunc("/api/pick", h.Pick).Methods(http.MethodPost)
	r.HandleFunc("/api/rescan", h.Rescan).Methods(http.MethodPost)

	return r
}

// GetVersion reports the build version.
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"version": Version})
}

// Rescan asks the indexer for an out-of-band library scan.
func (h *Handlers) Rescan(w http.ResponseWriter, _ *http.Request) {
	h.indexer.Trigger()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, map[string]string{"status": "rescan scheduled"})
}

// writeJSON encodes v as JSON. Encoding errors are logged; there is no
// way to recover mid-response.
func writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("Failed to encode JSON response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, map[string]string{"error": message})
}
