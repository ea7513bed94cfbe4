package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"

	"photo-picker/internal/attachment"
	"photo-picker/internal/library"
	"photo-picker/internal/logging"
	"photo-picker/internal/picker"
)

// PickRequest names the selected assets in the order the user picked them.
type PickRequest struct {
	AssetIDs []int64 `json:"assetIds"`
}

// Pick converts the selection and streams the resulting attachments as a
// multipart/mixed response, in selection order. The conversion is
// all-or-nothing: any failure returns an error status and no payload.
func (h *Handlers) Pick(w http.ResponseWriter, r *http.Request) {
	var req PickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.AssetIDs) == 0 {
		writeJSONError(w, "Empty selection", http.StatusBadRequest)
		return
	}

	assets := make([]library.Asset, 0, len(req.AssetIDs))
	for _, id := range req.AssetIDs {
		a, err := h.db.AssetByID(r.Context(), id)
		if err != nil {
			writeJSONError(w, fmt.Sprintf("Asset %d not found", id), http.StatusNotFound)
			return
		}
		assets = append(assets, a)
	}

	session := picker.NewSession(h.catalog, h.converter, h.notifier)
	defer session.Close()

	var picked []*attachment.Attachment
	session.OnAttachmentsPicked(func(attachments []*attachment.Attachment) {
		picked = attachments
	})

	if err := session.Pick(r.Context(), assets...); err != nil {
		logging.Warn("Pick failed for %d assets: %v", len(assets), err)
		switch {
		case errors.Is(err, library.ErrUnsupportedMediaType):
			writeJSONError(w, "Selection contains an unsupported media type", http.StatusUnsupportedMediaType)
		case errors.Is(err, library.ErrExportUnavailable):
			writeJSONError(w, "Video export unavailable", http.StatusServiceUnavailable)
		case errors.Is(err, library.ErrDataUnavailable):
			writeJSONError(w, "Asset data unavailable", http.StatusGone)
		default:
			writeJSONError(w, "Conversion failed", http.StatusInternalServerError)
		}
		return
	}
	defer func() {
		if err := attachment.CloseAll(picked); err != nil {
			logging.Warn("Failed to release attachments: %v", err)
		}
	}()

	mw := multipart.NewWriter(w)
	w.Header().Set("Content-Type", "multipart/mixed; boundary="+mw.Boundary())

	for i, att := range picked {
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", att.MimeType())
		header.Set("Content-Length", strconv.FormatInt(att.Size(), 10))
		header.Set("X-Attachment-Quality", string(att.Quality()))
		header.Set("X-Attachment-Index", strconv.Itoa(i))

		part, err := mw.CreatePart(header)
		if err != nil {
			logging.Error("Failed to create attachment part: %v", err)
			return
		}

		payload, err := att.Open()
		if err != nil {
			logging.Error("Failed to open attachment payload: %v", err)
			return
		}
		_, copyErr := io.Copy(part, payload)
		if err := payload.Close(); err != nil {
			logging.Warn("Failed to close attachment payload: %v", err)
		}
		if copyErr != nil {
			logging.Error("Failed to stream attachment: %v", copyErr)
			return
		}
	}

	if err := mw.Close(); err != nil {
		logging.Error("Failed to finish multipart response: %v", err)
	}
}
