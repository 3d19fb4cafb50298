package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/kvbuilders/site/internal/storage"
)

// MediaHandler streams gallery media from storage.
type MediaHandler struct {
	store storage.Storage
}

// NewMediaHandler creates a MediaHandler.
func NewMediaHandler(store storage.Storage) *MediaHandler {
	return &MediaHandler{store: store}
}

// Serve handles GET /media/{key...}.
func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	body, contentType, err := h.store.Open(r.Context(), r.PathValue("key"))
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrInvalidKey):
		http.NotFound(w, r)
		return
	case err != nil:
		slog.Error("open media failed", "key", r.PathValue("key"), "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, body); err != nil {
		slog.Warn("stream media failed", "key", r.PathValue("key"), "error", err)
	}
}
