package handler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
)

// PageRenderer renders a full HTML page.
type PageRenderer interface {
	Render(ctx context.Context, w io.Writer) error
}

// SiteHandler serves the marketing page.
type SiteHandler struct {
	page PageRenderer
}

// NewSiteHandler creates a SiteHandler.
func NewSiteHandler(page PageRenderer) *SiteHandler {
	return &SiteHandler{page: page}
}

// Home handles GET /{$}.
func (h *SiteHandler) Home(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.page.Render(r.Context(), &buf); err != nil {
		slog.Error("render home failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
