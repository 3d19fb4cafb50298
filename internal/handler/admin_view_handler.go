package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kvbuilders/site/internal/dashboard"
	"github.com/kvbuilders/site/internal/model"
	"github.com/kvbuilders/site/internal/web"
	"github.com/kvbuilders/site/pkg/inquiryclient"
	"golang.org/x/sync/singleflight"
)

// The update form carries the full list snapshot, so the limit covers a
// full page of long messages.
const maxAdminFormBytes = 16 << 20

// Admin view actions posted by the page. Filtering happens in the browser.
const (
	actionLogin   = "login"
	actionRefresh = "refresh"
	actionUpdate  = "update"
)

// AdminViewHandler serves the password-gated inquiry dashboard page. It
// keeps no state between requests: the password and the last fetched list
// travel in the page.
type AdminViewHandler struct {
	tmpl   *template.Template
	client inquiryclient.Client
	// flight is shared by every request so overlapping refreshes with the
	// same password cost one API call.
	flight singleflight.Group
}

// NewAdminViewHandler creates an AdminViewHandler calling the inquiry API at
// apiURL. The URL is fixed at startup and never taken from a request.
func NewAdminViewHandler(apiURL string, httpClient *http.Client) (*AdminViewHandler, error) {
	if apiURL == "" {
		return nil, errors.New("admin view: inquiry API URL is required")
	}
	tmpl, err := web.Parse(nil, "layout.html", "admin.html")
	if err != nil {
		return nil, fmt.Errorf("parse admin templates: %w", err)
	}
	return &AdminViewHandler{
		tmpl:   tmpl,
		client: inquiryclient.NewClient(apiURL, httpClient),
	}, nil
}

type adminPage struct {
	Title string
	dashboard.View
	// Snapshot is the JSON list the update form posts back.
	Snapshot string
}

// Show handles GET /admin with the gate locked.
func (h *AdminViewHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.render(w, dashboard.New(nil))
}

// Action handles POST /admin.
func (h *AdminViewHandler) Action(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAdminFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	password := r.PostForm.Get("password")
	d := dashboard.NewShared(h.client, &h.flight)
	ctx := r.Context()

	if err := d.SetFilter(model.Filter(r.PostForm.Get("filter"))); err != nil {
		_ = d.SetFilter(model.FilterAll)
	}

	switch action := r.PostForm.Get("action"); action {
	case actionLogin, actionRefresh:
		if err := d.Login(ctx, password); errors.Is(err, dashboard.ErrPasswordRequired) {
			h.render(w, d)
			return
		}
	case actionUpdate:
		if err := d.Resume(password); err != nil {
			h.render(w, d)
			return
		}
		snapshot, err := decodeSnapshot(r.PostForm.Get("snapshot"))
		if err != nil {
			http.Error(w, "invalid snapshot", http.StatusBadRequest)
			return
		}
		id, s, _ := strings.Cut(r.PostForm.Get("target"), ":")
		status, err := model.ParseStatus(s)
		if err != nil || id == "" {
			http.Error(w, "invalid target", http.StatusBadRequest)
			return
		}
		// A failed update leaves the posted snapshot as the list.
		d.Restore(snapshot)
		_ = d.UpdateStatus(ctx, id, status)
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}

	h.render(w, d)
}

func (h *AdminViewHandler) render(w http.ResponseWriter, d *dashboard.Dashboard) {
	page := adminPage{Title: "Admin | KV Builders", View: d.View()}
	if page.Authenticated {
		snapshot, err := json.Marshal(d.Inquiries())
		if err != nil {
			slog.Error("encode admin snapshot failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		page.Snapshot = string(snapshot)
	}

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		slog.Error("render admin failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// decodeSnapshot parses the list posted back by the update form. An empty
// value is an empty list.
func decodeSnapshot(s string) ([]model.Inquiry, error) {
	if s == "" {
		return nil, nil
	}
	var inquiries []model.Inquiry
	if err := json.Unmarshal([]byte(s), &inquiries); err != nil {
		return nil, err
	}
	return inquiries, nil
}
