package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/kvbuilders/site/internal/model"
	"github.com/kvbuilders/site/internal/repository"
	"github.com/kvbuilders/site/internal/service"
)

const maxMessageLength = 5000

// maxSubmitBytes bounds a contact form body. A maximal message fully
// \u-escaped still fits.
const maxSubmitBytes = 64 << 10

// InquiryHandler handles contact form submission and the admin inquiry API.
type InquiryHandler struct {
	inquiryService service.InquiryService
}

// NewInquiryHandler creates an InquiryHandler with the given service.
func NewInquiryHandler(inquiryService service.InquiryService) *InquiryHandler {
	return &InquiryHandler{inquiryService: inquiryService}
}

// submitRequest is the expected JSON body for POST /api/contact.
type submitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Service string `json:"service"`
	Message string `json:"message"`
}

// validate returns the error code for the first invalid field, or "".
func (req *submitRequest) validate() string {
	switch {
	case req.Name == "":
		return "name_required"
	case req.Email == "":
		return "email_required"
	case req.Service == "":
		return "service_required"
	case req.Message == "":
		return "message_required"
	}
	if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		return "invalid_email"
	}
	if len([]rune(req.Message)) > maxMessageLength {
		return "message_too_long"
	}
	return ""
}

// Submit handles POST /api/contact.
func (h *InquiryHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmitBytes)
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request_too_large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Service = strings.TrimSpace(req.Service)
	req.Message = strings.TrimSpace(req.Message)

	if code := req.validate(); code != "" {
		writeError(w, http.StatusBadRequest, code)
		return
	}

	inq := &model.Inquiry{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Service: req.Service,
		Message: req.Message,
	}
	if err := h.inquiryService.Submit(r.Context(), inq); err != nil {
		slog.Error("submit inquiry failed", "error", err)
		writeError(w, http.StatusInternalServerError, "submit_failed")
		return
	}

	writeJSON(w, http.StatusCreated, inq)
}

// AdminList handles GET /api/admin/inquiries.
// Supports query params: status (all/new/contacted/closed), limit, offset.
func (h *InquiryHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter, err := model.ParseFilter(q.Get("status"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_status")
		return
	}
	opts := model.InquiryListOptions{
		Filter: filter,
		Limit:  service.MaxListLimit,
	}
	if l := q.Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= service.MaxListLimit {
			opts.Limit = n
		}
	}
	if o := q.Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			opts.Offset = n
		}
	}

	inquiries, err := h.inquiryService.List(r.Context(), opts)
	if err != nil {
		slog.Error("list inquiries failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list_failed")
		return
	}

	// Return [] not null for empty lists
	if inquiries == nil {
		inquiries = []*model.Inquiry{}
	}
	writeJSON(w, http.StatusOK, inquiries)
}

// UpdateStatus handles PATCH /api/admin/inquiries/{id}?status=.
func (h *InquiryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id_required")
		return
	}
	status, err := model.ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_status")
		return
	}

	err = h.inquiryService.UpdateStatus(r.Context(), id, status)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
		return
	case errors.Is(err, model.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_status")
		return
	case err != nil:
		slog.Error("update inquiry status failed", "inquiry_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "update_failed")
		return
	}

	slog.Info("inquiry status updated", "inquiry_id", id, "status", status)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Status updated successfully"})
}
