package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kvbuilders/site/internal/model"
	"github.com/kvbuilders/site/internal/repository"
	"github.com/kvbuilders/site/internal/service"
)

// ---------------------------------------------------------------------------
// Mock InquiryService
// ---------------------------------------------------------------------------

type mockInquiryService struct {
	submitFunc       func(ctx context.Context, inq *model.Inquiry) error
	listFunc         func(ctx context.Context, opts model.InquiryListOptions) ([]*model.Inquiry, error)
	updateStatusFunc func(ctx context.Context, id string, status model.Status) error
}

func (m *mockInquiryService) Submit(ctx context.Context, inq *model.Inquiry) error {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, inq)
	}
	return nil
}

func (m *mockInquiryService) List(ctx context.Context, opts model.InquiryListOptions) ([]*model.Inquiry, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return nil, nil
}

func (m *mockInquiryService) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body["error"]
}

// ---------------------------------------------------------------------------
// POST /api/contact
// ---------------------------------------------------------------------------

func TestInquiryHandler_Submit_Success(t *testing.T) {
	var captured *model.Inquiry
	mock := &mockInquiryService{
		submitFunc: func(ctx context.Context, inq *model.Inquiry) error {
			captured = inq
			inq.ID = "abc"
			inq.Status = model.StatusNew
			inq.Timestamp = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
			return nil
		},
	}
	h := NewInquiryHandler(mock)

	body := `{"name":" Asha ","email":"asha@example.com","service":"Construction","message":"Two floors"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured == nil || captured.Name != "Asha" || captured.Service != "Construction" {
		t.Fatalf("unexpected inquiry passed to service: %+v", captured)
	}

	var got model.Inquiry
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "abc" || got.Status != model.StatusNew {
		t.Errorf("expected created inquiry in response, got %+v", got)
	}
}

func TestInquiryHandler_Submit_Validation(t *testing.T) {
	long := strings.Repeat("a", maxMessageLength+1)
	cases := []struct {
		name string
		body string
		code string
	}{
		{"invalid json", `{`, "invalid_json"},
		{"missing name", `{"email":"a@b.co","service":"x","message":"m"}`, "name_required"},
		{"missing email", `{"name":"n","service":"x","message":"m"}`, "email_required"},
		{"missing service", `{"name":"n","email":"a@b.co","message":"m"}`, "service_required"},
		{"blank message", `{"name":"n","email":"a@b.co","service":"x","message":"   "}`, "message_required"},
		{"bad email", `{"name":"n","email":"not-an-email","service":"x","message":"m"}`, "invalid_email"},
		{"display name email", `{"name":"n","email":"N <a@b.co>","service":"x","message":"m"}`, "invalid_email"},
		{"too long", fmt.Sprintf(`{"name":"n","email":"a@b.co","service":"x","message":%q}`, long), "message_too_long"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			h := NewInquiryHandler(&mockInquiryService{
				submitFunc: func(context.Context, *model.Inquiry) error {
					called = true
					return nil
				},
			})
			req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			h.Submit(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if got := errorCode(t, rec); got != tc.code {
				t.Errorf("expected error %q, got %q", tc.code, got)
			}
			if called {
				t.Error("service should not be called for invalid input")
			}
		})
	}
}

func TestInquiryHandler_Submit_OversizedBodyRejected(t *testing.T) {
	called := false
	h := NewInquiryHandler(&mockInquiryService{
		submitFunc: func(context.Context, *model.Inquiry) error {
			called = true
			return nil
		},
	})
	huge := strings.Repeat("a", maxSubmitBytes)
	body := fmt.Sprintf(`{"name":"n","email":"a@b.co","service":"x","message":%q}`, huge)
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
	if got := errorCode(t, rec); got != "request_too_large" {
		t.Errorf("expected error request_too_large, got %q", got)
	}
	if called {
		t.Error("service should not be called for an oversized body")
	}
}

func TestInquiryHandler_Submit_MessageAtLimitAccepted(t *testing.T) {
	h := NewInquiryHandler(&mockInquiryService{})
	msg := strings.Repeat("あ", maxMessageLength)
	body := fmt.Sprintf(`{"name":"n","email":"a@b.co","service":"x","message":%q}`, msg)
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201 for a message of exactly %d runes, got %d", maxMessageLength, rec.Code)
	}
}

func TestInquiryHandler_Submit_ServiceError(t *testing.T) {
	h := NewInquiryHandler(&mockInquiryService{
		submitFunc: func(context.Context, *model.Inquiry) error { return errors.New("db down") },
	})
	body := `{"name":"n","email":"a@b.co","service":"x","message":"m"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := errorCode(t, rec); got != "submit_failed" {
		t.Errorf("expected submit_failed, got %q", got)
	}
}

// ---------------------------------------------------------------------------
// GET /api/admin/inquiries
// ---------------------------------------------------------------------------

func TestInquiryHandler_AdminList_Defaults(t *testing.T) {
	var gotOpts model.InquiryListOptions
	h := NewInquiryHandler(&mockInquiryService{
		listFunc: func(ctx context.Context, opts model.InquiryListOptions) ([]*model.Inquiry, error) {
			gotOpts = opts
			return []*model.Inquiry{
				{ID: "2", Status: model.StatusClosed},
				{ID: "1", Status: model.StatusNew},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/inquiries", nil)
	rec := httptest.NewRecorder()
	h.AdminList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotOpts.Filter != model.FilterAll || gotOpts.Limit != service.MaxListLimit || gotOpts.Offset != 0 {
		t.Errorf("unexpected options %+v", gotOpts)
	}
	var got []model.Inquiry
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].ID != "2" || got[1].ID != "1" {
		t.Errorf("expected service order preserved, got %+v", got)
	}
}

func TestInquiryHandler_AdminList_QueryParams(t *testing.T) {
	var gotOpts model.InquiryListOptions
	h := NewInquiryHandler(&mockInquiryService{
		listFunc: func(ctx context.Context, opts model.InquiryListOptions) ([]*model.Inquiry, error) {
			gotOpts = opts
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/inquiries?status=contacted&limit=50&offset=10", nil)
	rec := httptest.NewRecorder()
	h.AdminList(rec, req)

	if gotOpts.Filter != model.Filter(model.StatusContacted) || gotOpts.Limit != 50 || gotOpts.Offset != 10 {
		t.Errorf("unexpected options %+v", gotOpts)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected [] for empty list, got %s", body)
	}
}

func TestInquiryHandler_AdminList_OutOfRangeLimitIgnored(t *testing.T) {
	var gotOpts model.InquiryListOptions
	h := NewInquiryHandler(&mockInquiryService{
		listFunc: func(ctx context.Context, opts model.InquiryListOptions) ([]*model.Inquiry, error) {
			gotOpts = opts
			return nil, nil
		},
	})
	req := httptest.NewRequest(http.MethodGet, "/api/admin/inquiries?limit=5000&offset=-1", nil)
	h.AdminList(httptest.NewRecorder(), req)

	if gotOpts.Limit != service.MaxListLimit || gotOpts.Offset != 0 {
		t.Errorf("expected defaults for out-of-range params, got %+v", gotOpts)
	}
}

func TestInquiryHandler_AdminList_InvalidStatus(t *testing.T) {
	h := NewInquiryHandler(&mockInquiryService{})
	req := httptest.NewRequest(http.MethodGet, "/api/admin/inquiries?status=archived", nil)
	rec := httptest.NewRecorder()
	h.AdminList(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := errorCode(t, rec); got != "invalid_status" {
		t.Errorf("expected invalid_status, got %q", got)
	}
}

// ---------------------------------------------------------------------------
// PATCH /api/admin/inquiries/{id}
// ---------------------------------------------------------------------------

func patchRequest(id, query string) *http.Request {
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/inquiries/"+id+query, nil)
	req.SetPathValue("id", id)
	return req
}

func TestInquiryHandler_UpdateStatus_Success(t *testing.T) {
	var gotID string
	var gotStatus model.Status
	h := NewInquiryHandler(&mockInquiryService{
		updateStatusFunc: func(ctx context.Context, id string, status model.Status) error {
			gotID, gotStatus = id, status
			return nil
		},
	})
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, patchRequest("1", "?status=contacted"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != "1" || gotStatus != model.StatusContacted {
		t.Errorf("expected (1, contacted), got (%s, %s)", gotID, gotStatus)
	}
	var body map[string]string
	_ = json.NewDecoder(rec.Body).Decode(&body)
	if body["message"] != "Status updated successfully" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestInquiryHandler_UpdateStatus_InvalidStatus(t *testing.T) {
	called := false
	h := NewInquiryHandler(&mockInquiryService{
		updateStatusFunc: func(context.Context, string, model.Status) error {
			called = true
			return nil
		},
	})
	for _, q := range []string{"", "?status=", "?status=archived", "?status=all"} {
		rec := httptest.NewRecorder()
		h.UpdateStatus(rec, patchRequest("1", q))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%q: expected 400, got %d", q, rec.Code)
		}
	}
	if called {
		t.Error("service should not be called with an invalid status")
	}
}

func TestInquiryHandler_UpdateStatus_NotFound(t *testing.T) {
	h := NewInquiryHandler(&mockInquiryService{
		updateStatusFunc: func(context.Context, string, model.Status) error {
			return fmt.Errorf("update: %w", repository.ErrNotFound)
		},
	})
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, patchRequest("missing", "?status=closed"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if got := errorCode(t, rec); got != "not_found" {
		t.Errorf("expected not_found, got %q", got)
	}
}

func TestInquiryHandler_UpdateStatus_ServiceError(t *testing.T) {
	h := NewInquiryHandler(&mockInquiryService{
		updateStatusFunc: func(context.Context, string, model.Status) error {
			return errors.New("db down")
		},
	})
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, patchRequest("1", "?status=closed"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
