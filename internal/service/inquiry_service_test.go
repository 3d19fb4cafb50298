package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kvbuilders/site/internal/model"
	"github.com/kvbuilders/site/internal/repository"
)

// ---------------------------------------------------------------------------
// mockInquiryRepository is an in-memory stub.
// ---------------------------------------------------------------------------

type mockInquiryRepository struct {
	saveFunc         func(ctx context.Context, inq *model.Inquiry) error
	listFunc         func(ctx context.Context, opts model.InquiryListOptions) ([]*model.Inquiry, error)
	updateStatusFunc func(ctx context.Context, id string, status model.Status) error
}

func (m *mockInquiryRepository) Ping(ctx context.Context) error { return nil }

func (m *mockInquiryRepository) Save(ctx context.Context, inq *model.Inquiry) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, inq)
	}
	return nil
}

func (m *mockInquiryRepository) List(ctx context.Context, opts model.InquiryListOptions) ([]*model.Inquiry, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return nil, nil
}

func (m *mockInquiryRepository) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	owner    []model.Inquiry
	customer []model.Inquiry
	ownerErr error
}

func (n *recordingNotifier) NotifyOwner(ctx context.Context, inq model.Inquiry) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.owner = append(n.owner, inq)
	return n.ownerErr
}

func (n *recordingNotifier) ConfirmCustomer(ctx context.Context, inq model.Inquiry) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.customer = append(n.customer, inq)
	return nil
}

func newTestService(repo repository.InquiryRepository, n Notifier) *inquiryServiceImpl {
	svc := NewInquiryService(repo, n).(*inquiryServiceImpl)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	svc.newID = func() string { return "fixed-id" }
	svc.dispatch = func(f func()) { f() }
	return svc
}

// ---------------------------------------------------------------------------
// Submit tests
// ---------------------------------------------------------------------------

func TestInquiryService_Submit_AssignsBackendFields(t *testing.T) {
	var saved *model.Inquiry
	repo := &mockInquiryRepository{
		saveFunc: func(ctx context.Context, inq *model.Inquiry) error {
			saved = inq
			return nil
		},
	}
	svc := newTestService(repo, nil)

	inq := &model.Inquiry{Name: "Asha", Email: "asha@example.com", Service: "Construction", Message: "Hi", Status: model.StatusClosed}
	if err := svc.Submit(context.Background(), inq); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved == nil {
		t.Fatal("expected Save to be called")
	}
	if saved.ID != "fixed-id" {
		t.Errorf("expected id=fixed-id, got %q", saved.ID)
	}
	if saved.Status != model.StatusNew {
		t.Errorf("expected status=new regardless of input, got %q", saved.Status)
	}
	if !saved.Timestamp.Equal(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected timestamp %v", saved.Timestamp)
	}
}

func TestInquiryService_Submit_NotifiesAfterSave(t *testing.T) {
	n := &recordingNotifier{}
	svc := newTestService(&mockInquiryRepository{}, n)

	inq := &model.Inquiry{Name: "Ravi", Email: "ravi@example.com", Service: "Interior Works", Message: "Quote please"}
	if err := svc.Submit(context.Background(), inq); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(n.owner) != 1 || n.owner[0].ID != "fixed-id" {
		t.Errorf("expected one owner notification for fixed-id, got %+v", n.owner)
	}
	if len(n.customer) != 1 || n.customer[0].Email != "ravi@example.com" {
		t.Errorf("expected one customer confirmation, got %+v", n.customer)
	}
}

func TestInquiryService_Submit_NotifierErrorDoesNotFail(t *testing.T) {
	n := &recordingNotifier{ownerErr: errors.New("smtp down")}
	svc := newTestService(&mockInquiryRepository{}, n)

	if err := svc.Submit(context.Background(), &model.Inquiry{Name: "x", Email: "x@example.com"}); err != nil {
		t.Fatalf("notification failure must not fail submission, got %v", err)
	}
	if len(n.customer) != 1 {
		t.Error("customer confirmation should still be attempted after owner failure")
	}
}

func TestInquiryService_Submit_SaveErrorSkipsNotify(t *testing.T) {
	n := &recordingNotifier{}
	repo := &mockInquiryRepository{
		saveFunc: func(ctx context.Context, inq *model.Inquiry) error {
			return errors.New("db connection lost")
		},
	}
	svc := newTestService(repo, n)

	if err := svc.Submit(context.Background(), &model.Inquiry{}); err == nil {
		t.Fatal("expected error from Save to propagate")
	}
	if len(n.owner)+len(n.customer) != 0 {
		t.Error("no notification should be sent when the inquiry was not stored")
	}
}

// ---------------------------------------------------------------------------
// List tests
// ---------------------------------------------------------------------------

func TestInquiryService_List_ClampsLimit(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{0, MaxListLimit},
		{-5, MaxListLimit},
		{5000, MaxListLimit},
		{25, 25},
	}
	for _, tc := range cases {
		var captured model.InquiryListOptions
		repo := &mockInquiryRepository{
			listFunc: func(ctx context.Context, opts model.InquiryListOptions) ([]*model.Inquiry, error) {
				captured = opts
				return nil, nil
			},
		}
		svc := newTestService(repo, nil)
		if _, err := svc.List(context.Background(), model.InquiryListOptions{Limit: tc.in, Offset: -1}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if captured.Limit != tc.want {
			t.Errorf("limit %d: expected %d, got %d", tc.in, tc.want, captured.Limit)
		}
		if captured.Offset != 0 {
			t.Errorf("expected negative offset clamped to 0, got %d", captured.Offset)
		}
	}
}

// ---------------------------------------------------------------------------
// UpdateStatus tests
// ---------------------------------------------------------------------------

func TestInquiryService_UpdateStatus_RejectsUnknownStatus(t *testing.T) {
	called := false
	repo := &mockInquiryRepository{
		updateStatusFunc: func(ctx context.Context, id string, status model.Status) error {
			called = true
			return nil
		},
	}
	svc := newTestService(repo, nil)

	err := svc.UpdateStatus(context.Background(), "1", model.Status("archived"))
	if !errors.Is(err, model.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if called {
		t.Error("repository must not be called with an invalid status")
	}
}

func TestInquiryService_UpdateStatus_PropagatesNotFound(t *testing.T) {
	repo := &mockInquiryRepository{
		updateStatusFunc: func(ctx context.Context, id string, status model.Status) error {
			return repository.ErrNotFound
		},
	}
	svc := newTestService(repo, nil)

	err := svc.UpdateStatus(context.Background(), "missing", model.StatusClosed)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
