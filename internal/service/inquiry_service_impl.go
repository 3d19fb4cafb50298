package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kvbuilders/site/internal/model"
	"github.com/kvbuilders/site/internal/repository"
)

const notifyTimeout = 30 * time.Second

// inquiryServiceImpl is the production implementation of InquiryService.
type inquiryServiceImpl struct {
	repo     repository.InquiryRepository
	notifier Notifier

	now      func() time.Time
	newID    func() string
	dispatch func(func())
}

// NewInquiryService creates an InquiryService backed by repo. notifier may be
// nil, in which case no notifications are sent.
func NewInquiryService(repo repository.InquiryRepository, notifier Notifier) InquiryService {
	return &inquiryServiceImpl{
		repo:     repo,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
		dispatch: func(f func()) { go f() },
	}
}

// Submit assigns a UUID, status "new" and the current time, persists the
// inquiry, then sends notifications in the background. Notification failures
// are logged and never fail the submission.
func (s *inquiryServiceImpl) Submit(ctx context.Context, inq *model.Inquiry) error {
	inq.ID = s.newID()
	inq.Status = model.StatusNew
	inq.Timestamp = s.now()

	if err := s.repo.Save(ctx, inq); err != nil {
		return err
	}

	if s.notifier != nil {
		snapshot := *inq
		s.dispatch(func() { s.notify(snapshot) })
	}
	return nil
}

func (s *inquiryServiceImpl) notify(inq model.Inquiry) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := s.notifier.NotifyOwner(ctx, inq); err != nil {
		slog.Warn("owner notification failed", "inquiry_id", inq.ID, "error", err)
	}
	if err := s.notifier.ConfirmCustomer(ctx, inq); err != nil {
		slog.Warn("customer confirmation failed", "inquiry_id", inq.ID, "error", err)
	}
}

// List clamps the limit into 1..MaxListLimit and a negative offset to 0.
func (s *inquiryServiceImpl) List(ctx context.Context, opts model.InquiryListOptions) ([]*model.Inquiry, error) {
	if opts.Limit <= 0 || opts.Limit > MaxListLimit {
		opts.Limit = MaxListLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.repo.List(ctx, opts)
}

func (s *inquiryServiceImpl) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	if !status.Valid() {
		return model.ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, id, status)
}
