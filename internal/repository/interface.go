package repository

import (
	"context"

	"github.com/kvbuilders/site/internal/model"
)

// DB checks that the backing store is reachable.
type DB interface {
	Ping(ctx context.Context) error
}

// InquiryRepository is the persistence interface for inquiries.
type InquiryRepository interface {
	DB
	// Save inserts a new inquiry. ID, Status and Timestamp must already be set.
	Save(ctx context.Context, inq *model.Inquiry) error
	// List returns inquiries newest first, filtered and paginated by opts.
	List(ctx context.Context, opts model.InquiryListOptions) ([]*model.Inquiry, error)
	// UpdateStatus sets the status of the inquiry with the given id.
	// It returns ErrNotFound when no such inquiry exists.
	UpdateStatus(ctx context.Context, id string, status model.Status) error
}
