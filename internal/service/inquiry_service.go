package service

import (
	"context"

	"github.com/kvbuilders/site/internal/model"
)

// MaxListLimit caps how many inquiries one List call returns.
const MaxListLimit = 1000

// InquiryService defines the business logic for contact-form inquiries.
type InquiryService interface {
	// Submit stores a new inquiry. ID, Status and Timestamp are assigned by
	// the implementation and written back into inq.
	Submit(ctx context.Context, inq *model.Inquiry) error

	// List returns inquiries newest first according to opts.
	List(ctx context.Context, opts model.InquiryListOptions) ([]*model.Inquiry, error)

	// UpdateStatus moves an inquiry to status. Only explicit admin action
	// changes a status; there are no automatic transitions.
	UpdateStatus(ctx context.Context, id string, status model.Status) error
}

// Notifier delivers notifications about a freshly stored inquiry.
type Notifier interface {
	// NotifyOwner tells the business about the inquiry.
	NotifyOwner(ctx context.Context, inq model.Inquiry) error
	// ConfirmCustomer acknowledges receipt to the submitter.
	ConfirmCustomer(ctx context.Context, inq model.Inquiry) error
}
