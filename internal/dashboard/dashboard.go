// Package dashboard holds the state of the inquiry admin view: the password
// gate, the last confirmed inquiry snapshot, the selected filter and the
// notices shown to the admin.
//
// The password is only ever held in memory and is sent with every request.
// Unlocking the gate does not validate it; the first fetch does.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/kvbuilders/site/internal/model"
	"github.com/kvbuilders/site/pkg/inquiryclient"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrPasswordRequired is returned by Login for an empty password.
	ErrPasswordRequired = errors.New("dashboard: password required")
	// ErrLocked is returned when an operation needs an unlocked gate.
	ErrLocked = errors.New("dashboard: locked")
)

// Notice texts.
const (
	MsgIncorrectPassword = "Incorrect password"
	MsgLoadFailed        = "Failed to load inquiries"
	MsgStatusUpdated     = "Status updated successfully"
	MsgUpdateFailed      = "Failed to update status"
)

// NoticeKind distinguishes success from error notices.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a user-visible message.
type Notice struct {
	Kind NoticeKind
	Text string
}

// Dashboard is safe for concurrent use. Overlapping fetches with the same
// password are collapsed into one request.
type Dashboard struct {
	client inquiryclient.Client
	flight *singleflight.Group

	mu            sync.Mutex
	password      string
	authenticated bool
	inquiries     []model.Inquiry
	loading       bool
	filter        model.Filter
	notices       []Notice
}

// New returns a locked Dashboard with an empty list and the "all" filter.
func New(client inquiryclient.Client) *Dashboard {
	return NewShared(client, &singleflight.Group{})
}

// NewShared is New with a fetch group shared between dashboards, so views
// built per request still collapse overlapping fetches.
func NewShared(client inquiryclient.Client, flight *singleflight.Group) *Dashboard {
	return &Dashboard{
		client:    client,
		flight:    flight,
		inquiries: []model.Inquiry{},
		filter:    model.FilterAll,
	}
}

// Login unlocks the gate with password and runs the first fetch.
// A rejected password shows up as a fetch failure that relocks the gate.
func (d *Dashboard) Login(ctx context.Context, password string) error {
	if err := d.Resume(password); err != nil {
		return err
	}
	return d.Fetch(ctx)
}

// Resume unlocks the gate without fetching, for a view that already holds
// the password from an earlier Login.
func (d *Dashboard) Resume(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	d.mu.Lock()
	d.password = password
	d.authenticated = true
	d.mu.Unlock()
	return nil
}

// Fetch replaces the inquiry list with the server's collection.
//
//   - 401: notice MsgIncorrectPassword and the gate relocks; the list is untouched.
//   - any other failure: notice MsgLoadFailed; state is left as it was.
//   - success: the list is replaced wholesale, in server order.
func (d *Dashboard) Fetch(ctx context.Context) error {
	d.mu.Lock()
	if !d.authenticated {
		d.mu.Unlock()
		return ErrLocked
	}
	password := d.password
	d.loading = true
	d.mu.Unlock()

	// Concurrent callers with the same password share one request.
	v, err, _ := d.flight.Do(password, func() (any, error) {
		return d.client.ListInquiries(ctx, password)
	})

	d.mu.Lock()
	defer d.mu.Unlock()
	d.loading = false

	if err != nil {
		if errors.Is(err, inquiryclient.ErrUnauthorized) {
			d.authenticated = false
			d.addNotice(NoticeError, MsgIncorrectPassword)
		} else {
			slog.Warn("fetch inquiries failed", "error", err)
			d.addNotice(NoticeError, MsgLoadFailed)
		}
		return err
	}

	inquiries := v.([]model.Inquiry)
	d.inquiries = make([]model.Inquiry, len(inquiries))
	copy(d.inquiries, inquiries)
	return nil
}

// UpdateStatus asks the server to move inquiry id to status. On success it
// posts MsgStatusUpdated and re-fetches the whole list; the local list is
// never patched in place. On failure it posts MsgUpdateFailed and leaves the
// list as it was.
func (d *Dashboard) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	if !status.Valid() {
		return model.ErrInvalidStatus
	}

	d.mu.Lock()
	if !d.authenticated {
		d.mu.Unlock()
		return ErrLocked
	}
	password := d.password
	d.mu.Unlock()

	if err := d.client.UpdateStatus(ctx, password, id, status); err != nil {
		slog.Warn("update inquiry status failed", "inquiry_id", id, "status", status, "error", err)
		d.mu.Lock()
		d.addNotice(NoticeError, MsgUpdateFailed)
		d.mu.Unlock()
		return err
	}

	d.mu.Lock()
	d.addNotice(NoticeSuccess, MsgStatusUpdated)
	d.mu.Unlock()

	return d.Fetch(ctx)
}

// SetFilter selects which statuses the view shows.
func (d *Dashboard) SetFilter(f model.Filter) error {
	parsed, err := model.ParseFilter(string(f))
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.filter = parsed
	d.mu.Unlock()
	return nil
}

// Filter returns the selected filter.
func (d *Dashboard) Filter() model.Filter {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filter
}

// Authenticated reports whether the gate is unlocked.
func (d *Dashboard) Authenticated() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.authenticated
}

// Loading reports whether a fetch is outstanding. Refresh controls should be
// disabled while it is true.
func (d *Dashboard) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}

// Inquiries returns a copy of the last confirmed server snapshot.
func (d *Dashboard) Inquiries() []model.Inquiry {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]model.Inquiry, len(d.inquiries))
	copy(out, d.inquiries)
	return out
}

// Restore replaces the list with a snapshot from an earlier fetch, for a
// view that carries the list between requests.
func (d *Dashboard) Restore(inquiries []model.Inquiry) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inquiries = make([]model.Inquiry, len(inquiries))
	copy(d.inquiries, inquiries)
}

// TakeNotices returns and clears the pending notices.
func (d *Dashboard) TakeNotices() []Notice {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := d.notices
	d.notices = nil
	return n
}

func (d *Dashboard) addNotice(kind NoticeKind, text string) {
	d.notices = append(d.notices, Notice{Kind: kind, Text: text})
}
