package dashboard

import (
	"strconv"
	"strings"
	"time"

	"github.com/kvbuilders/site/internal/model"
)

// Action is a status transition offered for one inquiry.
type Action struct {
	Label  string
	Status model.Status
}

// Actions returns a transition for every status the inquiry does not have,
// in the order contacted, closed, new.
func Actions(inq model.Inquiry) []Action {
	order := []model.Status{model.StatusContacted, model.StatusClosed, model.StatusNew}
	actions := make([]Action, 0, len(order))
	for _, s := range order {
		if s == inq.Status {
			continue
		}
		actions = append(actions, Action{Label: "Mark " + title(string(s)), Status: s})
	}
	return actions
}

// FilterOption is one entry of the filter bar.
type FilterOption struct {
	Filter model.Filter
	Label  string // e.g. "New (1)"
	Count  int
	Active bool
}

// Item is one rendered inquiry card. Hidden cards are outside the selected
// filter; the page can still show them without a round-trip.
type Item struct {
	model.Inquiry
	Received string
	Actions  []Action
	Hidden   bool
}

// View is everything the admin page renders.
type View struct {
	Authenticated bool
	Password      string
	Total         string // e.g. "2 inquiries"
	Filter        model.Filter
	Filters       []FilterOption
	// Items holds the whole snapshot in server order.
	Items   []Item
	Visible int
	Notices []Notice
}

// View snapshots the dashboard for rendering and drains its notices.
// Counts and the filtered list are derived from the same snapshot.
func (d *Dashboard) View() View {
	d.mu.Lock()
	all := make([]model.Inquiry, len(d.inquiries))
	copy(all, d.inquiries)
	v := View{
		Authenticated: d.authenticated,
		Password:      d.password,
		Filter:        d.filter,
		Notices:       d.notices,
	}
	d.notices = nil
	d.mu.Unlock()

	v.Total = strconv.Itoa(len(all)) + " inquiries"
	for _, f := range model.Filters {
		n := f.Count(all)
		v.Filters = append(v.Filters, FilterOption{
			Filter: f,
			Label:  title(string(f)) + " (" + strconv.Itoa(n) + ")",
			Count:  n,
			Active: f == v.Filter,
		})
	}
	for _, inq := range all {
		hidden := !v.Filter.Match(inq.Status)
		if !hidden {
			v.Visible++
		}
		v.Items = append(v.Items, Item{
			Inquiry:  inq,
			Received: formatReceived(inq.Timestamp),
			Actions:  Actions(inq),
			Hidden:   hidden,
		})
	}
	return v
}

func formatReceived(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2 Jan 2006, 03:04 PM")
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
