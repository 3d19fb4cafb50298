package model

import "errors"

// Filter selects a subset of inquiries by status.
type Filter string

// FilterAll matches every inquiry.
const FilterAll Filter = "all"

// Filters lists the filter options in display order.
var Filters = []Filter{FilterAll, Filter(StatusNew), Filter(StatusContacted), Filter(StatusClosed)}

// ErrInvalidFilter is returned for a filter outside Filters.
var ErrInvalidFilter = errors.New("invalid filter")

// ParseFilter converts s to a Filter. The empty string means FilterAll.
func ParseFilter(s string) (Filter, error) {
	if s == "" || Filter(s) == FilterAll {
		return FilterAll, nil
	}
	if !Status(s).Valid() {
		return "", ErrInvalidFilter
	}
	return Filter(s), nil
}

// Match reports whether an inquiry with status s belongs to f.
func (f Filter) Match(s Status) bool {
	if f == "" || f == FilterAll {
		return true
	}
	return Status(f) == s
}

// Count returns how many inquiries match f.
func (f Filter) Count(inquiries []Inquiry) int {
	if f == "" || f == FilterAll {
		return len(inquiries)
	}
	n := 0
	for _, inq := range inquiries {
		if f.Match(inq.Status) {
			n++
		}
	}
	return n
}
