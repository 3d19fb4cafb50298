package model

import (
	"errors"
	"time"
)

// Status is the lifecycle state of an inquiry.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusClosed    Status = "closed"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusNew, StatusContacted, StatusClosed}

// ErrInvalidStatus is returned when a string is not one of Statuses.
var ErrInvalidStatus = errors.New("invalid status")

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusClosed:
		return true
	}
	return false
}

// ParseStatus converts s to a Status, rejecting anything outside the enum.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// Inquiry is a customer-submitted contact-form record.
// ID and Timestamp are assigned by the backend and never change afterwards.
type Inquiry struct {
	ID        string    `json:"id" bson:"id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Service   string    `json:"service" bson:"service"`
	Message   string    `json:"message" bson:"message"`
	Status    Status    `json:"status" bson:"status"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// InquiryListOptions carries filter and pagination parameters for listing inquiries.
type InquiryListOptions struct {
	// Filter restricts the result to one status. FilterAll (or "") returns everything.
	Filter Filter
	Limit  int
	Offset int
}
