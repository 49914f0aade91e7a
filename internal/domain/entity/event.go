package entity

import (
	"fmt"
	"time"
)

// Category classifies an event for browsing.
type Category string

const (
	CategoryConference Category = "Conference"
	CategoryWorkshop   Category = "Workshop"
	CategorySocial     Category = "Social"
	CategorySports     Category = "Sports"
	CategoryOther      Category = "Other"
)

// ParseCategory validates a user-supplied category value.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryConference, CategoryWorkshop, CategorySocial, CategorySports, CategoryOther:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Status is the lifecycle state of an event.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusPublished Status = "Published"
	StatusCancelled Status = "Cancelled"
	StatusCompleted Status = "Completed"
)

// ParseStatus validates a user-supplied status value.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusDraft, StatusPublished, StatusCancelled, StatusCompleted:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Event is the aggregate root for the event domain. AttendeeIDs holds user
// references only; they are resolved to users on read. The organizer is the
// sole authority allowed to mutate or delete the event.
type Event struct {
	ID          string
	Title       string
	Description string
	Date        time.Time
	StartTime   string
	Location    string
	Category    Category
	Capacity    int
	OrganizerID string
	Status      Status
	AttendeeIDs []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsFull reports whether no spots remain. Derived on demand, never stored.
func (e *Event) IsFull() bool {
	return len(e.AttendeeIDs) >= e.Capacity
}

// AvailableSpots returns the remaining capacity.
func (e *Event) AvailableSpots() int {
	n := e.Capacity - len(e.AttendeeIDs)
	if n < 0 {
		return 0
	}
	return n
}

// HasAttendee reports whether the given user is on the attendee list.
func (e *Event) HasAttendee(userID string) bool {
	for _, id := range e.AttendeeIDs {
		if id == userID {
			return true
		}
	}
	return false
}
