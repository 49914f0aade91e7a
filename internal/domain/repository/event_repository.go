package repository

import (
	"context"

	"github.com/gatherly/gatherly/internal/domain/entity"
)

// EventRepository defines persistence for events and their attendee lists.
//
// AddAttendee is the serialization point for registration: the published
// check, the capacity check, the duplicate check and the append must hold
// at write time as one atomic operation. Implementations return the apperr
// sentinels (ErrNotFound, ErrEventNotPublished, ErrEventFull,
// ErrAlreadyRegistered, ErrNotRegistered) so callers can surface each
// violation distinctly.
type EventRepository interface {
	Create(ctx context.Context, e *entity.Event) error
	GetByID(ctx context.Context, id string) (*entity.Event, error)
	ListPublished(ctx context.Context) ([]entity.Event, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]entity.Event, error)
	ListByAttendee(ctx context.Context, userID string) ([]entity.Event, error)
	Update(ctx context.Context, e *entity.Event) error
	Delete(ctx context.Context, id string) error
	AddAttendee(ctx context.Context, eventID, userID string) error
	RemoveAttendee(ctx context.Context, eventID, userID string) error
}
