package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gatherly/gatherly/internal/domain/apperr"
	"github.com/gatherly/gatherly/internal/domain/entity"
	"github.com/gatherly/gatherly/internal/domain/repository"
)

type EventRepository struct {
	mu     sync.Mutex
	events map[string]*entity.Event
}

func NewEventRepository() *EventRepository {
	return &EventRepository{events: make(map[string]*entity.Event)}
}

func cloneEvent(e *entity.Event) *entity.Event {
	out := *e
	out.AttendeeIDs = append([]string(nil), e.AttendeeIDs...)
	return &out
}

func (r *EventRepository) Create(_ context.Context, e *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	e.ID = uuid.NewString()
	e.CreatedAt = now
	e.UpdatedAt = now
	r.events[e.ID] = cloneEvent(e)
	return nil
}

func (r *EventRepository) GetByID(_ context.Context, id string) (*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return cloneEvent(e), nil
}

func sortByDate(events []entity.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
}

func (r *EventRepository) ListPublished(_ context.Context) ([]entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Event
	for _, e := range r.events {
		if e.Status == entity.StatusPublished {
			out = append(out, *cloneEvent(e))
		}
	}
	sortByDate(out)
	return out, nil
}

func (r *EventRepository) ListByOrganizer(_ context.Context, organizerID string) ([]entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Event
	for _, e := range r.events {
		if e.OrganizerID == organizerID {
			out = append(out, *cloneEvent(e))
		}
	}
	sortByDate(out)
	return out, nil
}

func (r *EventRepository) ListByAttendee(_ context.Context, userID string) ([]entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Event
	for _, e := range r.events {
		if e.HasAttendee(userID) {
			out = append(out, *cloneEvent(e))
		}
	}
	sortByDate(out)
	return out, nil
}

func (r *EventRepository) Update(_ context.Context, e *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.events[e.ID]
	if !ok {
		return apperr.ErrNotFound
	}
	e.AttendeeIDs = append([]string(nil), stored.AttendeeIDs...)
	e.CreatedAt = stored.CreatedAt
	e.UpdatedAt = time.Now().UTC()
	r.events[e.ID] = cloneEvent(e)
	return nil
}

func (r *EventRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

// AddAttendee applies the published, duplicate and capacity checks and the
// append under one lock, mirroring the row-locked transaction of the
// postgres implementation.
func (r *EventRepository) AddAttendee(_ context.Context, eventID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[eventID]
	if !ok {
		return apperr.ErrNotFound
	}
	if e.Status != entity.StatusPublished {
		return apperr.ErrEventNotPublished
	}
	if e.HasAttendee(userID) {
		return apperr.ErrAlreadyRegistered
	}
	if len(e.AttendeeIDs) >= e.Capacity {
		return apperr.ErrEventFull
	}
	e.AttendeeIDs = append(e.AttendeeIDs, userID)
	return nil
}

func (r *EventRepository) RemoveAttendee(_ context.Context, eventID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[eventID]
	if !ok {
		return apperr.ErrNotFound
	}
	for i, id := range e.AttendeeIDs {
		if id == userID {
			e.AttendeeIDs = append(e.AttendeeIDs[:i], e.AttendeeIDs[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNotRegistered
}

var _ repository.EventRepository = (*EventRepository)(nil)
