package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/gatherly/gatherly/internal/domain/apperr"
	"github.com/gatherly/gatherly/internal/domain/entity"
	"github.com/gatherly/gatherly/internal/domain/repository"
	"github.com/gatherly/gatherly/pkg/helpers"
	"github.com/gatherly/gatherly/pkg/mailer"
)

// EventService orchestrates event CRUD, the registration transitions and
// the side channels (confirmation emails, search indexing). Mail, ES and
// Logger are optional; a nil value disables that channel.
type EventService struct {
	Events  repository.EventRepository
	Users   repository.UserRepository
	Mail    *helpers.RabbitPublisher
	ES      *elasticsearch.Client
	ESIndex string
	Logger  *logrus.Logger
}

func NewEventService(events repository.EventRepository, users repository.UserRepository, mail *helpers.RabbitPublisher, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *EventService {
	return &EventService{Events: events, Users: users, Mail: mail, ES: es, ESIndex: esIndex, Logger: logger}
}

// EventInput is the create/update form payload.
type EventInput struct {
	Title       string
	Description string
	Date        string // 2006-01-02
	StartTime   string // 15:04
	Location    string
	Category    string
	Capacity    int
	Status      string
}

func (s *EventService) validate(in EventInput, creating bool) (*entity.Event, error) {
	fields := map[string]string{}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		fields["title"] = "is required"
	}
	location := strings.TrimSpace(in.Location)
	if location == "" {
		fields["location"] = "is required"
	}

	var date time.Time
	if in.Date == "" {
		fields["date"] = "is required"
	} else {
		var err error
		date, err = time.Parse("2006-01-02", in.Date)
		if err != nil {
			fields["date"] = "must match the format 2006-01-02"
		}
	}
	if in.StartTime != "" {
		if _, err := time.Parse("15:04", in.StartTime); err != nil {
			fields["start_time"] = "must match the format 15:04"
		}
	}

	if in.Capacity < 1 {
		fields["capacity"] = "must be at least 1"
	}

	category := entity.CategoryOther
	if in.Category != "" {
		var err error
		category, err = entity.ParseCategory(in.Category)
		if err != nil {
			fields["category"] = "must be one of: Conference, Workshop, Social, Sports, Other"
		}
	}

	status := entity.StatusPublished
	if in.Status != "" {
		var err error
		status, err = entity.ParseStatus(in.Status)
		if err != nil {
			fields["status"] = "must be one of: Draft, Published, Cancelled, Completed"
		} else if creating && status != entity.StatusDraft && status != entity.StatusPublished {
			fields["status"] = "new events start as Draft or Published"
		}
	}

	if len(fields) > 0 {
		return nil, &apperr.ValidationError{Fields: fields}
	}
	return &entity.Event{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Date:        date,
		StartTime:   in.StartTime,
		Location:    location,
		Category:    category,
		Capacity:    in.Capacity,
		Status:      status,
	}, nil
}

// Create persists a new event with the acting user as organizer.
func (s *EventService) Create(ctx context.Context, organizerID string, in EventInput) (*entity.Event, error) {
	e, err := s.validate(in, true)
	if err != nil {
		return nil, err
	}
	e.OrganizerID = organizerID
	if err := s.Events.Create(ctx, e); err != nil {
		return nil, err
	}
	s.indexEvent(ctx, e)
	return e, nil
}

// List returns Published events in ascending date order.
func (s *EventService) List(ctx context.Context) ([]entity.Event, error) {
	return s.Events.ListPublished(ctx)
}

// EventDetail is an event with its references resolved to users.
type EventDetail struct {
	Event     *entity.Event
	Organizer *entity.User
	Attendees []entity.User
}

// Get returns one event with organizer and attendees resolved.
func (s *EventService) Get(ctx context.Context, id string) (*EventDetail, error) {
	e, err := s.Events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	organizer, err := s.Users.GetByID(ctx, e.OrganizerID)
	if err != nil {
		return nil, err
	}
	attendees, err := s.Users.GetByIDs(ctx, e.AttendeeIDs)
	if err != nil {
		return nil, err
	}
	return &EventDetail{Event: e, Organizer: organizer, Attendees: attendees}, nil
}

// requireOrganizer loads the event and rejects any actor other than its
// organizer.
func (s *EventService) requireOrganizer(ctx context.Context, actorID, eventID string) (*entity.Event, error) {
	e, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if e.OrganizerID != actorID {
		return nil, apperr.ErrNotAuthorized
	}
	return e, nil
}

// Update replaces the mutable fields of an event. Organizer only.
func (s *EventService) Update(ctx context.Context, actorID, eventID string, in EventInput) (*entity.Event, error) {
	current, err := s.requireOrganizer(ctx, actorID, eventID)
	if err != nil {
		return nil, err
	}
	e, err := s.validate(in, false)
	if err != nil {
		return nil, err
	}
	if e.Capacity < len(current.AttendeeIDs) {
		return nil, apperr.Validation("capacity", "cannot drop below the current attendee count")
	}
	e.ID = current.ID
	e.OrganizerID = current.OrganizerID
	if err := s.Events.Update(ctx, e); err != nil {
		return nil, err
	}
	s.indexEvent(ctx, e)
	return e, nil
}

// Cancel marks the event Cancelled. Organizer only.
func (s *EventService) Cancel(ctx context.Context, actorID, eventID string) error {
	e, err := s.requireOrganizer(ctx, actorID, eventID)
	if err != nil {
		return err
	}
	e.Status = entity.StatusCancelled
	if err := s.Events.Update(ctx, e); err != nil {
		return err
	}
	s.indexEvent(ctx, e)
	return nil
}

// Delete removes the event. Organizer only.
func (s *EventService) Delete(ctx context.Context, actorID, eventID string) error {
	if _, err := s.requireOrganizer(ctx, actorID, eventID); err != nil {
		return err
	}
	if err := s.Events.Delete(ctx, eventID); err != nil {
		return err
	}
	s.removeFromIndex(ctx, eventID)
	return nil
}

// Join registers the user for the event. The capacity and duplicate checks
// happen atomically in the repository; on success a confirmation email job
// is enqueued.
func (s *EventService) Join(ctx context.Context, userID, eventID string) error {
	if err := s.Events.AddAttendee(ctx, eventID, userID); err != nil {
		return err
	}
	s.enqueueEmail(ctx, userID, eventID, "registration_confirmed")
	return nil
}

// Leave removes the user from the attendee list.
func (s *EventService) Leave(ctx context.Context, userID, eventID string) error {
	if err := s.Events.RemoveAttendee(ctx, eventID, userID); err != nil {
		return err
	}
	s.enqueueEmail(ctx, userID, eventID, "registration_cancelled")
	return nil
}

// Dashboard bundles the events a user organizes and attends.
type Dashboard struct {
	Organizing []entity.Event
	Attending  []entity.Event
}

func (s *EventService) DashboardFor(ctx context.Context, userID string) (*Dashboard, error) {
	organizing, err := s.Events.ListByOrganizer(ctx, userID)
	if err != nil {
		return nil, err
	}
	attending, err := s.Events.ListByAttendee(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Organizing: organizing, Attending: attending}, nil
}

func (s *EventService) enqueueEmail(ctx context.Context, userID, eventID, template string) {
	if s.Mail == nil {
		return
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return
	}
	e, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: template,
		Data: map[string]any{
			"Username":      u.Username,
			"EventTitle":    e.Title,
			"EventDate":     e.Date.Format("2006-01-02"),
			"EventLocation": e.Location,
		},
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("event_id", eventID).Warn("enqueue email failed")
	}
}

// indexEvent pushes the event into Elasticsearch, best effort.
func (s *EventService) indexEvent(ctx context.Context, e *entity.Event) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          e.ID,
		"title":       e.Title,
		"description": e.Description,
		"location":    e.Location,
		"category":    e.Category,
		"status":      e.Status,
		"date":        e.Date.Format("2006-01-02"),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: e.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("event_id", e.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("event_id", e.ID).Warn("es index response error")
	}
}

func (s *EventService) removeFromIndex(ctx context.Context, eventID string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: eventID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		return
	}
	_ = res.Body.Close()
}

// Search runs a multi_match query over title and description. Returns an
// empty slice when search is not configured.
func (s *EventService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "description", "location"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
