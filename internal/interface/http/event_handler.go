package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gatherly/gatherly/config"
	"github.com/gatherly/gatherly/internal/application"
	"github.com/gatherly/gatherly/internal/domain/apperr"
	"github.com/gatherly/gatherly/internal/domain/entity"
	"github.com/gatherly/gatherly/internal/interface/middleware"
	"github.com/gatherly/gatherly/pkg/flash"
	"github.com/gatherly/gatherly/pkg/response"
)

// EventHandler serves event browsing, the organizer CRUD forms and the
// attend/unattend posts.
type EventHandler struct {
	Events *application.EventService
	Logger *logrus.Logger
	Cfg    *config.Config
}

func NewEventHandler(events *application.EventService, logger *logrus.Logger, cfg *config.Config) *EventHandler {
	return &EventHandler{Events: events, Logger: logger, Cfg: cfg}
}

// eventView is the render shape for one event.
type eventView struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Date           string   `json:"date"`
	StartTime      string   `json:"start_time"`
	Location       string   `json:"location"`
	Category       string   `json:"category"`
	Capacity       int      `json:"capacity"`
	OrganizerID    string   `json:"organizer_id"`
	Status         string   `json:"status"`
	AttendeeCount  int      `json:"attendee_count"`
	AvailableSpots int      `json:"available_spots"`
	IsFull         bool     `json:"is_full"`
	AttendeeIDs    []string `json:"attendee_ids,omitempty"`
}

func toEventView(e *entity.Event) eventView {
	return eventView{
		ID:             e.ID,
		Title:          e.Title,
		Description:    e.Description,
		Date:           e.Date.Format("2006-01-02"),
		StartTime:      e.StartTime,
		Location:       e.Location,
		Category:       string(e.Category),
		Capacity:       e.Capacity,
		OrganizerID:    e.OrganizerID,
		Status:         string(e.Status),
		AttendeeCount:  len(e.AttendeeIDs),
		AvailableSpots: e.AvailableSpots(),
		IsFull:         e.IsFull(),
		AttendeeIDs:    e.AttendeeIDs,
	}
}

func toEventViews(es []entity.Event) []eventView {
	out := make([]eventView, 0, len(es))
	for i := range es {
		out = append(out, toEventView(&es[i]))
	}
	return out
}

// List GET /events
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.Events.List(c.Request.Context())
	if err != nil {
		h.fail(c, "list events", err)
		return
	}
	notice, _ := flash.Take(c)
	response.Success(c, http.StatusOK, gin.H{
		"page":   "events",
		"events": toEventViews(events),
		"flash":  notice,
	}, "published events", nil)
}

// Search GET /events/search?q=...
func (h *EventHandler) Search(c *gin.Context) {
	q := c.Query("q")
	size := 20
	if v := c.Query("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			size = n
		}
	}
	hits, err := h.Events.Search(c.Request.Context(), q, size)
	if err != nil {
		h.fail(c, "search events", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"query": q, "hits": hits}, "search results", nil)
}

// ShowCreate GET /events/new
func (h *EventHandler) ShowCreate(c *gin.Context) {
	notice, _ := flash.Take(c)
	response.Success(c, http.StatusOK, gin.H{"page": "event_form", "flash": notice}, "event form", nil)
}

type eventForm struct {
	Title       string `form:"title" binding:"required,max=200"`
	Description string `form:"description"`
	Date        string `form:"date" binding:"required,datetime=2006-01-02"`
	StartTime   string `form:"start_time" binding:"omitempty,datetime=15:04"`
	Location    string `form:"location" binding:"required"`
	Category    string `form:"category" binding:"required"`
	Capacity    int    `form:"capacity" binding:"required,gte=1"`
	Status      string `form:"status" binding:"omitempty,oneof=Draft Published Cancelled Completed"`
}

func (f eventForm) toInput() application.EventInput {
	return application.EventInput{
		Title:       f.Title,
		Description: f.Description,
		Date:        f.Date,
		StartTime:   f.StartTime,
		Location:    f.Location,
		Category:    f.Category,
		Capacity:    f.Capacity,
		Status:      f.Status,
	}
}

// Create POST /events
func (h *EventHandler) Create(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)

	var f eventForm
	if err := c.ShouldBind(&f); err != nil {
		flash.Set(c, flash.Error(bindMessage(err)))
		c.Redirect(http.StatusSeeOther, "/events/new")
		return
	}

	e, err := h.Events.Create(c.Request.Context(), userID, f.toInput())
	if err != nil {
		if apperr.IsDomain(err) {
			flash.Set(c, flash.Error(err.Error()))
			c.Redirect(http.StatusSeeOther, "/events/new")
			return
		}
		h.fail(c, "create event", err)
		return
	}

	flash.Set(c, flash.Success("event created"))
	c.Redirect(http.StatusSeeOther, "/events/"+e.ID)
}

// Detail GET /events/:id
func (h *EventHandler) Detail(c *gin.Context) {
	id := c.Param("id")
	detail, err := h.Events.Get(c.Request.Context(), id)
	if err != nil {
		if apperr.IsDomain(err) {
			flash.Set(c, flash.Error("event not found"))
			c.Redirect(http.StatusSeeOther, "/events")
			return
		}
		h.fail(c, "event detail", err)
		return
	}

	userID := c.GetString(middleware.CtxUserIDKey)
	attendees := make([]gin.H, 0, len(detail.Attendees))
	for i := range detail.Attendees {
		attendees = append(attendees, gin.H{
			"id":       detail.Attendees[i].ID,
			"username": detail.Attendees[i].Username,
		})
	}

	notice, _ := flash.Take(c)
	payload := gin.H{
		"page":      "event_detail",
		"event":     toEventView(detail.Event),
		"attendees": attendees,
		"flash":     notice,
	}
	if detail.Organizer != nil {
		payload["organizer"] = gin.H{"id": detail.Organizer.ID, "username": detail.Organizer.Username}
	}
	if userID != "" {
		payload["is_organizer"] = detail.Event.OrganizerID == userID
		payload["is_attending"] = detail.Event.HasAttendee(userID)
	}
	response.Success(c, http.StatusOK, payload, "event detail", nil)
}

// ShowEdit GET /events/:id/edit
func (h *EventHandler) ShowEdit(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString(middleware.CtxUserIDKey)

	detail, err := h.Events.Get(c.Request.Context(), id)
	if err != nil {
		if apperr.IsDomain(err) {
			flash.Set(c, flash.Error("event not found"))
			c.Redirect(http.StatusSeeOther, "/events")
			return
		}
		h.fail(c, "edit event form", err)
		return
	}
	if detail.Event.OrganizerID != userID {
		flash.Set(c, flash.Error(apperr.ErrNotAuthorized.Error()))
		c.Redirect(http.StatusSeeOther, "/events/"+id)
		return
	}

	notice, _ := flash.Take(c)
	response.Success(c, http.StatusOK, gin.H{
		"page":  "event_form",
		"event": toEventView(detail.Event),
		"flash": notice,
	}, "event form", nil)
}

// Update POST /events/:id
func (h *EventHandler) Update(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString(middleware.CtxUserIDKey)

	var f eventForm
	if err := c.ShouldBind(&f); err != nil {
		flash.Set(c, flash.Error(bindMessage(err)))
		c.Redirect(http.StatusSeeOther, "/events/"+id+"/edit")
		return
	}

	if _, err := h.Events.Update(c.Request.Context(), userID, id, f.toInput()); err != nil {
		if apperr.IsDomain(err) {
			flash.Set(c, flash.Error(err.Error()))
			c.Redirect(http.StatusSeeOther, "/events/"+id+"/edit")
			return
		}
		h.fail(c, "update event", err)
		return
	}

	flash.Set(c, flash.Success("event updated"))
	c.Redirect(http.StatusSeeOther, "/events/"+id)
}

// Cancel POST /events/:id/cancel
func (h *EventHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString(middleware.CtxUserIDKey)

	if err := h.Events.Cancel(c.Request.Context(), userID, id); err != nil {
		if apperr.IsDomain(err) {
			flash.Set(c, flash.Error(err.Error()))
			c.Redirect(http.StatusSeeOther, "/events/"+id)
			return
		}
		h.fail(c, "cancel event", err)
		return
	}

	flash.Set(c, flash.Success("event cancelled"))
	c.Redirect(http.StatusSeeOther, "/events/"+id)
}

// Delete POST /events/:id/delete
func (h *EventHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString(middleware.CtxUserIDKey)

	if err := h.Events.Delete(c.Request.Context(), userID, id); err != nil {
		if apperr.IsDomain(err) {
			flash.Set(c, flash.Error(err.Error()))
			c.Redirect(http.StatusSeeOther, "/events/"+id)
			return
		}
		h.fail(c, "delete event", err)
		return
	}

	flash.Set(c, flash.Success("event deleted"))
	c.Redirect(http.StatusSeeOther, "/events")
}

// Join POST /events/:id/join
func (h *EventHandler) Join(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString(middleware.CtxUserIDKey)

	if err := h.Events.Join(c.Request.Context(), userID, id); err != nil {
		if apperr.IsDomain(err) {
			flash.Set(c, flash.Error(err.Error()))
			c.Redirect(http.StatusSeeOther, "/events/"+id)
			return
		}
		h.fail(c, "join event", err)
		return
	}

	flash.Set(c, flash.Success("you are registered for this event"))
	c.Redirect(http.StatusSeeOther, "/events/"+id)
}

// Leave POST /events/:id/leave
func (h *EventHandler) Leave(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString(middleware.CtxUserIDKey)

	if err := h.Events.Leave(c.Request.Context(), userID, id); err != nil {
		if apperr.IsDomain(err) {
			flash.Set(c, flash.Error(err.Error()))
			c.Redirect(http.StatusSeeOther, "/events/"+id)
			return
		}
		h.fail(c, "leave event", err)
		return
	}

	flash.Set(c, flash.Success("your registration was cancelled"))
	c.Redirect(http.StatusSeeOther, "/events/"+id)
}

// Dashboard GET /dashboard
func (h *EventHandler) Dashboard(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)

	dash, err := h.Events.DashboardFor(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "dashboard", err)
		return
	}

	notice, _ := flash.Take(c)
	response.Success(c, http.StatusOK, gin.H{
		"page":       "dashboard",
		"organizing": toEventViews(dash.Organizing),
		"attending":  toEventViews(dash.Attending),
		"flash":      notice,
		"now":        time.Now().Format("2006-01-02"),
	}, "dashboard", nil)
}

func (h *EventHandler) fail(c *gin.Context, op string, err error) {
	h.Logger.WithError(err).WithField("op", op).Error("internal error")
	var detail interface{}
	if h.Cfg.IsDevelopment() {
		detail = err.Error()
	}
	response.Error[any](c, http.StatusInternalServerError, "something went wrong", detail)
}
