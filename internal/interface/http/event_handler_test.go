package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatherly/gatherly/internal/domain/entity"
	"github.com/gatherly/gatherly/pkg/flash"
	"github.com/gatherly/gatherly/pkg/response"
)

func eventFormValues(title string, capacity, status string) url.Values {
	return url.Values{
		"title":       {title},
		"description": {"a gathering"},
		"date":        {time.Now().AddDate(0, 1, 0).Format("2006-01-02")},
		"start_time":  {"18:30"},
		"location":    {"Community Hall"},
		"category":    {"Social"},
		"capacity":    {capacity},
		"status":      {status},
	}
}

// seedEvent stores a published event directly in the repository.
func (a *testApp) seedEvent(t *testing.T, organizerID string, capacity int) *entity.Event {
	t.Helper()
	e := &entity.Event{
		Title:       "Seeded Meetup",
		Description: "pre-existing",
		Date:        time.Now().AddDate(0, 1, 0),
		StartTime:   "19:00",
		Location:    "Downtown",
		Category:    entity.CategorySocial,
		Capacity:    capacity,
		OrganizerID: organizerID,
		Status:      entity.StatusPublished,
	}
	require.NoError(t, a.events.Create(context.Background(), e))
	return e
}

func decodeEnvelope(t *testing.T, body []byte) response.APIResponse[map[string]any] {
	t.Helper()
	var env response.APIResponse[map[string]any]
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

func TestCreateEventRedirectsToDetail(t *testing.T) {
	app := newTestApp(t)
	userID, ck := app.signUp(t, "organizer", "org@example.com")

	w := app.postForm("/events", eventFormValues("Launch Party", "25", "Published"), ck)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	loc := w.Header().Get("Location")
	require.Regexp(t, `^/events/.+`, loc)

	id := loc[len("/events/"):]
	e, err := app.events.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Launch Party", e.Title)
	assert.Equal(t, userID, e.OrganizerID)
}

func TestCreateEventValidationRedirectsBack(t *testing.T) {
	app := newTestApp(t)
	_, ck := app.signUp(t, "organizer", "org@example.com")

	w := app.postForm("/events", eventFormValues("", "0", "Published"), ck)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/events/new", w.Header().Get("Location"))

	notice, ok := takeFlash(t, w)
	require.True(t, ok)
	assert.Equal(t, flash.KindError, notice.Kind)
}

func TestListShowsOnlyPublished(t *testing.T) {
	app := newTestApp(t)
	userID, _ := app.signUp(t, "organizer", "org@example.com")

	published := app.seedEvent(t, userID, 10)
	draft := &entity.Event{
		Title:       "Hidden Draft",
		Date:        time.Now().AddDate(0, 2, 0),
		StartTime:   "10:00",
		Location:    "Nowhere",
		Category:    entity.CategoryOther,
		Capacity:    5,
		OrganizerID: userID,
		Status:      entity.StatusDraft,
	}
	require.NoError(t, app.events.Create(context.Background(), draft))

	w := app.get("/events")
	require.Equal(t, http.StatusOK, w.Code)

	env := decodeEnvelope(t, w.Body.Bytes())
	events, ok := env.Data["events"].([]any)
	require.True(t, ok)
	require.Len(t, events, 1)
	first, ok := events[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, published.ID, first["id"])
}

func TestDetailUnknownEventRedirects(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/events/no-such-id")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/events", w.Header().Get("Location"))
}

func TestJoinThenDetailShowsAttendance(t *testing.T) {
	app := newTestApp(t)
	orgID, _ := app.signUp(t, "organizer", "org@example.com")
	_, ck := app.signUp(t, "guest", "guest@example.com")
	e := app.seedEvent(t, orgID, 10)

	w := app.postForm("/events/"+e.ID+"/join", nil, ck)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/events/"+e.ID, w.Header().Get("Location"))

	notice, ok := takeFlash(t, w)
	require.True(t, ok)
	assert.Equal(t, flash.KindSuccess, notice.Kind)

	detail := app.get("/events/"+e.ID, ck)
	require.Equal(t, http.StatusOK, detail.Code)
	env := decodeEnvelope(t, detail.Body.Bytes())
	assert.Equal(t, true, env.Data["is_attending"])
}

func TestJoinFullEventFlashesError(t *testing.T) {
	app := newTestApp(t)
	orgID, _ := app.signUp(t, "organizer", "org@example.com")
	firstID, _ := app.signUp(t, "first", "first@example.com")
	_, ck := app.signUp(t, "late", "late@example.com")

	e := app.seedEvent(t, orgID, 1)
	require.NoError(t, app.events.AddAttendee(context.Background(), e.ID, firstID))

	w := app.postForm("/events/"+e.ID+"/join", nil, ck)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/events/"+e.ID, w.Header().Get("Location"))

	notice, ok := takeFlash(t, w)
	require.True(t, ok)
	assert.Equal(t, flash.KindError, notice.Kind)
	assert.Contains(t, notice.Message, "full")
}

func TestJoinTwiceFlashesError(t *testing.T) {
	app := newTestApp(t)
	orgID, _ := app.signUp(t, "organizer", "org@example.com")
	_, ck := app.signUp(t, "guest", "guest@example.com")
	e := app.seedEvent(t, orgID, 10)

	first := app.postForm("/events/"+e.ID+"/join", nil, ck)
	require.Equal(t, http.StatusSeeOther, first.Code)

	second := app.postForm("/events/"+e.ID+"/join", nil, ck)
	assert.Equal(t, http.StatusSeeOther, second.Code)

	notice, ok := takeFlash(t, second)
	require.True(t, ok)
	assert.Equal(t, flash.KindError, notice.Kind)
	assert.Contains(t, notice.Message, "already registered")

	got, err := app.events.GetByID(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Len(t, got.AttendeeIDs, 1)
}

func TestLeaveAfterJoin(t *testing.T) {
	app := newTestApp(t)
	orgID, _ := app.signUp(t, "organizer", "org@example.com")
	_, ck := app.signUp(t, "guest", "guest@example.com")
	e := app.seedEvent(t, orgID, 10)

	require.Equal(t, http.StatusSeeOther, app.postForm("/events/"+e.ID+"/join", nil, ck).Code)

	w := app.postForm("/events/"+e.ID+"/leave", nil, ck)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	notice, ok := takeFlash(t, w)
	require.True(t, ok)
	assert.Equal(t, flash.KindSuccess, notice.Kind)

	got, err := app.events.GetByID(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Empty(t, got.AttendeeIDs)
}

func TestUpdateByNonOrganizerIsRejected(t *testing.T) {
	app := newTestApp(t)
	orgID, _ := app.signUp(t, "organizer", "org@example.com")
	_, otherCk := app.signUp(t, "other", "other@example.com")
	e := app.seedEvent(t, orgID, 10)

	w := app.postForm("/events/"+e.ID, eventFormValues("Hijacked", "10", "Published"), otherCk)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/events/"+e.ID+"/edit", w.Header().Get("Location"))

	notice, ok := takeFlash(t, w)
	require.True(t, ok)
	assert.Equal(t, flash.KindError, notice.Kind)

	got, err := app.events.GetByID(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Seeded Meetup", got.Title)
}

func TestCancelByOrganizer(t *testing.T) {
	app := newTestApp(t)
	orgID, ck := app.signUp(t, "organizer", "org@example.com")
	e := app.seedEvent(t, orgID, 10)

	w := app.postForm("/events/"+e.ID+"/cancel", nil, ck)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	got, err := app.events.GetByID(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, got.Status)
}

func TestDeleteByOrganizerRedirectsToList(t *testing.T) {
	app := newTestApp(t)
	orgID, ck := app.signUp(t, "organizer", "org@example.com")
	e := app.seedEvent(t, orgID, 10)

	w := app.postForm("/events/"+e.ID+"/delete", nil, ck)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/events", w.Header().Get("Location"))

	_, err := app.events.GetByID(context.Background(), e.ID)
	assert.Error(t, err)
}

func TestDashboardSplitsOrganizingAndAttending(t *testing.T) {
	app := newTestApp(t)
	orgID, _ := app.signUp(t, "organizer", "org@example.com")
	guestID, ck := app.signUp(t, "guest", "guest@example.com")

	hosted := app.seedEvent(t, orgID, 10)
	require.NoError(t, app.events.AddAttendee(context.Background(), hosted.ID, guestID))

	own := app.seedEvent(t, guestID, 5)

	w := app.get("/dashboard", ck)
	require.Equal(t, http.StatusOK, w.Code)

	env := decodeEnvelope(t, w.Body.Bytes())
	organizing, ok := env.Data["organizing"].([]any)
	require.True(t, ok)
	attending, ok := env.Data["attending"].([]any)
	require.True(t, ok)

	require.Len(t, organizing, 1)
	require.Len(t, attending, 1)
	assert.Equal(t, own.ID, organizing[0].(map[string]any)["id"])
	assert.Equal(t, hosted.ID, attending[0].(map[string]any)["id"])
}
