package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/gatherly/gatherly/config"
	"github.com/gatherly/gatherly/internal/application"
	"github.com/gatherly/gatherly/internal/infrastructure/memory"
	"github.com/gatherly/gatherly/internal/interface/middleware"
	"github.com/gatherly/gatherly/internal/session"
	"github.com/gatherly/gatherly/pkg/flash"
	"github.com/gatherly/gatherly/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

// testApp wires the handlers against in-memory backends, mounted on the
// same route table the server uses.
type testApp struct {
	router   *gin.Engine
	users    *memory.UserRepository
	events   *memory.EventRepository
	sessions *session.MemoryStore
	auth     *application.AuthService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{Env: "test", SessionTTL: time.Hour}

	users := memory.NewUserRepository()
	events := memory.NewEventRepository()
	profiles := memory.NewProfileRepository()
	sessions := session.NewMemoryStore(time.Hour)

	authSvc := application.NewAuthService(users, sessions, logger)
	eventSvc := application.NewEventService(events, users, nil, nil, "", logger)
	profileSvc := application.NewProfileService(profiles, users, nil, "")

	authH := NewAuthHandler(authSvc, logger, cfg)
	eventH := NewEventHandler(eventSvc, logger, cfg)
	profileH := NewProfileHandler(profileSvc, logger, cfg)

	r := gin.New()
	guard := middleware.RequireAuth(sessions)

	r.GET("/register", authH.ShowRegister)
	r.POST("/register", authH.Register)
	r.GET("/login", authH.ShowLogin)
	r.POST("/login", authH.Login)
	r.POST("/logout", authH.Logout)

	r.GET("/events", eventH.List)
	r.GET("/events/new", guard, eventH.ShowCreate)
	r.POST("/events", guard, eventH.Create)
	r.GET("/events/:id", eventH.Detail)
	r.GET("/events/:id/edit", guard, eventH.ShowEdit)
	r.POST("/events/:id", guard, eventH.Update)
	r.POST("/events/:id/cancel", guard, eventH.Cancel)
	r.POST("/events/:id/delete", guard, eventH.Delete)
	r.POST("/events/:id/join", guard, eventH.Join)
	r.POST("/events/:id/leave", guard, eventH.Leave)
	r.GET("/dashboard", guard, eventH.Dashboard)

	r.GET("/profile", guard, profileH.Show)
	r.POST("/profile", guard, profileH.Update)

	return &testApp{router: r, users: users, events: events, sessions: sessions, auth: authSvc}
}

func (a *testApp) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// signUp registers a user directly through the service and returns a live
// session cookie for them.
func (a *testApp) signUp(t *testing.T, username, email string) (string, *http.Cookie) {
	t.Helper()
	u, err := a.auth.Register(context.Background(), application.RegisterInput{
		Username:        username,
		Email:           email,
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	token, err := a.sessions.Establish(context.Background(), u.ID)
	require.NoError(t, err)
	return u.ID, &http.Cookie{Name: session.CookieName, Value: token}
}

// takeFlash decodes the flash cookie set on a response, if any.
func takeFlash(t *testing.T, w *httptest.ResponseRecorder) (flash.Result, bool) {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name != "flash" || ck.Value == "" {
			continue
		}
		b, err := base64.RawURLEncoding.DecodeString(ck.Value)
		require.NoError(t, err)
		var r flash.Result
		require.NoError(t, json.Unmarshal(b, &r))
		return r, true
	}
	return flash.Result{}, false
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == session.CookieName {
			return ck
		}
	}
	return nil
}
