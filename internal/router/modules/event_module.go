package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gatherly/gatherly/internal/container"
	handlers "github.com/gatherly/gatherly/internal/interface/http"
	"github.com/gatherly/gatherly/internal/interface/middleware"
)

// EventModule wires event browsing, organizer CRUD and registration.
// Public: GET /events, GET /events/search, GET /events/:id
// Protected: the create/edit forms, all mutating posts and the dashboard.
type EventModule struct {
	Handler *handlers.EventHandler
}

func NewEventModule(h *handlers.EventHandler) *EventModule {
	return &EventModule{Handler: h}
}

func (m *EventModule) Register(rg *gin.RouterGroup) {
	rg.GET("/events", m.Handler.List)
	rg.GET("/events/search", m.Handler.Search)
	rg.GET("/events/:id", m.Handler.Detail)

	auth := rg.Group("/")
	auth.Use(middleware.RequireAuth(container.GetSessions()))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.GET("/events/new", m.Handler.ShowCreate)
		auth.POST("/events", m.Handler.Create)
		auth.GET("/events/:id/edit", m.Handler.ShowEdit)
		auth.POST("/events/:id", m.Handler.Update)
		auth.POST("/events/:id/cancel", m.Handler.Cancel)
		auth.POST("/events/:id/delete", m.Handler.Delete)
		auth.POST("/events/:id/join", m.Handler.Join)
		auth.POST("/events/:id/leave", m.Handler.Leave)
		auth.GET("/dashboard", m.Handler.Dashboard)
	}
}
