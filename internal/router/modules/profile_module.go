package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/gatherly/gatherly/internal/container"
	handlers "github.com/gatherly/gatherly/internal/interface/http"
	"github.com/gatherly/gatherly/internal/interface/middleware"
)

// ProfileModule wires the profile page, its edit form and avatar upload.
// All routes require a session.
type ProfileModule struct {
	Handler *handlers.ProfileHandler
}

func NewProfileModule(h *handlers.ProfileHandler) *ProfileModule {
	return &ProfileModule{Handler: h}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.RequireAuth(container.GetSessions()))
	{
		auth.GET("/profile", m.Handler.Show)
		auth.POST("/profile", m.Handler.Update)
		auth.POST("/profile/avatar", m.Handler.UploadAvatar)
	}
}
