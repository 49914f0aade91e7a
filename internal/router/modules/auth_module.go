package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gatherly/gatherly/internal/container"
	handlers "github.com/gatherly/gatherly/internal/interface/http"
	"github.com/gatherly/gatherly/internal/interface/middleware"
)

// AuthModule wires the registration and login pages.
// Public: GET+POST /register, GET+POST /login
// Protected: POST /logout
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Credential posts get a tight per-IP limiter to slow guessing
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP())
	registerLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByIP())

	rg.GET("/register", m.Handler.ShowRegister)
	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.GET("/login", m.Handler.ShowLogin)
	rg.POST("/login", loginLimiter, m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.RequireAuth(container.GetSessions()))
	{
		auth.POST("/logout", m.Handler.Logout)
	}
}
