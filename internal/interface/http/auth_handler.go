package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gatherly/gatherly/config"
	"github.com/gatherly/gatherly/internal/application"
	"github.com/gatherly/gatherly/internal/domain/apperr"
	"github.com/gatherly/gatherly/internal/session"
	"github.com/gatherly/gatherly/pkg/flash"
	"github.com/gatherly/gatherly/pkg/response"
)

// AuthHandler serves the registration and login pages and their form posts.
// Form posts answer with a redirect plus a one-time flash result; page GETs
// answer with the render context for the view layer.
type AuthHandler struct {
	Auth   *application.AuthService
	Logger *logrus.Logger
	Cfg    *config.Config
}

func NewAuthHandler(auth *application.AuthService, logger *logrus.Logger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{Auth: auth, Logger: logger, Cfg: cfg}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, token, int(h.Cfg.SessionTTL.Seconds()), "/", h.Cfg.CookieDomain, h.Cfg.CookieSecure, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, "", -1, "/", h.Cfg.CookieDomain, h.Cfg.CookieSecure, true)
}

// ShowRegister GET /register
func (h *AuthHandler) ShowRegister(c *gin.Context) {
	notice, _ := flash.Take(c)
	response.Success(c, http.StatusOK, gin.H{"page": "register", "flash": notice}, "register form", nil)
}

type registerForm struct {
	Username        string `form:"username" binding:"required,max=50"`
	Email           string `form:"email" binding:"required,email"`
	Password        string `form:"password" binding:"required,pwd"`
	ConfirmPassword string `form:"confirm_password" binding:"required,eqfield=Password"`
}

// Register POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var f registerForm
	if err := c.ShouldBind(&f); err != nil {
		flash.Set(c, flash.Error(bindMessage(err)))
		c.Redirect(http.StatusSeeOther, "/register")
		return
	}

	_, err := h.Auth.Register(c.Request.Context(), application.RegisterInput{
		Username:        f.Username,
		Email:           f.Email,
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
	})
	if err != nil {
		if apperr.IsDomain(err) {
			flash.Set(c, flash.Error(err.Error()))
			c.Redirect(http.StatusSeeOther, "/register")
			return
		}
		h.fail(c, "register", err)
		return
	}

	flash.Set(c, flash.Success("account created, you can now log in"))
	c.Redirect(http.StatusSeeOther, "/login")
}

// ShowLogin GET /login
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	notice, _ := flash.Take(c)
	response.Success(c, http.StatusOK, gin.H{"page": "login", "flash": notice}, "login form", nil)
}

type loginForm struct {
	Identity string `form:"identity"` // username or email
	Password string `form:"password"`
}

// Login POST /login
//
// Any authentication failure answers with the same flash message, so the
// response does not reveal whether the account exists.
func (h *AuthHandler) Login(c *gin.Context) {
	var f loginForm
	if err := c.ShouldBind(&f); err != nil {
		flash.Set(c, flash.Error(apperr.ErrInvalidCredentials.Error()))
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	user, err := h.Auth.Authenticate(c.Request.Context(), f.Identity, f.Password)
	if err != nil {
		if apperr.IsDomain(err) {
			flash.Set(c, flash.Error(apperr.ErrInvalidCredentials.Error()))
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		h.fail(c, "login", err)
		return
	}

	token, err := h.Auth.EstablishSession(c.Request.Context(), user.ID)
	if err != nil {
		h.fail(c, "login", err)
		return
	}

	h.setSessionCookie(c, token)
	c.Redirect(http.StatusSeeOther, "/events")
}

// Logout POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(session.CookieName); err == nil && token != "" {
		if err := h.Auth.DestroySession(c.Request.Context(), token); err != nil {
			h.Logger.WithError(err).Warn("session destroy failed")
		}
	}
	h.clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, "/login")
}

// fail handles unexpected (non-domain) errors: log the cause, show the
// user nothing beyond a generic message.
func (h *AuthHandler) fail(c *gin.Context, op string, err error) {
	h.Logger.WithError(err).WithField("op", op).Error("internal error")
	var detail interface{}
	if h.Cfg.IsDevelopment() {
		detail = err.Error()
	}
	response.Error[any](c, http.StatusInternalServerError, "something went wrong", detail)
}
