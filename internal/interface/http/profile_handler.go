package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gatherly/gatherly/config"
	"github.com/gatherly/gatherly/internal/application"
	"github.com/gatherly/gatherly/internal/domain/apperr"
	"github.com/gatherly/gatherly/internal/interface/middleware"
	"github.com/gatherly/gatherly/pkg/flash"
	"github.com/gatherly/gatherly/pkg/response"
)

// maxAvatarBytes caps avatar uploads at 5 MiB.
const maxAvatarBytes = 5 << 20

// ProfileHandler serves the profile page, its edit form and avatar upload.
type ProfileHandler struct {
	Profiles *application.ProfileService
	Logger   *logrus.Logger
	Cfg      *config.Config
}

func NewProfileHandler(profiles *application.ProfileService, logger *logrus.Logger, cfg *config.Config) *ProfileHandler {
	return &ProfileHandler{Profiles: profiles, Logger: logger, Cfg: cfg}
}

// Show GET /profile
func (h *ProfileHandler) Show(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)

	view, err := h.Profiles.Get(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "show profile", err)
		return
	}

	notice, _ := flash.Take(c)
	response.Success(c, http.StatusOK, gin.H{
		"page": "profile",
		"user": gin.H{
			"id":       view.User.ID,
			"username": view.User.Username,
			"email":    view.User.Email,
		},
		"profile": gin.H{
			"bio":          view.Profile.Bio,
			"avatar_url":   view.Profile.AvatarURL,
			"social_links": view.Profile.SocialLinks,
		},
		"flash": notice,
	}, "profile", nil)
}

type profileForm struct {
	Bio      string `form:"bio"`
	Twitter  string `form:"twitter"`
	LinkedIn string `form:"linkedin"`
	Website  string `form:"website"`
}

// Update POST /profile
func (h *ProfileHandler) Update(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)

	var f profileForm
	if err := c.ShouldBind(&f); err != nil {
		flash.Set(c, flash.Error("invalid form submission"))
		c.Redirect(http.StatusSeeOther, "/profile")
		return
	}

	links := map[string]string{}
	for key, val := range map[string]string{"twitter": f.Twitter, "linkedin": f.LinkedIn, "website": f.Website} {
		if v := strings.TrimSpace(val); v != "" {
			links[key] = v
		}
	}

	if _, err := h.Profiles.Update(c.Request.Context(), userID, application.UpdateInput{
		Bio:         f.Bio,
		SocialLinks: links,
	}); err != nil {
		if apperr.IsDomain(err) {
			flash.Set(c, flash.Error(err.Error()))
			c.Redirect(http.StatusSeeOther, "/profile")
			return
		}
		h.fail(c, "update profile", err)
		return
	}

	flash.Set(c, flash.Success("profile updated"))
	c.Redirect(http.StatusSeeOther, "/profile")
}

// UploadAvatar POST /profile/avatar
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)

	file, err := c.FormFile("avatar")
	if err != nil {
		flash.Set(c, flash.Error("no image in upload"))
		c.Redirect(http.StatusSeeOther, "/profile")
		return
	}
	if file.Size > maxAvatarBytes {
		flash.Set(c, flash.Error("image too large (max 5 MB)"))
		c.Redirect(http.StatusSeeOther, "/profile")
		return
	}

	src, err := file.Open()
	if err != nil {
		h.fail(c, "upload avatar", err)
		return
	}
	defer src.Close()

	if _, err := h.Profiles.UploadAvatar(c.Request.Context(), userID, src, file.Filename, file.Header.Get("Content-Type")); err != nil {
		h.fail(c, "upload avatar", err)
		return
	}

	flash.Set(c, flash.Success("avatar updated"))
	c.Redirect(http.StatusSeeOther, "/profile")
}

func (h *ProfileHandler) fail(c *gin.Context, op string, err error) {
	h.Logger.WithError(err).WithField("op", op).Error("internal error")
	var detail interface{}
	if h.Cfg.IsDevelopment() {
		detail = err.Error()
	}
	response.Error[any](c, http.StatusInternalServerError, "something went wrong", detail)
}
