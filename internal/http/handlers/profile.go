package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/badgeboard/badgeboard-backend/internal/domain"
	"github.com/badgeboard/badgeboard-backend/internal/http/response"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/apperr"
	"github.com/badgeboard/badgeboard-backend/internal/services"
)

type ProfileHandler struct {
	profileService services.ProfileService
	badgeService   services.BadgeService
}

func NewProfileHandler(profileService services.ProfileService, badgeService services.BadgeService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, badgeService: badgeService}
}

// GET /profile/:id
func (h *ProfileHandler) GetDetail(c *gin.Context) {
	detail, err := h.profileService.GetDetail(c.Request.Context(), profileFrom(c))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, detail)
}

// GET /profile/:id/testimonials?order=&pageNum=&pageSize=
func (h *ProfileHandler) GetTestimonials(c *gin.Context) {
	page, err := h.profileService.GetTestimonials(c.Request.Context(), profileFrom(c), orderQuery(c), pageQuery(c))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, page)
}

// GET /profile/:id/comments?pageNum=&pageSize=
func (h *ProfileHandler) GetComments(c *gin.Context) {
	page, err := h.profileService.GetComments(c.Request.Context(), profileFrom(c), pageQuery(c))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, page)
}

// GET /profile/:id/badges?pageNum=&pageSize=
func (h *ProfileHandler) GetBadges(c *gin.Context) {
	page, err := h.profileService.GetBadges(c.Request.Context(), viewerFrom(c), profileFrom(c), pageQuery(c))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, page)
}

// GET /profile/:id/favorites?pageNum=&pageSize=
func (h *ProfileHandler) GetFavoriteBadges(c *gin.Context) {
	page, err := h.profileService.GetFavoriteBadges(c.Request.Context(), profileFrom(c), pageQuery(c))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, page)
}

// GET /profile/:id/notifications?pageNum=&pageSize=
func (h *ProfileHandler) GetNotifications(c *gin.Context) {
	page, err := h.profileService.GetNotifications(c.Request.Context(), profileFrom(c), pageQuery(c))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, page)
}

// GET /profile/:id/badge/:uid
func (h *ProfileHandler) GetUserBadge(c *gin.Context) {
	detail, err := h.badgeService.GetUserBadge(c.Request.Context(), profileFrom(c), badgeFrom(c))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, detail)
}

// POST /feedback
// body: { "message": "...", "appinfo": "...", "screenshots": [...] }
func (h *ProfileHandler) Feedback(c *gin.Context) {
	var req struct {
		Message     string              `json:"message"`
		AppInfo     string              `json:"appinfo"`
		Screenshots []domain.Screenshot `json:"screenshots"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAppError(c, apperr.Validation("invalid request body"))
		return
	}
	if err := h.profileService.Feedback(c.Request.Context(), req.Message, req.AppInfo, req.Screenshots); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"ok": true})
}
