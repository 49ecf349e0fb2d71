package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/badgeboard/badgeboard-backend/internal/domain"
	"github.com/badgeboard/badgeboard-backend/internal/http/response"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/apperr"
	"github.com/badgeboard/badgeboard-backend/internal/services"
)

type BadgeHandler struct {
	badgeService services.BadgeService
}

func NewBadgeHandler(badgeService services.BadgeService) *BadgeHandler {
	return &BadgeHandler{badgeService: badgeService}
}

// GET /badges?pageNum=&pageSize=
func (h *BadgeHandler) Stream(c *gin.Context) {
	page, err := h.badgeService.Stream(c.Request.Context(), viewerFrom(c), pageQuery(c))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, page)
}

// GET /badge/:id
func (h *BadgeHandler) GetDetail(c *gin.Context) {
	detail, err := h.badgeService.GetDetail(c.Request.Context(), viewerFrom(c), assertionFrom(c))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, detail)
}

// GET /badge/:id/earners?order=
func (h *BadgeHandler) GetEarners(c *gin.Context) {
	earners, err := h.badgeService.GetEarners(c.Request.Context(), viewerFrom(c), assertionFrom(c).BadgeID, orderQuery(c))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"earners": earners})
}

// GET /badges/:badgeId/earners?order=
func (h *BadgeHandler) GetEarnersByBadge(c *gin.Context) {
	earners, err := h.badgeService.GetEarners(c.Request.Context(), viewerFrom(c), c.Param("badgeId"), orderQuery(c))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"earners": earners})
}

// GET /badge/:id/comments?order=&pageNum=&pageSize=
func (h *BadgeHandler) GetComments(c *gin.Context) {
	page, err := h.badgeService.GetComments(c.Request.Context(), assertionFrom(c), orderQuery(c), pageQuery(c))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, page)
}

// POST /badge/:id/comments
// body: { "comment": "..." }
func (h *BadgeHandler) Comment(c *gin.Context) {
	var req struct {
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAppError(c, apperr.Validation("invalid request body"))
		return
	}
	created, err := h.badgeService.Comment(c.Request.Context(), viewerFrom(c), assertionFrom(c), req.Comment)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, created)
}

// DELETE /comment/:id
func (h *BadgeHandler) DeleteComment(c *gin.Context) {
	if err := h.badgeService.DeleteComment(c.Request.Context(), c.Param("id")); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// PUT /badge/:id/like
func (h *BadgeHandler) Like(c *gin.Context) {
	if err := h.badgeService.Like(c.Request.Context(), viewerFrom(c), assertionFrom(c)); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// PUT /badge/:id/unlike
func (h *BadgeHandler) Unlike(c *gin.Context) {
	if err := h.badgeService.Unlike(c.Request.Context(), viewerFrom(c), assertionFrom(c)); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// PUT /favorite/:id, :id is a badge definition id
func (h *BadgeHandler) Favor(c *gin.Context) {
	if err := h.badgeService.Favor(c.Request.Context(), viewerFrom(c), c.Param("id")); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// DELETE /favorite/:id
func (h *BadgeHandler) Unfavor(c *gin.Context) {
	if err := h.badgeService.Unfavor(c.Request.Context(), viewerFrom(c), c.Param("id")); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// PUT /badge/:id/publish
func (h *BadgeHandler) Publish(c *gin.Context) {
	if err := h.badgeService.Publish(c.Request.Context(), viewerFrom(c), assertionFrom(c)); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// PUT /badge/:id/unpublish
func (h *BadgeHandler) Unpublish(c *gin.Context) {
	if err := h.badgeService.Unpublish(c.Request.Context(), viewerFrom(c), assertionFrom(c)); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /search?criteria=&pageNum=&pageSize=&searchUsers=&excludeFavoriteBadges=&excludeEarnedBadges=&skills=a,b
func (h *BadgeHandler) Search(c *gin.Context) {
	filters := domain.SearchFilters{
		SearchUsers:           boolQuery(c, "searchUsers"),
		ExcludeFavoriteBadges: boolQuery(c, "excludeFavoriteBadges"),
		ExcludeEarnedBadges:   boolQuery(c, "excludeEarnedBadges"),
	}
	if raw := c.Query("skills"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filters.Skills = append(filters.Skills, s)
			}
		}
	}
	page, err := h.badgeService.Search(c.Request.Context(), viewerFrom(c), c.Query("criteria"), filters, pageQuery(c))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, page)
}
