package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/badgeboard/badgeboard-backend/internal/http/response"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/logger"
	"github.com/badgeboard/badgeboard-backend/internal/services"
)

// Gin context keys for route-loaded entities.
const (
	AssertionKey   = "badgeAssertion"
	BadgeKey       = "badge"
	ProfileUserKey = "profileUser"
)

// EntityMiddleware resolves path parameters to documents before the handler
// runs, so missing entities fail uniformly with their not-found code.
type EntityMiddleware struct {
	log      *logger.Logger
	badges   services.BadgeService
	profiles services.ProfileService
}

func NewEntityMiddleware(log *logger.Logger, badges services.BadgeService, profiles services.ProfileService) *EntityMiddleware {
	return &EntityMiddleware{
		log:      log.With("middleware", "EntityMiddleware"),
		badges:   badges,
		profiles: profiles,
	}
}

// LoadAssertion resolves the :id path parameter to a badge assertion.
func (em *EntityMiddleware) LoadAssertion() gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := em.badges.GetAssertion(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.RespondAppError(c, err)
			c.Abort()
			return
		}
		c.Set(AssertionKey, a)
		c.Next()
	}
}

// LoadBadgeByUID resolves the :uid path parameter to a badge definition.
func (em *EntityMiddleware) LoadBadgeByUID() gin.HandlerFunc {
	return func(c *gin.Context) {
		b, err := em.badges.GetBadgeByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			response.RespondAppError(c, err)
			c.Abort()
			return
		}
		c.Set(BadgeKey, b)
		c.Next()
	}
}

// LoadProfileUser resolves the :id path parameter, an intranet id, to the
// user document it belongs to.
func (em *EntityMiddleware) LoadProfileUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := em.profiles.GetByIntranetID(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.RespondAppError(c, err)
			c.Abort()
			return
		}
		c.Set(ProfileUserKey, u)
		c.Next()
	}
}
