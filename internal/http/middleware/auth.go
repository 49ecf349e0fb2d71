package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/badgeboard/badgeboard-backend/internal/http/response"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/apperr"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/logger"
	"github.com/badgeboard/badgeboard-backend/internal/requestdata"
	"github.com/badgeboard/badgeboard-backend/internal/services"
)

// ViewerKey is the gin context key the authenticated user is stored under.
const ViewerKey = "viewer"

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), authService: authService}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.RespondAppError(c, apperr.Unauthorized("missing or invalid token"))
			c.Abort()
			return
		}
		user, err := am.authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.RespondAppError(c, err)
			c.Abort()
			return
		}

		ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{
			UserID:     user.ID,
			IntranetID: user.IntranetID,
			Name:       user.Name,
			Photo:      user.Photo,
			Token:      token,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Set(ViewerKey, user)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
