package app

import (
	"github.com/gin-gonic/gin"

	"github.com/badgeboard/badgeboard-backend/internal/pkg/logger"
	"github.com/badgeboard/badgeboard-backend/internal/server"
)

func wireRouter(log *logger.Logger, h Handlers, m Middleware) *gin.Engine {
	log.Info("Wiring router...")
	return server.NewRouter(server.RouterConfig{
		Log:              log,
		AuthHandler:      h.Auth,
		BadgeHandler:     h.Badge,
		ProfileHandler:   h.Profile,
		HealthHandler:    h.Health,
		AuthMiddleware:   m.Auth,
		EntityMiddleware: m.Entity,
	})
}
