package app

import (
	"github.com/badgeboard/badgeboard-backend/internal/http/middleware"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/logger"
)

type Middleware struct {
	Auth   *middleware.AuthMiddleware
	Entity *middleware.EntityMiddleware
}

func wireMiddleware(log *logger.Logger, s Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth:   middleware.NewAuthMiddleware(log, s.Auth),
		Entity: middleware.NewEntityMiddleware(log, s.Badge, s.Profile),
	}
}
