package app

import (
	"github.com/badgeboard/badgeboard-backend/internal/http/handlers"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/logger"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Badge   *handlers.BadgeHandler
	Profile *handlers.ProfileHandler
	Health  *handlers.HealthHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:    handlers.NewAuthHandler(s.Auth),
		Badge:   handlers.NewBadgeHandler(s.Badge),
		Profile: handlers.NewProfileHandler(s.Profile, s.Badge),
		Health:  handlers.NewHealthHandler(),
	}
}
