package app

import (
	"github.com/badgeboard/badgeboard-backend/internal/data/aggregates"
	"github.com/badgeboard/badgeboard-backend/internal/data/docstore"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/logger"
	"github.com/badgeboard/badgeboard-backend/internal/services"
)

type Services struct {
	Aggregates aggregates.Fetcher
	Auth       services.AuthService
	Badge      services.BadgeService
	Profile    services.ProfileService
}

func wireServices(store docstore.Store, log *logger.Logger, cfg Config, r Repos, clients Clients) Services {
	log.Info("Wiring services...")

	agg := aggregates.NewFetcher(store, log)
	authService := services.NewAuthService(r.User, services.NewAllowAllChecker(), cfg.JWTSecretKey, cfg.TokenTTL, log)
	badgeService := services.NewBadgeService(
		r.Assertion, r.Badge, r.User, r.Comment, r.Like, r.Favor, r.Search,
		agg, clients.Directory, log)
	profileService := services.NewProfileService(
		r.User, r.Assertion, r.Badge, r.Comment, r.Favor, r.Feedback,
		agg, clients.Directory, log)

	return Services{
		Aggregates: agg,
		Auth:       authService,
		Badge:      badgeService,
		Profile:    profileService,
	}
}
