package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/badgeboard/badgeboard-backend/internal/http/handlers"
	"github.com/badgeboard/badgeboard-backend/internal/http/middleware"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log              *logger.Logger
	AuthHandler      *handlers.AuthHandler
	BadgeHandler     *handlers.BadgeHandler
	ProfileHandler   *handlers.ProfileHandler
	HealthHandler    *handlers.HealthHandler
	AuthMiddleware   *middleware.AuthMiddleware
	EntityMiddleware *middleware.EntityMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Log))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:80", "http://localhost:3000", "http://localhost:5174"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	api := router.Group("/api/v1")
	api.POST("/login", cfg.AuthHandler.Login)

	// Protected
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	protected.POST("/logout", cfg.AuthHandler.Logout)

	// Badge stream and search
	protected.GET("/badges", cfg.BadgeHandler.Stream)
	protected.GET("/badges/:badgeId/earners", cfg.BadgeHandler.GetEarnersByBadge)
	protected.GET("/search", cfg.BadgeHandler.Search)

	// Single assertion
	assertion := protected.Group("/badge/:id")
	assertion.Use(cfg.EntityMiddleware.LoadAssertion())
	assertion.GET("", cfg.BadgeHandler.GetDetail)
	assertion.GET("/earners", cfg.BadgeHandler.GetEarners)
	assertion.GET("/comments", cfg.BadgeHandler.GetComments)
	assertion.POST("/comments", cfg.BadgeHandler.Comment)
	assertion.PUT("/like", cfg.BadgeHandler.Like)
	assertion.PUT("/unlike", cfg.BadgeHandler.Unlike)
	assertion.PUT("/publish", cfg.BadgeHandler.Publish)
	assertion.PUT("/unpublish", cfg.BadgeHandler.Unpublish)

	protected.DELETE("/comment/:id", cfg.BadgeHandler.DeleteComment)

	// Badge definition bookmarks
	protected.PUT("/favorite/:id", cfg.BadgeHandler.Favor)
	protected.DELETE("/favorite/:id", cfg.BadgeHandler.Unfavor)

	// Profiles, :id is an intranet id
	profile := protected.Group("/profile/:id")
	profile.Use(cfg.EntityMiddleware.LoadProfileUser())
	profile.GET("", cfg.ProfileHandler.GetDetail)
	profile.GET("/testimonials", cfg.ProfileHandler.GetTestimonials)
	profile.GET("/comments", cfg.ProfileHandler.GetComments)
	profile.GET("/badges", cfg.ProfileHandler.GetBadges)
	profile.GET("/favorites", cfg.ProfileHandler.GetFavoriteBadges)
	profile.GET("/notifications", cfg.ProfileHandler.GetNotifications)
	profile.GET("/badge/:uid", cfg.EntityMiddleware.LoadBadgeByUID(), cfg.ProfileHandler.GetUserBadge)

	protected.POST("/feedback", cfg.ProfileHandler.Feedback)

	return router
}
