package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"flexreviews/pkg/logger"
	"flexreviews/pkg/metrics"
)

const serviceName = "reviews-service"

type Handlers struct {
	Reviews  *ReviewHandler
	Listings *ListingHandler
	Auth     *AuthHandler
	Google   *GoogleHandler
	Health   *HealthHandler
}

// SetupRoutes настраивает все маршруты приложения с использованием Gin
func SetupRoutes(h Handlers, authMiddleware *AuthMiddleware, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())

	router.Use(logger.GinLoggerMiddleware())

	router.Use(metrics.GinPrometheusMiddleware(serviceName))

	// Дашборд работает с cookie сессии, поэтому origin перечисляются явно
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", h.Health.Health)
	router.GET("/health/readiness", h.Health.Readiness)
	router.GET("/health/liveness", h.Health.Liveness)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)

		protected := auth.Group("")
		protected.Use(authMiddleware.Authenticate())
		{
			protected.POST("/logout", h.Auth.Logout)
			protected.GET("/me", h.Auth.Me)
		}
	}

	api := router.Group("/api")
	{
		api.GET("/listings", h.Listings.GetListings)
		api.GET("/properties/:slug", h.Listings.GetProperty)

		api.GET("/reviews", h.Reviews.ListReviews)
		api.GET("/reviews/hostaway", h.Reviews.HostawayReviews)
		api.GET("/reviews/google", h.Google.PlaceReviews)

		manager := api.Group("")
		manager.Use(authMiddleware.Authenticate())
		{
			manager.PATCH("/reviews/approve", h.Reviews.ApproveReview)
			manager.POST("/reviews/import/hostaway", h.Reviews.ImportHostaway)
			manager.GET("/dashboard/overview", h.Listings.DashboardOverview)
			manager.GET("/dashboard/listings/:listingId", h.Listings.ListingDashboard)
		}
	}

	return router
}
