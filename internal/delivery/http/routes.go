package http

import (
	"github.com/fragrancefinder/backend/config"
	"github.com/gin-gonic/gin"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.SetHTMLTemplate(loadTemplates())

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// Pages
	router.GET("/", handler.AccordsPage)
	router.POST("/", handler.SubmitAccords)
	router.GET("/similar", handler.SimilarPage)
	router.POST("/similar", handler.SubmitSimilar)
	if cfg.UI.ImagePath != "" {
		router.StaticFile(imageURL, cfg.UI.ImagePath)
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/accords", handler.ListAccords)

		recommendations := v1.Group("/recommendations")
		{
			recommendations.POST("/accords", handler.RecommendByAccords)
			recommendations.POST("/similar", handler.RecommendSimilar)
		}
	}

	return router
}
