package router

import (
	"github.com/gin-gonic/gin"

	"freightiq/internal/domain"
	"freightiq/internal/handler"
	"freightiq/internal/middleware"
	"freightiq/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	allowedOrigins []string,
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	scoringH *handler.ScoringHandler,
	correctionH *handler.CorrectionHandler,
	suggestionH *handler.SuggestionHandler,
	learningH *handler.LearningHandler,
	forwarderH *handler.ForwarderHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Scoring and identification
	protected.POST("/documents/score", scoringH.ScoreDocument)
	protected.POST("/forwarders/identify", forwarderH.Identify)

	// Corrections and patterns
	protected.POST("/corrections", correctionH.Create)
	patterns := protected.Group("/patterns")
	patterns.GET("/:id", suggestionH.GetPattern)
	patterns.POST("/:id/suggestion",
		middleware.RequireRole(domain.RoleAdmin, domain.RoleReviewer),
		suggestionH.GenerateFromPattern)

	// Suggestion review queue
	suggestions := protected.Group("/suggestions")
	suggestions.GET("", suggestionH.List)
	suggestions.GET("/export",
		middleware.RequireRole(domain.RoleAdmin, domain.RoleReviewer),
		learningH.Export)
	suggestions.GET("/:id", suggestionH.Get)
	suggestions.POST("",
		middleware.RequireRole(domain.RoleAdmin, domain.RoleReviewer),
		suggestionH.CreateManual)
	suggestions.POST("/:id/review",
		middleware.RequireRole(domain.RoleAdmin, domain.RoleReviewer),
		suggestionH.Review)

	// Batch learning
	protected.POST("/learning/process",
		middleware.RequireRole(domain.RoleAdmin),
		learningH.Process)

	return r
}
