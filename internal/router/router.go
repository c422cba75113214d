package router

import (
	"github.com/gin-gonic/gin"

	"regcheck/internal/domain"
	"regcheck/internal/handler"
	"regcheck/internal/middleware"
	"regcheck/internal/service"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Document *handler.DocumentHandler
	Verify   *handler.VerifyHandler
	Stats    *handler.StatsHandler
	Health   *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(authSvc service.AuthService, allowedOrigins []string, h Handlers) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	reviewers := middleware.RequireRole(domain.RoleAdmin, domain.RoleReviewer)

	docs := protected.Group("/documents")
	docs.POST("", h.Document.Upload)
	docs.GET("", h.Document.List)
	docs.GET("/export", reviewers, h.Document.Export)
	docs.GET("/:id", h.Document.GetByID)
	docs.GET("/:id/verification", h.Document.GetVerification)
	docs.GET("/:id/audit", h.Document.ListAudit)
	docs.GET("/:id/download", h.Document.Download)
	docs.POST("/:id/retry", h.Document.Retry)
	docs.POST("/:id/revalidate", reviewers, h.Document.Revalidate)
	docs.PUT("/:id/review", reviewers, h.Document.Review)

	protected.POST("/verify/text", h.Verify.VerifyText)
	protected.GET("/stats", h.Stats.GetStats)

	users := protected.Group("/users")
	users.POST("", middleware.RequireRole(domain.RoleAdmin), h.User.Create)
	users.GET("/me", h.User.Me)

	return r
}
