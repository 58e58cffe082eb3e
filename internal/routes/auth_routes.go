package routes

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"skillbox/internal/api/middleware"
	"skillbox/internal/config"
	"skillbox/internal/handlers"
	"skillbox/internal/services"
)

func SetupAuthRoutes(e *echo.Echo, db *gorm.DB, cfg *config.Config, terms *services.Terms) {
	authHandler := handlers.NewAuthHandler(db, terms)

	base := e.Group("/api/v1")
	auth := base.Group("/auth")

	// Public routes (no auth required)
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected auth routes. Terms endpoints live here, outside the terms
	// gate itself, or nobody could ever accept them.
	protected := auth.Group("")
	authMiddleware := middleware.NewAuthMiddleware(db, cfg.JWT.Secret)
	protected.Use(authMiddleware.Middleware())

	protected.POST("/logout", authHandler.Logout)
	protected.GET("/me", authHandler.GetMe)
	protected.GET("/terms", authHandler.TermsStatus)
	protected.POST("/terms/accept", authHandler.AcceptTerms)
	protected.POST("/terms/decline", authHandler.DeclineTerms)
}
