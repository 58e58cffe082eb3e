package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "skillbox/docs/swagger"

	apimw "skillbox/internal/api/middleware"
	"skillbox/internal/obs"
	"skillbox/internal/routes"
)

func (s *Server) registerRoutes(rdb *redis.Client) {
	// Health check
	// @Summary Health check
	// @Description Check if the server is running
	// @Router /health [get]
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", echo.WrapHandler(obs.Handler()))
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	routes.SetupAuthRoutes(s.echo, s.db, s.config, s.services.Terms)

	// Everything else sits behind auth and the terms gate.
	api := s.echo.Group("/api/v1")
	auth := apimw.NewAuthMiddleware(s.db, s.config.JWT.Secret)
	api.Use(auth.Middleware())
	api.Use(apimw.TermsGate(s.services.Terms))

	var limiter *apimw.SlidingWindow
	if rdb != nil {
		limiter = apimw.NewSlidingWindow(rdb, "access_requests", time.Minute, 10)
	}

	routes.SetupCourseRoutes(api, s.services.Catalog, s.services.Downloads)
	routes.SetupAccessRoutes(api, s.services.Ledger, limiter)
	routes.SetupUserRoutes(api, s.services.Identity)
	routes.SetupExecutionRoutes(api, s.services.Executions)
	routes.SetupAnalyticsRoutes(api, s.services.Analytics)

	s.echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Skilling in a Box API")
	})
}
