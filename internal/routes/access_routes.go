package routes

import (
	"github.com/labstack/echo/v4"

	"skillbox/internal/api/middleware"
	"skillbox/internal/handlers"
	"skillbox/internal/models"
	"skillbox/internal/services"
	"skillbox/internal/utils/logger"
)

// SetupAccessRoutes wires the access-request ledger. Submissions carry a
// per-user rate limit on top of the duplicate-pending rule.
func SetupAccessRoutes(api *echo.Group, ledger *services.Ledger, limiter *middleware.SlidingWindow) {
	log := logger.New("access_routes")

	accessHandler := handlers.NewAccessHandler(ledger)

	requests := api.Group("/access-requests")

	if limiter != nil {
		requests.POST("", accessHandler.Submit, limiter.Middleware())
	} else {
		requests.POST("", accessHandler.Submit)
	}
	requests.GET("", accessHandler.List)
	requests.PUT("/:id/decision", accessHandler.Decide,
		middleware.RequireRoles(models.RoleAdmin, models.RoleStakeholder))

	log.Success("Access request routes initialized successfully")
}
