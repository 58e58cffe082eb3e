package routes

import (
	"github.com/labstack/echo/v4"

	"skillbox/internal/api/middleware"
	"skillbox/internal/handlers"
	"skillbox/internal/models"
	"skillbox/internal/services"
	"skillbox/internal/utils/logger"
)

func SetupUserRoutes(api *echo.Group, identity *services.Identity) {
	log := logger.New("user_routes")

	userHandler := handlers.NewUserHandler(identity)

	users := api.Group("/users")
	users.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleStakeholder))

	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id/approval", userHandler.SetApproval)
	users.PUT("/:id/role", userHandler.SetRole)

	log.Success("User routes initialized successfully")
}
