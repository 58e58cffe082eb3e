package routes

import (
	"github.com/labstack/echo/v4"

	"skillbox/internal/api/middleware"
	"skillbox/internal/handlers"
	"skillbox/internal/services"
	"skillbox/internal/utils/logger"
)

func SetupAnalyticsRoutes(api *echo.Group, analytics *services.Analytics) {
	log := logger.New("analytics_routes")

	analyticsHandler := handlers.NewAnalyticsHandler(analytics)

	group := api.Group("/analytics")
	group.Use(middleware.RequireStaff())

	group.GET("/overview", analyticsHandler.Overview)
	group.GET("/downloads", analyticsHandler.DownloadsByDay)
	group.GET("/top-courses", analyticsHandler.TopCourses)
	group.GET("/learners/organizations", analyticsHandler.LearnersByOrganization)
	group.GET("/learners/courses", analyticsHandler.LearnersByCourse)

	log.Success("Analytics routes initialized successfully")
}
