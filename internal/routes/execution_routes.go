package routes

import (
	"github.com/labstack/echo/v4"

	"skillbox/internal/handlers"
	"skillbox/internal/services"
	"skillbox/internal/utils/logger"
)

func SetupExecutionRoutes(api *echo.Group, executions *services.Executions) {
	log := logger.New("execution_routes")

	executionHandler := handlers.NewExecutionHandler(executions)

	execs := api.Group("/executions")
	execs.POST("", executionHandler.Schedule)
	execs.GET("", executionHandler.List)
	execs.POST("/:id/attendance", executionHandler.SubmitAttendance)

	log.Success("Execution routes initialized successfully")
}
