package routes

import (
	"github.com/labstack/echo/v4"

	"skillbox/internal/api/middleware"
	"skillbox/internal/handlers"
	"skillbox/internal/models"
	"skillbox/internal/services"
	"skillbox/internal/utils/logger"
)

// SetupCourseRoutes wires the catalog, upload, and download endpoints. api
// is already behind auth and the terms gate.
func SetupCourseRoutes(api *echo.Group, catalog *services.Catalog, downloads *services.Downloads) {
	log := logger.New("course_routes")

	courseHandler := handlers.NewCourseHandler(catalog)
	uploadHandler := handlers.NewUploadHandler(catalog)
	downloadHandler := handlers.NewDownloadHandler(downloads)

	courses := api.Group("/courses")

	courses.GET("", courseHandler.ListCourses)
	courses.GET("/metadata", courseHandler.Metadata)
	courses.GET("/:id", courseHandler.GetCourse)

	contentAdmin := middleware.RequireRoles(models.RoleAdmin, models.RoleContentAdmin)
	courses.POST("", courseHandler.CreateCourse, contentAdmin)
	courses.PUT("/:id", courseHandler.UpdateCourse, contentAdmin)
	courses.DELETE("/:id", courseHandler.DeleteCourse, contentAdmin)
	courses.POST("/:id/files", uploadHandler.UploadCourseFile, contentAdmin)
	courses.DELETE("/:id/files/:fileId", uploadHandler.DeleteFile, contentAdmin)

	courses.POST("/:id/files/:fileId/download", downloadHandler.Download)

	log.Success("Course routes initialized successfully")
}
