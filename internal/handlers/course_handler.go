package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/labstack/echo/v4"

	"skillbox/internal/api/middleware"
	"skillbox/internal/models"
	"skillbox/internal/services"
	"skillbox/internal/utils/logger"
)

type CourseHandler struct {
	catalog *services.Catalog
	log     *logger.Logger
}

func NewCourseHandler(catalog *services.Catalog) *CourseHandler {
	return &CourseHandler{catalog: catalog, log: logger.New("course_handler")}
}

// ListCourses returns the catalog with optional filters.
// @Summary List courses
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	filter := services.CourseFilter{
		Category:     c.QueryParam("category"),
		SolutionArea: c.QueryParam("solution_area"),
		SolutionPlay: c.QueryParam("solution_play"),
		CourseType:   c.QueryParam("course_type"),
		Level:        c.QueryParam("level"),
		Language:     c.QueryParam("language"),
		Search:       c.QueryParam("search"),
		Limit:        limit,
		Offset:       offset,
	}

	courses, total, err := h.catalog.ListCourses(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"courses": courses,
		"total":   total,
	})
}

// GetCourse returns one course with its files.
// @Summary Get course
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c echo.Context) error {
	course, err := h.catalog.GetCourse(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, course)
}

// CreateCourse adds a course to the catalog.
// @Summary Create course
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c echo.Context) error {
	course := new(models.Course)
	if err := c.Bind(course); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(course); err != nil {
		return err
	}

	if err := h.catalog.CreateCourse(c.Request().Context(), middleware.GetUser(c), course); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, course)
}

// UpdateCourse patches course fields.
// @Summary Update course
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c echo.Context) error {
	var body map[string]interface{}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	// Body keys are camelCase json names; gorm wants column names. Identity
	// and ownership columns are never patchable.
	updates := make(map[string]interface{}, len(body))
	for k, v := range body {
		col := camelToSnake(k)
		switch col {
		case "id", "created_at", "updated_at", "created_by":
			continue
		}
		updates[col] = v
	}

	course, err := h.catalog.UpdateCourse(c.Request().Context(), middleware.GetUser(c), c.Param("id"), updates)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, course)
}

// DeleteCourse removes a course, its files, and its access requests.
// Download history stays.
// @Summary Delete course
// @Router /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c echo.Context) error {
	keys, err := h.catalog.DeleteCourse(c.Request().Context(), middleware.GetUser(c), c.Param("id"))
	if err != nil {
		return err
	}

	// Object cleanup is best-effort; orphan objects are harmless, dangling
	// records are not.
	if storage := GetStorageHandler(); storage != nil {
		for _, key := range keys {
			if err := storage.DeleteObject(c.Request().Context(), key); err != nil {
				h.log.Warn("failed to delete object %s: %v", key, err)
			}
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":      "Course deleted",
		"filesRemoved": len(keys),
	})
}

func camelToSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Metadata returns the catalog vocabularies the frontend builds its filter
// dropdowns from.
// @Summary Catalog metadata
// @Router /courses/metadata [get]
func (h *CourseHandler) Metadata(c echo.Context) error {
	return c.JSON(http.StatusOK, models.Metadata())
}
