package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"skillbox/internal/services"
)

type AnalyticsHandler struct {
	analytics *services.Analytics
}

func NewAnalyticsHandler(analytics *services.Analytics) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Overview returns the top-line portal numbers.
// @Summary Analytics overview
// @Router /analytics/overview [get]
func (h *AnalyticsHandler) Overview(c echo.Context) error {
	o, err := h.analytics.Overview(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, o)
}

// DownloadsByDay returns daily download counts for the trailing window.
// @Summary Downloads per day
// @Router /analytics/downloads [get]
func (h *AnalyticsHandler) DownloadsByDay(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	rows, err := h.analytics.DownloadsByDay(c.Request().Context(), days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

// TopCourses ranks courses by downloads.
// @Summary Top courses
// @Router /analytics/top-courses [get]
func (h *AnalyticsHandler) TopCourses(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	rows, err := h.analytics.TopCourses(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

// LearnersByOrganization aggregates attendance per partner org.
// @Summary Learners by organization
// @Router /analytics/learners/organizations [get]
func (h *AnalyticsHandler) LearnersByOrganization(c echo.Context) error {
	rows, err := h.analytics.LearnersByOrganization(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

// LearnersByCourse aggregates attendance per course.
// @Summary Learners by course
// @Router /analytics/learners/courses [get]
func (h *AnalyticsHandler) LearnersByCourse(c echo.Context) error {
	rows, err := h.analytics.LearnersByCourse(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}
