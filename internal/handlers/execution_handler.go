package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"skillbox/internal/api/middleware"
	"skillbox/internal/api/validator"
	"skillbox/internal/models"
	"skillbox/internal/services"
)

type ExecutionHandler struct {
	executions *services.Executions
}

func NewExecutionHandler(executions *services.Executions) *ExecutionHandler {
	return &ExecutionHandler{executions: executions}
}

// Schedule books a training delivery.
// @Summary Schedule an execution
// @Accept json
// @Produce json
// @Router /executions [post]
func (h *ExecutionHandler) Schedule(c echo.Context) error {
	req := new(validator.ScheduleExecutionRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	date, err := time.Parse(time.RFC3339, req.ExecutionDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "executionDate must be RFC3339")
	}

	exec := &models.Execution{
		CourseID:          req.CourseID,
		ExecutionDate:     date,
		Location:          req.Location,
		ExpectedAttendees: req.ExpectedAttendees,
		Notes:             req.Notes,
	}
	if err := h.executions.Schedule(c.Request().Context(), middleware.GetUser(c), exec); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, exec)
}

// List returns executions visible to the caller.
// @Summary List executions
// @Router /executions [get]
func (h *ExecutionHandler) List(c echo.Context) error {
	execs, err := h.executions.List(c.Request().Context(), middleware.GetUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, execs)
}

// SubmitAttendance files the post-delivery report.
// @Summary Submit attendance
// @Accept json
// @Produce json
// @Router /executions/{id}/attendance [post]
func (h *ExecutionHandler) SubmitAttendance(c echo.Context) error {
	report := new(services.AttendanceReport)
	if err := c.Bind(report); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(report); err != nil {
		return err
	}

	exec, err := h.executions.SubmitAttendance(c.Request().Context(), middleware.GetUser(c), c.Param("id"), *report)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, exec)
}
