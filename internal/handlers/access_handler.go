package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"skillbox/internal/api/middleware"
	"skillbox/internal/api/validator"
	"skillbox/internal/models"
	"skillbox/internal/services"
)

type AccessHandler struct {
	ledger *services.Ledger
}

func NewAccessHandler(ledger *services.Ledger) *AccessHandler {
	return &AccessHandler{ledger: ledger}
}

// Submit files a new access request for the authenticated partner.
// @Summary Submit an access request
// @Accept json
// @Produce json
// @Router /access-requests [post]
func (h *AccessHandler) Submit(c echo.Context) error {
	req := new(validator.AccessRequestSubmission)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	created, err := h.ledger.Submit(c.Request().Context(), middleware.GetUser(c), req.CourseID, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// List returns requests scoped by role: partners get their own history,
// reviewers get the queue (filterable by status).
// @Summary List access requests
// @Router /access-requests [get]
func (h *AccessHandler) List(c echo.Context) error {
	user := middleware.GetUser(c)

	if user.Role == models.RolePartner {
		reqs, err := h.ledger.ListByUser(c.Request().Context(), user.ID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, reqs)
	}

	reqs, err := h.ledger.ListByStatus(c.Request().Context(), models.RequestStatus(c.QueryParam("status")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reqs)
}

// Decide approves or rejects a pending request.
// @Summary Decide an access request
// @Accept json
// @Produce json
// @Router /access-requests/{id}/decision [put]
func (h *AccessHandler) Decide(c echo.Context) error {
	req := new(validator.AccessRequestDecision)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	decided, err := h.ledger.Decide(
		c.Request().Context(),
		middleware.GetUser(c),
		c.Param("id"),
		models.RequestStatus(req.Status),
		req.AdminNotes,
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, decided)
}
