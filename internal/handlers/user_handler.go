package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"skillbox/internal/api/middleware"
	"skillbox/internal/api/validator"
	"skillbox/internal/models"
	"skillbox/internal/services"
)

type UserHandler struct {
	identity *services.Identity
}

func NewUserHandler(identity *services.Identity) *UserHandler {
	return &UserHandler{identity: identity}
}

// List returns all users, optionally filtered by role.
// @Summary List users
// @Router /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.identity.ListUsers(
		c.Request().Context(),
		middleware.GetUser(c),
		models.UserRole(c.QueryParam("role")),
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Get returns one user.
// @Summary Get user
// @Router /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.identity.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// SetApproval flips the portal-level approval flag.
// @Summary Approve or unapprove a user
// @Router /users/{id}/approval [put]
func (h *UserHandler) SetApproval(c echo.Context) error {
	req := new(validator.SetApprovalRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	user, err := h.identity.SetApproved(c.Request().Context(), middleware.GetUser(c), c.Param("id"), req.Approved)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// SetRole changes a user's role.
// @Summary Change a user's role
// @Router /users/{id}/role [put]
func (h *UserHandler) SetRole(c echo.Context) error {
	req := new(validator.SetRoleRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	user, err := h.identity.SetRole(c.Request().Context(), middleware.GetUser(c), c.Param("id"), models.UserRole(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
