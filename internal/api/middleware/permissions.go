package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"skillbox/internal/models"
)

// RequireRoles rejects requests whose authenticated user is not in roles.
// Runs after AuthMiddleware.
func RequireRoles(roles ...models.UserRole) echo.MiddlewareFunc {
	allowed := make(map[models.UserRole]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}
			if !allowed[user.Role] {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}
			return next(c)
		}
	}
}

// RequireStaff admits any staff role.
func RequireStaff() echo.MiddlewareFunc {
	return RequireRoles(models.RoleAdmin, models.RoleContentAdmin, models.RoleStakeholder)
}
