package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"skillbox/internal/services"
)

// TermsGate blocks content surfaces until the session's user has accepted
// the terms of use. Auth, terms endpoints, and metadata stay outside it.
func TermsGate(terms *services.Terms) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := GetSession(c)
			if session == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			ok, err := terms.Satisfied(c.Request().Context(), session)
			if err != nil {
				return err
			}
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, "Terms of use must be accepted first")
			}
			return next(c)
		}
	}
}
