// Package middleware holds the echo middleware shared by the API routes.
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/workspace-sessions/internal/model"
)

// RoleSource reports the persisted role preference.
type RoleSource interface {
	Role() model.Role
}

// RequireRole rejects requests with 403 unless the selected role is one
// of roles. The role is a stored preference rather than an identity, so
// it is read from src on every request.
func RequireRole(src RoleSource, roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := src.Role()
			if !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{
					"error": "forbidden",
					"role":  role,
				})
			}
			c.Set("role", role)
			return next(c)
		}
	}
}
