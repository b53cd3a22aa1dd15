package auth

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/oncolife/oncolife/internal/platform/fault"
)

// RequireRole returns middleware that checks if the user has at least one of
// the specified roles. The admin role passes every check.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRoles := RolesFromContext(c.Request().Context())
			for _, required := range roles {
				for _, has := range userRoles {
					if has == required || has == "admin" {
						return next(c)
					}
				}
			}
			return fault.PermissionDenied(
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}
