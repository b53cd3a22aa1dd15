package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/oncolife/oncolife/internal/platform/fault"
)

// PrincipalIDKey carries the portal-internal id resolved from the token
// subject (the patient_info row id on the patient API).
const PrincipalIDKey contextKey = "principal_id"

// PrincipalResolver maps a verified token subject to the portal-internal id.
// Implementations return fault.NotFound when no row matches the subject.
type PrincipalResolver func(ctx context.Context, subject string) (uuid.UUID, error)

// ResolvePrincipal resolves the token subject to an internal principal id and
// stores it in the request context. An unknown subject is rejected so that a
// valid token alone never grants access to portal data; the skipper exempts
// registration and other public routes.
func ResolvePrincipal(resolve PrincipalResolver, skipper func(echo.Context) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper != nil && skipper(c) {
				return next(c)
			}

			ctx := c.Request().Context()
			subject := UserIDFromContext(ctx)
			if subject == "" {
				return fault.Unauthenticated("no authenticated subject")
			}

			id, err := resolve(ctx, subject)
			if err != nil {
				if fault.KindOf(err) == fault.KindNotFound {
					return fault.PermissionDenied("subject is not registered")
				}
				return err
			}

			ctx = context.WithValue(ctx, PrincipalIDKey, id)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// PrincipalIDFromContext returns the resolved principal id, or uuid.Nil when
// resolution did not run.
func PrincipalIDFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(PrincipalIDKey).(uuid.UUID)
	return id
}
