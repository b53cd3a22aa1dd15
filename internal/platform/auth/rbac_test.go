package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/oncolife/oncolife/internal/platform/fault"
)

func contextWithRoles(c echo.Context, subject string, roles ...string) {
	ctx := c.Request().Context()
	ctx = context.WithValue(ctx, UserIDKey, subject)
	ctx = context.WithValue(ctx, UserRolesKey, roles)
	c.SetRequest(c.Request().WithContext(ctx))
}

func TestRequireRole_Allowed(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	contextWithRoles(c, "doc-1", "physician")

	mw := RequireRole("physician", "nurse")
	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequireRole_Denied(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	contextWithRoles(c, "pat-1", "patient")

	mw := RequireRole("physician")
	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)

	if fault.KindOf(err) != fault.KindPermissionDenied {
		t.Errorf("expected permission denied fault, got %v", err)
	}
}

func TestRequireRole_AdminBypass(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	contextWithRoles(c, "admin-1", "admin")

	mw := RequireRole("physician")
	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)

	if err != nil {
		t.Fatalf("expected admin to bypass role check, got %v", err)
	}
}

func TestRequireRole_NoRoles(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := RequireRole("physician")
	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)

	if fault.KindOf(err) != fault.KindPermissionDenied {
		t.Errorf("expected permission denied fault, got %v", err)
	}
}

func TestUserIDFromContext_Empty(t *testing.T) {
	if got := UserIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty subject, got %q", got)
	}
	if got := RolesFromContext(context.Background()); got != nil {
		t.Errorf("expected nil roles, got %v", got)
	}
}
