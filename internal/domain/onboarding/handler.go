package onboarding

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oncolife/oncolife/internal/platform/auth"
	"github.com/oncolife/oncolife/internal/platform/fault"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/onboarding")
	g.GET("/status", h.Get)
	g.PUT("/status", h.Update)
}

func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	status, err := h.svc.Get(ctx, auth.PrincipalIDFromContext(ctx))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, status)
}

func (h *Handler) Update(c echo.Context) error {
	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return fault.Validation("invalid request body")
	}
	ctx := c.Request().Context()
	status, err := h.svc.Update(ctx, auth.PrincipalIDFromContext(ctx), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, status)
}
