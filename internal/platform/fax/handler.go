package fax

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/oncolife/oncolife/internal/platform/auth"
	"github.com/oncolife/oncolife/internal/platform/fault"
	"github.com/oncolife/oncolife/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the authenticated fax API on api and the provider
// webhook on root, outside bearer auth (it is HMAC-verified instead).
func (h *Handler) RegisterRoutes(api *echo.Group, root *echo.Echo) {
	g := api.Group("/fax", auth.RequireRole("physician", "nurse", "admin"))
	g.POST("", h.Send)
	g.GET("", h.List)
	g.GET("/:id", h.Get)

	root.POST("/webhooks/fax", h.InboundWebhook)
}

func (h *Handler) Send(c echo.Context) error {
	var req SendRequest
	if err := c.Bind(&req); err != nil {
		return fault.Validation("invalid request body")
	}
	rec, err := h.svc.Send(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fault.Validation("invalid id")
	}
	rec, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), c.QueryParam("direction"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Record{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// InboundWebhook handles the provider callback. The HMAC over the raw body
// must match before anything is parsed.
func (h *Handler) InboundWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fault.Validation("unreadable body")
	}

	if !h.svc.VerifyWebhookSignature(body, c.Request().Header.Get(SignatureHeader)) {
		return fault.Unauthenticated("invalid webhook signature")
	}

	var in InboundFax
	if err := json.Unmarshal(body, &in); err != nil {
		return fault.Validation("invalid webhook payload")
	}

	rec, err := h.svc.ReceiveInbound(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rec)
}
