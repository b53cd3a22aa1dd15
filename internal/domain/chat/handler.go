package chat

import (
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

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/chat/conversations")
	g.POST("", h.Start)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/messages", h.AppendMessage)
}

func (h *Handler) Start(c echo.Context) error {
	ctx := c.Request().Context()
	conv, err := h.svc.StartConversation(ctx, auth.PrincipalIDFromContext(ctx))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, conv)
}

func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	pg := pagination.FromContext(c)

	items, total, err := h.svc.ListConversations(ctx, auth.PrincipalIDFromContext(ctx), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Conversation{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fault.Validation("invalid id")
	}
	ctx := c.Request().Context()
	detail, err := h.svc.GetConversation(ctx, auth.PrincipalIDFromContext(ctx), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fault.Validation("invalid id")
	}
	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return fault.Validation("invalid request body")
	}
	ctx := c.Request().Context()
	conv, err := h.svc.UpdateConversation(ctx, auth.PrincipalIDFromContext(ctx), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, conv)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fault.Validation("invalid id")
	}
	ctx := c.Request().Context()
	if err := h.svc.DeleteConversation(ctx, auth.PrincipalIDFromContext(ctx), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AppendMessage(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fault.Validation("invalid id")
	}
	var req AppendMessageRequest
	if err := c.Bind(&req); err != nil {
		return fault.Validation("invalid request body")
	}
	ctx := c.Request().Context()
	m, err := h.svc.AppendMessage(ctx, auth.PrincipalIDFromContext(ctx), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}
