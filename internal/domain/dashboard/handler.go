package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oncolife/oncolife/internal/platform/auth"
	"github.com/oncolife/oncolife/pkg/pagination"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/dashboard")
	g.GET("/summary", h.Summary)
	g.GET("/patients", h.Patients)
	g.GET("/export", h.Export)
}

func (h *Handler) Summary(c echo.Context) error {
	ctx := c.Request().Context()
	summary, err := h.svc.Summary(ctx, auth.PrincipalIDFromContext(ctx))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *Handler) Patients(c echo.Context) error {
	ctx := c.Request().Context()
	pg := pagination.FromContext(c)

	items, total, err := h.svc.Patients(ctx, auth.PrincipalIDFromContext(ctx), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*PatientRollup{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Export(c echo.Context) error {
	ctx := c.Request().Context()

	c.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="dashboard.xlsx"`)
	c.Response().WriteHeader(http.StatusOK)

	return h.svc.Export(ctx, auth.PrincipalIDFromContext(ctx), c.Response())
}
