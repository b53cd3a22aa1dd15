package education

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/oncolife/oncolife/internal/platform/auth"
	"github.com/oncolife/oncolife/internal/platform/fault"
	"github.com/oncolife/oncolife/pkg/pagination"
)

// ContentHandler serves the doctor-portal education routes: document
// lifecycle and the symptom catalog.
type ContentHandler struct {
	svc *ContentService
}

func NewContentHandler(svc *ContentService) *ContentHandler {
	return &ContentHandler{svc: svc}
}

func (h *ContentHandler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/education")
	g.GET("/documents", h.ListDocuments)
	g.POST("/documents", h.CreateDocument)
	g.GET("/documents/:id", h.GetDocument)
	g.PATCH("/documents/:id", h.UpdateDocument)
	g.POST("/documents/:id/approve", h.Approve)
	g.POST("/documents/:id/upload", h.Upload)
	g.GET("/symptoms", h.ListSymptoms)
	g.POST("/symptoms", h.CreateSymptom)
	g.GET("/symptoms/:id", h.GetSymptom)
	g.PATCH("/symptoms/:id", h.UpdateSymptom)
	g.DELETE("/symptoms/:id", h.DeactivateSymptom)
}

func (h *ContentHandler) CreateDocument(c echo.Context) error {
	var req CreateDocumentRequest
	if err := c.Bind(&req); err != nil {
		return fault.Validation("invalid request body")
	}
	ctx := c.Request().Context()
	d, err := h.svc.CreateDocument(ctx, auth.PrincipalIDFromContext(ctx), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *ContentHandler) ListDocuments(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListDocuments(c.Request().Context(), c.QueryParam("symptom_code"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Document{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *ContentHandler) GetDocument(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fault.Validation("invalid id")
	}
	d, err := h.svc.GetDocument(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *ContentHandler) UpdateDocument(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fault.Validation("invalid id")
	}
	var req UpdateDocumentRequest
	if err := c.Bind(&req); err != nil {
		return fault.Validation("invalid request body")
	}
	d, err := h.svc.UpdateDocument(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *ContentHandler) Approve(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fault.Validation("invalid id")
	}
	d, err := h.svc.Approve(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *ContentHandler) Upload(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fault.Validation("invalid id")
	}
	url, err := h.svc.UploadURL(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, url)
}

func (h *ContentHandler) CreateSymptom(c echo.Context) error {
	var req CreateSymptomRequest
	if err := c.Bind(&req); err != nil {
		return fault.Validation("invalid request body")
	}
	sym, err := h.svc.CreateSymptom(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sym)
}

func (h *ContentHandler) ListSymptoms(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListSymptoms(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Symptom{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *ContentHandler) GetSymptom(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fault.Validation("invalid id")
	}
	sym, err := h.svc.GetSymptom(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sym)
}

func (h *ContentHandler) UpdateSymptom(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fault.Validation("invalid id")
	}
	var req UpdateSymptomRequest
	if err := c.Bind(&req); err != nil {
		return fault.Validation("invalid request body")
	}
	sym, err := h.svc.UpdateSymptom(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sym)
}

func (h *ContentHandler) DeactivateSymptom(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fault.Validation("invalid id")
	}
	if err := h.svc.DeactivateSymptom(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeliveryHandler serves the patient-portal education routes.
type DeliveryHandler struct {
	svc *DeliveryService
}

func NewDeliveryHandler(svc *DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{svc: svc}
}

func (h *DeliveryHandler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/education")
	g.POST("/deliveries", h.Deliver)
	g.GET("/documents", h.ListDocuments)
	g.GET("/documents/:id/download", h.Download)
}

func (h *DeliveryHandler) Deliver(c echo.Context) error {
	var req DeliveryRequest
	if err := c.Bind(&req); err != nil {
		return fault.Validation("invalid request body")
	}
	ctx := c.Request().Context()
	resp, err := h.svc.Assemble(ctx, auth.PrincipalIDFromContext(ctx), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *DeliveryHandler) ListDocuments(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListVisibleDocuments(c.Request().Context(), c.QueryParam("symptom_code"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Document{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *DeliveryHandler) Download(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fault.Validation("invalid id")
	}
	url, err := h.svc.DownloadURL(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, url)
}
