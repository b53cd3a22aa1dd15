package docs

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	registry *Registry
}

func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

// RegisterRoutes mounts the documentation endpoints. Both are public and
// must be covered by the auth skipper.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/docs", h.Index)
	api.GET("/docs/openapi.json", h.OpenAPI)
}

func (h *Handler) OpenAPI(c echo.Context) error {
	return c.JSON(http.StatusOK, h.registry.Spec())
}

// Index serves a plain HTML listing of resources linking to the document.
func (h *Handler) Index(c echo.Context) error {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head><title>")
	b.WriteString(h.registry.title)
	b.WriteString("</title></head>\n<body>\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n<p>Version %s</p>\n", h.registry.title, h.registry.version)
	b.WriteString("<p><a href=\"/api/v1/docs/openapi.json\">OpenAPI document</a></p>\n<ul>\n")
	for _, name := range h.registry.resourceNames() {
		fmt.Fprintf(&b, "<li>%s</li>\n", name)
	}
	b.WriteString("</ul>\n</body>\n</html>\n")
	return c.HTML(http.StatusOK, b.String())
}
