package auth

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ProfileResolver looks up the portal-specific profile for a token subject.
// The doctor API resolves staff rows, the patient API patient rows. A nil
// resolver leaves the profile out of the response.
type ProfileResolver func(ctx context.Context, subject string) (interface{}, error)

// Handler serves the auth information endpoints.
type Handler struct {
	cfg     JWTConfig
	resolve ProfileResolver
}

func NewHandler(cfg JWTConfig, resolve ProfileResolver) *Handler {
	return &Handler{cfg: cfg, resolve: resolve}
}

// RegisterRoutes mounts the authenticated /auth/me route on authed and the
// public /auth/config route on public.
func (h *Handler) RegisterRoutes(authed, public *echo.Group) {
	authed.GET("/auth/me", h.Me)
	public.GET("/auth/config", h.ProviderConfig)
}

// Me returns the authenticated principal and, when a resolver is configured,
// the matching portal profile.
func (h *Handler) Me(c echo.Context) error {
	ctx := c.Request().Context()
	body := map[string]interface{}{
		"subject": UserIDFromContext(ctx),
		"roles":   RolesFromContext(ctx),
	}
	if email := EmailFromContext(ctx); email != "" {
		body["email"] = email
	}

	if h.resolve != nil {
		profile, err := h.resolve(ctx, UserIDFromContext(ctx))
		if err != nil {
			return err
		}
		body["profile"] = profile
	}

	return c.JSON(http.StatusOK, body)
}

// ProviderConfig exposes the identity-provider parameters front-end clients
// need to obtain tokens. It carries no secrets and is served unauthenticated.
func (h *Handler) ProviderConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"issuer":   h.cfg.Issuer,
		"audience": h.cfg.Audience,
		"jwks_url": h.cfg.JWKSURL,
	})
}
