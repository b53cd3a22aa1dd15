package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// PublicRoutes builds a JWTConfig Skipper from path patterns. A pattern
// ending in "*" matches by prefix; anything else must match exactly. Each
// binary declares its own public surface: health, API docs, the auth config
// endpoint, patient registration, and the fax provider webhook (which is
// HMAC-verified instead of token-verified).
func PublicRoutes(patterns ...string) func(echo.Context) bool {
	exact := make(map[string]bool, len(patterns))
	var prefixes []string
	for _, p := range patterns {
		if strings.HasSuffix(p, "*") {
			prefixes = append(prefixes, strings.TrimSuffix(p, "*"))
			continue
		}
		exact[p] = true
	}

	return func(c echo.Context) bool {
		path := c.Request().URL.Path
		if exact[path] {
			return true
		}
		for _, pre := range prefixes {
			if strings.HasPrefix(path, pre) {
				return true
			}
		}
		return false
	}
}
