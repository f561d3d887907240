package server

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// bearerToken extracts the credential from the Authorization header.
// Returns "" when the header is missing or not a Bearer scheme.
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
