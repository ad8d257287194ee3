package middleware

import (
	"github.com/labstack/echo/v4"
)

// VersionMiddleware stamps responses with the server build
type VersionMiddleware struct {
	service string
	version string
}

// NewVersionMiddleware creates a new version middleware instance
func NewVersionMiddleware(service, version string) *VersionMiddleware {
	return &VersionMiddleware{service: service, version: version}
}

// VersionHeader adds X-App-Version to every response
func (vm *VersionMiddleware) VersionHeader() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-App-Version", vm.service+"/"+vm.version)
			return next(c)
		}
	}
}

// APIGroup mounts the /api prefixed routes; remote viewers reach the same
// handlers there while local ones use the bare paths.
func (vm *VersionMiddleware) APIGroup(e *echo.Echo, prefix string) *echo.Group {
	if prefix == "" || prefix == "/" {
		prefix = "/api"
	}
	return e.Group(prefix)
}
