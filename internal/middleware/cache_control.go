package middleware

import "github.com/labstack/echo/v4"

// NoStore keeps browsers and proxies from serving a stale document
func NoStore() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(echo.HeaderCacheControl, "no-store, no-cache, must-revalidate")
			return next(c)
		}
	}
}
