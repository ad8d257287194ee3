package handlers

import (
	"stockview/internal/client"
	"stockview/internal/middleware"

	"github.com/labstack/echo/v4"
)

// Routes bundles the handler sets the server exposes
type Routes struct {
	Inventory *InventoryHandlers
	Upload    *UploadHandlers
	ShelfLife *ShelfLifeHandlers
	Health    *HealthHandlers
}

// Register mounts every endpoint twice: at the bare path for local viewers
// and under apiPrefix for remote ones.
func (r *Routes) Register(e *echo.Echo, vm *middleware.VersionMiddleware, apiPrefix string) {
	e.GET("/health", r.Health.HealthCheck)
	e.GET("/health/ready", r.Health.ReadinessCheck)
	e.GET("/health/live", r.Health.LivenessCheck)

	e.GET("/"+string(client.EndpointDocument), r.Inventory.GetDocument, middleware.NoStore())
	e.POST("/"+string(client.EndpointUpload), r.Upload.Upload)
	e.POST("/"+string(client.EndpointShelfLife), r.ShelfLife.SaveShelfLife)

	api := vm.APIGroup(e, apiPrefix)
	api.GET("/inventory", r.Inventory.GetDocument, middleware.NoStore())
	api.POST("/"+string(client.EndpointUpload), r.Upload.Upload)
	api.POST("/"+string(client.EndpointShelfLife), r.ShelfLife.SaveShelfLife)
	api.GET("/shelf_life", r.ShelfLife.GetShelfLife)
	api.DELETE("/shelf_life", r.ShelfLife.DeleteShelfLife)
}
