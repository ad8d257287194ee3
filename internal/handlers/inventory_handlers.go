package handlers

import (
	"errors"
	"net/http"

	"stockview/internal/caching"
	"stockview/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// InventoryHandlers serves the published inventory document
type InventoryHandlers struct {
	inventoryService services.InventoryService
	logger           *zap.Logger
}

// NewInventoryHandlers creates a new inventory handlers instance
func NewInventoryHandlers(inventoryService services.InventoryService, logger *zap.Logger) *InventoryHandlers {
	return &InventoryHandlers{
		inventoryService: inventoryService,
		logger:           logger,
	}
}

// GetDocument returns the current document exactly as published, so the
// product key order survives.
func (h *InventoryHandlers) GetDocument(c echo.Context) error {
	ctx := c.Request().Context()

	data, err := h.inventoryService.Document(ctx)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoWorkbook):
			return echo.NewHTTPError(http.StatusNotFound, "Chưa có dữ liệu tồn kho")
		case errors.Is(err, caching.ErrLockNotObtained):
			return echo.NewHTTPError(http.StatusServiceUnavailable, "Dữ liệu đang được cập nhật, vui lòng thử lại")
		}
		h.logger.Error("failed to load inventory document", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load inventory data")
	}

	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, data)
}
