package handlers

import (
	"errors"
	"net/http"

	"stockview/internal/models"
	"stockview/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ShelfLifeHandlers persists per-product shelf-life overrides
type ShelfLifeHandlers struct {
	shelfLifeService services.ShelfLifeService
	logger           *zap.Logger
}

// NewShelfLifeHandlers creates a new shelf-life handlers instance
func NewShelfLifeHandlers(shelfLifeService services.ShelfLifeService, logger *zap.Logger) *ShelfLifeHandlers {
	return &ShelfLifeHandlers{
		shelfLifeService: shelfLifeService,
		logger:           logger,
	}
}

// SaveShelfLife handles {product_code, lot_number, shelf_life_months}
func (h *ShelfLifeHandlers) SaveShelfLife(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.ShelfLifeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing required fields")
	}

	if _, err := h.shelfLifeService.Save(ctx, req); err != nil {
		if errors.Is(err, services.ErrInvalidShelfLife) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		h.logger.Error("failed to save shelf life",
			zap.String("product_code", req.ProductCode),
			zap.String("lot_number", req.LotNumber),
			zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Error: "+err.Error())
	}

	return c.JSON(http.StatusOK, models.StatusResponse{
		Status:  "success",
		Message: "Đã lưu thời hạn thành công",
	})
}

func queryKey(c echo.Context) (models.ProductKey, error) {
	key := models.ProductKey{
		ProductCode: c.QueryParam("product_code"),
		LotNumber:   c.QueryParam("lot_number"),
	}
	if key.ProductCode == "" {
		return key, echo.NewHTTPError(http.StatusBadRequest, "product_code is required")
	}
	return key, nil
}

// GetShelfLife returns the stored override for ?product_code=&lot_number=
func (h *ShelfLifeHandlers) GetShelfLife(c echo.Context) error {
	ctx := c.Request().Context()

	key, err := queryKey(c)
	if err != nil {
		return err
	}

	override, err := h.shelfLifeService.Get(ctx, key)
	if err != nil {
		h.logger.Error("failed to read shelf life", zap.String("unique_key", key.UniqueKey()), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read shelf life")
	}
	if override == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Shelf life not found")
	}
	return c.JSON(http.StatusOK, override)
}

// DeleteShelfLife clears the override for ?product_code=&lot_number= so the
// product falls back to its sheet default
func (h *ShelfLifeHandlers) DeleteShelfLife(c echo.Context) error {
	ctx := c.Request().Context()

	key, err := queryKey(c)
	if err != nil {
		return err
	}

	if err := h.shelfLifeService.Delete(ctx, key); err != nil {
		if errors.Is(err, services.ErrShelfLifeNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Shelf life not found")
		}
		h.logger.Error("failed to delete shelf life", zap.String("unique_key", key.UniqueKey()), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Error: "+err.Error())
	}

	return c.JSON(http.StatusOK, models.StatusResponse{
		Status:  "success",
		Message: "Đã xóa thời hạn riêng",
	})
}
