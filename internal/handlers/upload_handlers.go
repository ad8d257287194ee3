package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"stockview/internal/caching"
	"stockview/internal/models"
	"stockview/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const uploadSuccessMessage = "File đã được xử lý thành công"

// UploadHandlers accepts new inventory workbooks
type UploadHandlers struct {
	inventoryService services.InventoryService
	maxUploadBytes   int64
	logger           *zap.Logger
}

// NewUploadHandlers creates a new upload handlers instance
func NewUploadHandlers(inventoryService services.InventoryService, maxUploadBytes int64, logger *zap.Logger) *UploadHandlers {
	return &UploadHandlers{
		inventoryService: inventoryService,
		maxUploadBytes:   maxUploadBytes,
		logger:           logger,
	}
}

// Upload stores the multipart "file" workbook, converts it and answers with
// the resulting document inline.
func (h *UploadHandlers) Upload(c echo.Context) error {
	ctx := c.Request().Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No file uploaded")
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("File quá lớn (tối đa %d MB)", h.maxUploadBytes>>20))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read uploaded file")
	}

	doc, stored, err := h.inventoryService.Import(ctx, fileHeader.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnsupportedFile):
			return echo.NewHTTPError(http.StatusBadRequest, "Chỉ chấp nhận file Excel (.xlsx, .xlsm)")
		case errors.Is(err, services.ErrInvalidWorkbook):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "Error: "+err.Error())
		case errors.Is(err, caching.ErrLockNotObtained):
			return echo.NewHTTPError(http.StatusConflict, "Dữ liệu đang được cập nhật, vui lòng thử lại")
		}
		h.logger.Error("workbook import failed", zap.String("filename", fileHeader.Filename), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Error: "+err.Error())
	}

	return c.JSON(http.StatusOK, models.StatusResponse{
		Status:   "success",
		Message:  uploadSuccessMessage,
		Filename: stored,
		Data:     doc,
	})
}
