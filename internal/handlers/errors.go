package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"stockview/internal/models"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// NewHTTPErrorHandler renders every error as {"status":"error","message":...},
// the envelope viewers read the failure message from.
func NewHTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if he.Message != nil {
				message = fmt.Sprint(he.Message)
			}
		} else {
			logger.Error("unhandled error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, models.StatusResponse{Status: "error", Message: message})
		}
		if writeErr != nil {
			logger.Warn("failed to write error response", zap.Error(writeErr))
		}
	}
}
