package jobs

import (
	"stockview/internal/models"

	"go.uber.org/zap"
)

// ExpiryAlert is a lot whose remaining shelf life dropped under the threshold
type ExpiryAlert struct {
	Sheet       string
	ProductCode string
	ProductName string
	LotNumber   string
	Remaining   float64
	Threshold   float64
}

// CheckExpiring lists every product whose "% Còn lại" is below threshold.
// Rows without a readable percentage are skipped.
func CheckExpiring(doc *models.InventoryDocument, threshold float64) []ExpiryAlert {
	if doc == nil {
		return nil
	}
	if threshold <= 0 {
		threshold = 30
	}

	var alerts []ExpiryAlert
	for _, sheet := range doc.Sheets {
		for _, p := range sheet.Products {
			raw, ok := p.Get(models.ColumnRemainingPercent)
			if !ok {
				continue
			}
			pct, ok := models.ParseNumber(raw)
			if !ok || pct >= threshold {
				continue
			}
			key := p.Key()
			name, _ := p.Get(models.ColumnProductName)
			alerts = append(alerts, ExpiryAlert{
				Sheet:       sheet.SheetName,
				ProductCode: key.ProductCode,
				ProductName: models.FormatScalar(name),
				LotNumber:   key.LotNumber,
				Remaining:   pct,
				Threshold:   threshold,
			})
		}
	}
	return alerts
}

// LogExpiryAlerts writes one warning per alert
func LogExpiryAlerts(logger *zap.Logger, alerts []ExpiryAlert) {
	if len(alerts) == 0 {
		logger.Debug("no lots below the expiry threshold")
		return
	}

	logger.Warn("lots close to expiry", zap.Int("count", len(alerts)))
	for _, a := range alerts {
		logger.Warn("lot close to expiry",
			zap.String("sheet", a.Sheet),
			zap.String("product_code", a.ProductCode),
			zap.String("product_name", a.ProductName),
			zap.String("lot_number", a.LotNumber),
			zap.Float64("remaining_percent", a.Remaining),
			zap.Float64("threshold", a.Threshold))
	}
}
