// Package conversion turns inventory workbooks into InventoryDocuments.
package conversion

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"stockview/internal/models"
)

var ErrUnreadableWorkbook = errors.New("workbook could not be read")

const lastUpdatedLayout = "02/01/2006 15:04:05"

// Converter reads workbooks and applies the sheet policy to their products
type Converter struct {
	policy *models.Policy
	logger *zap.Logger
	now    func() time.Time
}

func NewConverter(policy *models.Policy, logger *zap.Logger) *Converter {
	if policy == nil {
		policy = models.DefaultPolicy()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{policy: policy, logger: logger, now: time.Now}
}

// Convert reads every sheet of the workbook in r. overrides maps a product's
// unique key to its stored shelf life in months. Sheets without products are
// left out of the document.
func (c *Converter) Convert(r io.Reader, sourceFile string, overrides map[string]int) (*models.InventoryDocument, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableWorkbook, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			c.logger.Warn("failed to close workbook", zap.Error(err))
		}
	}()

	now := c.now()
	doc := &models.InventoryDocument{Sheets: []models.Sheet{}}

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %q: %w", ErrUnreadableWorkbook, name, err)
		}

		products, columns := process(rows, name)
		if len(products) == 0 {
			c.logger.Debug("sheet has no products", zap.String("sheet", name))
			continue
		}
		columns = c.enrich(name, products, columns, overrides, now)

		doc.Sheets = append(doc.Sheets, models.Sheet{
			SheetName:     name,
			Products:      products,
			TotalProducts: len(products),
			Columns:       columns,
		})
		c.logger.Debug("converted sheet",
			zap.String("sheet", name),
			zap.Int("products", len(products)),
			zap.Strings("columns", columns))
	}

	doc.Metadata = models.Metadata{
		DateTonKho:    stockDate(sourceFile, now),
		SourceFile:    sourceFile,
		LastUpdated:   now.Format(lastUpdatedLayout),
		TotalSheets:   len(doc.Sheets),
		TotalProducts: doc.TotalProductCount(),
	}
	c.logger.Info("workbook converted",
		zap.String("source_file", sourceFile),
		zap.Int("sheets", doc.Metadata.TotalSheets),
		zap.Int("products", doc.Metadata.TotalProducts))
	return doc, nil
}

// enrich adds the shelf-life derived columns of sheets the policy names
func (c *Converter) enrich(sheetName string, products []*models.Product, columns []string, overrides map[string]int, now time.Time) []string {
	sp, ok := c.policy.Sheet(sheetName)
	if !ok {
		return columns
	}

	if sp.PerProduct {
		columns = insertColumn(columns, 3, models.ColumnShelfLife)
		columns = insertColumn(columns, 4, models.ColumnRemainingPercent)
		columns = insertColumn(columns, 5, models.ColumnExpiryDate)

		for _, p := range products {
			months, found := overrides[OverrideKey(p)]
			if !found {
				months = c.policy.DefaultShelfLifeMonths
			}
			p.Set(models.ColumnShelfLife, float64(months))
			setShelfLifeStatus(p, months, now)
		}
		return columns
	}

	columns = insertColumn(columns, 3, models.ColumnRemainingPercent)
	columns = insertColumn(columns, 4, models.ColumnExpiryDate)
	for _, p := range products {
		setShelfLifeStatus(p, sp.ShelfLifeMonths, now)
	}
	return columns
}

func setShelfLifeStatus(p *models.Product, months int, now time.Time) {
	lot, _ := p.Get(models.ColumnLot)
	if !truthy(lot) {
		p.Set(models.ColumnRemainingPercent, nil)
		p.Set(models.ColumnExpiryDate, nil)
		return
	}
	pct, expiry, ok := ShelfLifeStatus(lot, months, now)
	if !ok {
		p.Set(models.ColumnRemainingPercent, nil)
		p.Set(models.ColumnExpiryDate, nil)
		return
	}
	p.Set(models.ColumnRemainingPercent, pct)
	p.Set(models.ColumnExpiryDate, expiry)
}

// OverrideKey is the unique key a product's shelf-life override is stored
// under: "<code>_<lot>" with a missing lot as the empty string.
func OverrideKey(p *models.Product) string {
	key := p.Key()
	key.ProductCode = strings.TrimSpace(key.ProductCode)
	key.LotNumber = strings.TrimSpace(key.LotNumber)
	return key.UniqueKey()
}

func insertColumn(columns []string, at int, name string) []string {
	for _, c := range columns {
		if c == name {
			return columns
		}
	}
	if at > len(columns) {
		at = len(columns)
	}
	out := make([]string, 0, len(columns)+1)
	out = append(out, columns[:at]...)
	out = append(out, name)
	return append(out, columns[at:]...)
}

// stockDate reads the stock-take date from a file named "<day>.<month>.xlsx",
// falling back to today.
func stockDate(sourceFile string, now time.Time) string {
	base := filepath.Base(sourceFile)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	parts := strings.Split(stem, ".")
	if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
		return fmt.Sprintf("%s/%s/%d", zeroPad(parts[0]), zeroPad(parts[1]), now.Year())
	}
	return now.Format(DateLayout)
}

func zeroPad(s string) string {
	if len([]rune(s)) < 2 {
		return strings.Repeat("0", 2-len([]rune(s))) + s
	}
	return s
}
