package models

import "time"

// ShelfLifeRequest is the body of a shelf-life save call
type ShelfLifeRequest struct {
	ProductCode     string `json:"product_code" validate:"required"`
	LotNumber       string `json:"lot_number"`
	ShelfLifeMonths int    `json:"shelf_life_months" validate:"required,gt=0"`
}

// Key returns the persistence identity the request targets
func (r ShelfLifeRequest) Key() ProductKey {
	return ProductKey{ProductCode: r.ProductCode, LotNumber: r.LotNumber}
}

// ShelfLifeOverride is a stored per-product shelf life
type ShelfLifeOverride struct {
	UniqueKey       string    `json:"unique_key" db:"unique_key"`
	ProductCode     string    `json:"product_code" db:"product_code"`
	LotNumber       string    `json:"lot_number" db:"lot_number"`
	ShelfLifeMonths int       `json:"shelf_life_months" db:"shelf_life_months"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// StatusResponse is the JSON envelope the backend answers write calls with
type StatusResponse struct {
	Status   string             `json:"status"`
	Message  string             `json:"message"`
	Filename string             `json:"filename,omitempty"`
	Data     *InventoryDocument `json:"data,omitempty"`
}
