package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a stock item in the catalogue, keyed by its lot type
// code (SKU).
type Product struct {
	ID                uuid.UUID        `json:"id" db:"id"`
	LotTypeCode       string           `json:"lot_type_code" db:"lot_type_code"`
	ParentCode        *string          `json:"parent_code" db:"parent_code"`
	ItemLotType       *string          `json:"item_lot_type" db:"item_lot_type"`
	QuantityAvailable int              `json:"quantity_available" db:"quantity_available"`
	MRP               *decimal.Decimal `json:"mrp" db:"mrp"`
	CreatedAt         time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at" db:"updated_at"`
}

// StockRow is a single parsed row from an uploaded stock workbook. Optional
// fields are nil when the corresponding column was absent or blank, which is
// how the importer knows not to overwrite existing values.
type StockRow struct {
	LotTypeCode string
	ParentCode  *string
	ItemLotType *string
	Quantity    int
	MRP         *decimal.Decimal
}

// ImportResult reports the outcome of a stock workbook import.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}
