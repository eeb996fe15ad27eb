// Package stockfile reads uploaded stock workbooks and writes per-order
// workbook exports.
package stockfile

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"orderdesk/internal/model"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Column keys recognised in uploaded workbooks.
const (
	colLotTypeCode = "lot_type_code"
	colParentCode  = "parent_code"
	colItemLotType = "item_lot_type"
	colQuantity    = "quantity_available"
	colMRP         = "mrp"
)

// matchHeader maps a raw header cell to a recognised column key. Matching is
// case-insensitive substring matching so that variants like "Lot Type Code"
// and "lot_type_code" both resolve.
func matchHeader(header string) (string, bool) {
	h := strings.ToLower(header)
	switch {
	case strings.Contains(h, "lot type code") || strings.Contains(h, "lot_type_code"):
		return colLotTypeCode, true
	case strings.Contains(h, "parent code") || strings.Contains(h, "parent_code"):
		return colParentCode, true
	case strings.Contains(h, "item lot type") || strings.Contains(h, "item_lot_type"):
		return colItemLotType, true
	case strings.Contains(h, "quantity") && strings.Contains(h, "available"):
		return colQuantity, true
	case strings.Contains(h, "mrp"):
		return colMRP, true
	}
	return "", false
}

// Parse reads the first sheet of an xlsx workbook and returns one StockRow
// per data row with a non-blank lot type code. A workbook without a
// recognisable lot type code column is rejected before any row is processed.
func Parse(r io.Reader) ([]model.StockRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, model.ErrMissingSKUColumn
	}

	// Map recognised columns to their positions. First match wins.
	columns := map[string]int{}
	for idx, header := range rows[0] {
		key, ok := matchHeader(header)
		if !ok {
			continue
		}
		if _, seen := columns[key]; !seen {
			columns[key] = idx
		}
	}

	if _, ok := columns[colLotTypeCode]; !ok {
		return nil, model.ErrMissingSKUColumn
	}

	var out []model.StockRow
	for _, row := range rows[1:] {
		sku := strings.TrimSpace(cellAt(row, columns[colLotTypeCode]))
		if sku == "" {
			continue
		}

		stockRow := model.StockRow{LotTypeCode: sku}

		if idx, ok := columns[colParentCode]; ok {
			if v := strings.TrimSpace(cellAt(row, idx)); v != "" {
				stockRow.ParentCode = &v
			}
		}
		if idx, ok := columns[colItemLotType]; ok {
			if v := strings.TrimSpace(cellAt(row, idx)); v != "" {
				stockRow.ItemLotType = &v
			}
		}
		if idx, ok := columns[colQuantity]; ok {
			stockRow.Quantity = parseQuantity(cellAt(row, idx))
		}
		if idx, ok := columns[colMRP]; ok {
			if d, err := decimal.NewFromString(strings.TrimSpace(cellAt(row, idx))); err == nil {
				stockRow.MRP = &d
			}
		}

		out = append(out, stockRow)
	}

	return out, nil
}

// cellAt returns the cell value at idx, tolerating short rows: excelize
// truncates trailing empty cells.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseQuantity accepts integer or decimal representations and truncates to
// an int. Unparsable values become zero.
func parseQuantity(raw string) int {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return int(v)
}
