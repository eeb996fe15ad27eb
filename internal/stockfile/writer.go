package stockfile

import (
	"bytes"
	"fmt"

	"orderdesk/internal/model"

	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var orderExportHeaders = []interface{}{
	"Lot Type Code", "Parent Code", "Item Lot Type: Lot Type", "MRP", "BA Store Name", "Quantity Needed",
}

// WriteOrder renders an order's line items as an xlsx workbook for admin
// download.
func WriteOrder(order *model.Order) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Order"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &orderExportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for i, item := range order.Items {
		row := []interface{}{
			item.LotTypeCode,
			stringOrEmpty(item.ParentCode),
			stringOrEmpty(item.ItemLotType),
			item.MRP.InexactFloat64(),
			order.Username,
			item.Quantity,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write item row: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialise workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
