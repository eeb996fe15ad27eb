package stockfile

import (
	"bytes"
	"testing"

	"orderdesk/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes rows to the default sheet of an in-memory workbook.
func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func TestParse_FullWorkbook(t *testing.T) {
	r := buildWorkbook(t, [][]interface{}{
		{"Lot Type Code", "Parent Code", "Item Lot Type", "Quantity Available", "MRP"},
		{"A1", "P-100", "Carton", 4, 12.50},
		{"B2", nil, nil, 0, nil},
	})

	rows, err := Parse(r)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "A1", first.LotTypeCode)
	require.NotNil(t, first.ParentCode)
	assert.Equal(t, "P-100", *first.ParentCode)
	require.NotNil(t, first.ItemLotType)
	assert.Equal(t, "Carton", *first.ItemLotType)
	assert.Equal(t, 4, first.Quantity)
	require.NotNil(t, first.MRP)
	assert.Equal(t, "12.5", first.MRP.String())

	second := rows[1]
	assert.Equal(t, "B2", second.LotTypeCode)
	assert.Nil(t, second.ParentCode)
	assert.Nil(t, second.ItemLotType)
	assert.Equal(t, 0, second.Quantity)
	assert.Nil(t, second.MRP)
}

func TestParse_HeaderVariants(t *testing.T) {
	r := buildWorkbook(t, [][]interface{}{
		{"lot_type_code", "QUANTITY available (units)"},
		{"A1", 7},
	})

	rows, err := Parse(r)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A1", rows[0].LotTypeCode)
	assert.Equal(t, 7, rows[0].Quantity)
}

func TestParse_MissingLotTypeCodeColumn(t *testing.T) {
	r := buildWorkbook(t, [][]interface{}{
		{"SKU", "Quantity Available"},
		{"A1", 4},
	})

	_, err := Parse(r)
	assert.ErrorIs(t, err, model.ErrMissingSKUColumn)
}

func TestParse_SkipsBlankSKURows(t *testing.T) {
	r := buildWorkbook(t, [][]interface{}{
		{"Lot Type Code", "Quantity Available"},
		{"A1", 4},
		{"", 9},
		{"   ", 9},
		{"B2", 1},
	})

	rows, err := Parse(r)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A1", rows[0].LotTypeCode)
	assert.Equal(t, "B2", rows[1].LotTypeCode)
}

func TestParse_UnparsableQuantityBecomesZero(t *testing.T) {
	r := buildWorkbook(t, [][]interface{}{
		{"Lot Type Code", "Quantity Available"},
		{"A1", "many"},
		{"B2", "3.7"},
	})

	rows, err := Parse(r)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 0, rows[0].Quantity)
	assert.Equal(t, 3, rows[1].Quantity)
}

func TestParse_NotAWorkbook(t *testing.T) {
	_, err := Parse(bytes.NewReader([]byte("definitely not a zip archive")))
	assert.Error(t, err)
}
