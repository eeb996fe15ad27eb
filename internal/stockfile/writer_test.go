package stockfile

import (
	"bytes"
	"testing"

	"orderdesk/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteOrder(t *testing.T) {
	parentCode := "P-100"
	order := &model.Order{
		ID:       uuid.New(),
		Username: "store-7",
		Items: []model.OrderItem{
			{
				LotTypeCode: "A1",
				ParentCode:  &parentCode,
				Quantity:    3,
				MRP:         decimal.RequireFromString("5.00"),
				LineTotal:   decimal.RequireFromString("15.00"),
			},
			{
				LotTypeCode: "B2",
				Quantity:    1,
				MRP:         decimal.Zero,
				LineTotal:   decimal.Zero,
			},
		},
		TotalAmount: decimal.RequireFromString("15.00"),
	}

	data, err := WriteOrder(order)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Order")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"Lot Type Code", "Parent Code", "Item Lot Type: Lot Type", "MRP", "BA Store Name", "Quantity Needed",
	}, rows[0])

	assert.Equal(t, "A1", rows[1][0])
	assert.Equal(t, "P-100", rows[1][1])
	assert.Equal(t, "5", rows[1][3])
	assert.Equal(t, "store-7", rows[1][4])
	assert.Equal(t, "3", rows[1][5])

	assert.Equal(t, "B2", rows[2][0])
	assert.Equal(t, "1", rows[2][5])
}

func TestWriteOrder_EmptyOrderStillHasHeader(t *testing.T) {
	order := &model.Order{
		ID:       uuid.New(),
		Username: "store-7",
	}

	data, err := WriteOrder(order)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Order")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
