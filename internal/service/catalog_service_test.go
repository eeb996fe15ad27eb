package service

import (
	"context"
	"testing"

	"orderdesk/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_ImportStock_CreatesAndUpdates(t *testing.T) {
	ctx := context.Background()

	existing := &model.Product{
		ID:                uuid.New(),
		LotTypeCode:       "A1",
		QuantityAvailable: 3,
		MRP:               mustDecimal(t, "10.00"),
	}

	newMRP := decimal.RequireFromString("12.50")
	rows := []model.StockRow{
		{LotTypeCode: "A1", Quantity: 8, MRP: &newMRP},
		{LotTypeCode: "B2", Quantity: 5},
	}

	tx := new(MockTx)
	tx.On("Commit", ctx).Return(nil)

	productRepo := new(MockProductRepository)
	productRepo.On("BeginTx", ctx).Return(tx, nil)
	productRepo.On("GetBySKU", ctx, tx, "A1").Return(existing, nil)
	productRepo.On("GetBySKU", ctx, tx, "B2").Return(nil, nil)
	productRepo.On("Update", ctx, tx, existing).Return(nil)
	productRepo.On("Insert", ctx, tx, mock.AnythingOfType("*model.Product")).Return(nil)

	svc := NewCatalogService(productRepo, zerolog.Nop())
	result, err := svc.ImportStock(ctx, rows)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)

	assert.Equal(t, 8, existing.QuantityAvailable)
	assert.True(t, existing.MRP.Equal(newMRP))
	assert.True(t, tx.committed)
	productRepo.AssertExpectations(t)
}

func TestCatalogService_ImportStock_AbsentColumnsLeaveFields(t *testing.T) {
	ctx := context.Background()

	parentCode := "P-100"
	existing := &model.Product{
		ID:                uuid.New(),
		LotTypeCode:       "A1",
		ParentCode:        &parentCode,
		QuantityAvailable: 3,
		MRP:               mustDecimal(t, "10.00"),
	}

	// Quantity-only row: no parent code, item lot type or MRP.
	rows := []model.StockRow{
		{LotTypeCode: "A1", Quantity: 0},
	}

	tx := new(MockTx)
	tx.On("Commit", ctx).Return(nil)

	productRepo := new(MockProductRepository)
	productRepo.On("BeginTx", ctx).Return(tx, nil)
	productRepo.On("GetBySKU", ctx, tx, "A1").Return(existing, nil)
	productRepo.On("Update", ctx, tx, existing).Return(nil)

	svc := NewCatalogService(productRepo, zerolog.Nop())
	result, err := svc.ImportStock(ctx, rows)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Updated)

	// Availability is overwritten, even to zero; the rest is kept.
	assert.Equal(t, 0, existing.QuantityAvailable)
	require.NotNil(t, existing.ParentCode)
	assert.Equal(t, "P-100", *existing.ParentCode)
	require.NotNil(t, existing.MRP)
	assert.True(t, existing.MRP.Equal(decimal.RequireFromString("10.00")))
}

func TestCatalogService_ImportStock_RollsBackOnFailure(t *testing.T) {
	ctx := context.Background()

	rows := []model.StockRow{
		{LotTypeCode: "A1", Quantity: 8},
	}

	tx := new(MockTx)
	tx.On("Rollback", ctx).Return(nil)

	productRepo := new(MockProductRepository)
	productRepo.On("BeginTx", ctx).Return(tx, nil)
	productRepo.On("GetBySKU", ctx, tx, "A1").Return(nil, assert.AnError)

	svc := NewCatalogService(productRepo, zerolog.Nop())
	result, err := svc.ImportStock(ctx, rows)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, tx.rolledBack)
	tx.AssertNotCalled(t, "Commit", mock.Anything)
}
