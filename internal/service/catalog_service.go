package service

import (
	"context"
	"fmt"
	"time"

	"orderdesk/internal/model"
	"orderdesk/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// catalogService implements CatalogService.
type catalogService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(productRepo repository.ProductRepository, logger zerolog.Logger) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "catalog").Logger(),
	}
}

// ListProducts retrieves the full catalogue.
func (s *catalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// ImportStock applies parsed workbook rows in one transaction. Availability
// is always overwritten from the file; the optional fields (parent code,
// item lot type, MRP) are overwritten only when the row carries a value, so
// a quantity-only upload leaves existing descriptions and prices alone.
func (s *catalogService) ImportStock(ctx context.Context, rows []model.StockRow) (result *model.ImportResult, err error) {
	tx, err := s.productRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to import stock: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	result = &model.ImportResult{}
	now := time.Now().UTC()

	for _, row := range rows {
		var existing *model.Product
		existing, err = s.productRepo.GetBySKU(ctx, tx, row.LotTypeCode)
		if err != nil {
			return nil, fmt.Errorf("failed to import stock: %w", err)
		}

		if existing != nil {
			existing.QuantityAvailable = row.Quantity
			if row.ParentCode != nil {
				existing.ParentCode = row.ParentCode
			}
			if row.ItemLotType != nil {
				existing.ItemLotType = row.ItemLotType
			}
			if row.MRP != nil {
				existing.MRP = row.MRP
			}
			if err = s.productRepo.Update(ctx, tx, existing); err != nil {
				return nil, fmt.Errorf("failed to import stock: %w", err)
			}
			result.Updated++
			continue
		}

		product := &model.Product{
			ID:                uuid.New(),
			LotTypeCode:       row.LotTypeCode,
			ParentCode:        row.ParentCode,
			ItemLotType:       row.ItemLotType,
			QuantityAvailable: row.Quantity,
			MRP:               row.MRP,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err = s.productRepo.Insert(ctx, tx, product); err != nil {
			return nil, fmt.Errorf("failed to import stock: %w", err)
		}
		result.Created++
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit stock import")
		return nil, fmt.Errorf("failed to import stock: %w", err)
	}

	s.logger.Info().
		Int("created", result.Created).
		Int("updated", result.Updated).
		Msg("stock import applied")

	return result, nil
}
