package repository

import (
	"context"
	"fmt"

	"orderdesk/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// Numeric columns are selected as text and parsed into decimals so that no
// precision is lost between PostgreSQL and Go.
const productColumns = `id, lot_type_code, parent_code, item_lot_type, quantity_available, mrp::text, created_at, updated_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	var mrp *string
	err := row.Scan(&p.ID, &p.LotTypeCode, &p.ParentCode, &p.ItemLotType,
		&p.QuantityAvailable, &mrp, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if mrp != nil {
		d, err := decimal.NewFromString(*mrp)
		if err != nil {
			return nil, fmt.Errorf("failed to parse mrp: %w", err)
		}
		p.MRP = &d
	}
	return &p, nil
}

func decimalArg(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

// BeginTx starts a new database transaction.
func (r *productRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// List retrieves all products in natural id order.
func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetBySKU retrieves a product by its lot type code within the provided
// transaction.
func (r *productRepository) GetBySKU(ctx context.Context, tx pgx.Tx, lotTypeCode string) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE lot_type_code = $1
	`

	p, err := scanProduct(tx.QueryRow(ctx, query, lotTypeCode))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("lot_type_code", lotTypeCode).Msg("failed to query product by SKU")
		return nil, fmt.Errorf("failed to query product by SKU: %w", err)
	}

	return p, nil
}

// LockByID retrieves a product by id with FOR UPDATE so that concurrent
// order placements against the same product serialise on the row lock.
func (r *productRepository) LockByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
		FOR UPDATE
	`

	p, err := scanProduct(tx.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id.String()).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to lock product")
		return nil, fmt.Errorf("failed to lock product: %w", err)
	}

	return p, nil
}

// DecrementStock subtracts quantity from a product's availability within the
// provided transaction.
func (r *productRepository) DecrementStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) error {
	query := `
		UPDATE products
		SET quantity_available = quantity_available - $2, updated_at = now()
		WHERE id = $1 AND quantity_available >= $2
	`

	tag, err := tx.Exec(ctx, query, id, quantity)
	if err != nil {
		r.logger.Error().Err(err).
			Str("product_id", id.String()).
			Int("quantity", quantity).
			Msg("failed to decrement stock")
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	if tag.RowsAffected() != 1 {
		return fmt.Errorf("stock decrement affected %d rows", tag.RowsAffected())
	}

	return nil
}

// Insert creates a new product within the provided transaction.
func (r *productRepository) Insert(ctx context.Context, tx pgx.Tx, p *model.Product) error {
	query := `
		INSERT INTO products (id, lot_type_code, parent_code, item_lot_type, quantity_available, mrp, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := tx.Exec(ctx, query, p.ID, p.LotTypeCode, p.ParentCode, p.ItemLotType,
		p.QuantityAvailable, decimalArg(p.MRP), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("lot_type_code", p.LotTypeCode).Msg("failed to insert product")
		return fmt.Errorf("failed to insert product: %w", err)
	}

	return nil
}

// Update overwrites a product's catalogue fields within the provided
// transaction.
func (r *productRepository) Update(ctx context.Context, tx pgx.Tx, p *model.Product) error {
	query := `
		UPDATE products
		SET parent_code = $2, item_lot_type = $3, quantity_available = $4, mrp = $5, updated_at = now()
		WHERE id = $1
	`

	_, err := tx.Exec(ctx, query, p.ID, p.ParentCode, p.ItemLotType,
		p.QuantityAvailable, decimalArg(p.MRP))
	if err != nil {
		r.logger.Error().Err(err).Str("lot_type_code", p.LotTypeCode).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}
