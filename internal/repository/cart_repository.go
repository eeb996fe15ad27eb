package repository

import (
	"context"
	"fmt"

	"orderdesk/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// savedCartRepository implements SavedCartRepository using PostgreSQL. The
// user_id unique constraint guarantees at most one saved cart per user.
type savedCartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSavedCartRepository creates a new PostgreSQL-backed saved cart repository.
func NewSavedCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) SavedCartRepository {
	return &savedCartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "saved_cart").Logger(),
	}
}

// GetByUser retrieves a user's saved cart.
func (r *savedCartRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*model.SavedCart, error) {
	query := `
		SELECT id, user_id, cart_data, name, updated_at
		FROM saved_carts
		WHERE user_id = $1
	`

	var cart model.SavedCart
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&cart.ID, &cart.UserID, &cart.Cart, &cart.Name, &cart.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query saved cart")
		return nil, fmt.Errorf("failed to query saved cart: %w", err)
	}

	return &cart, nil
}

// Upsert saves a user's cart, overwriting any previous one in place. A blank
// name keeps whatever name was saved before.
func (r *savedCartRepository) Upsert(ctx context.Context, cart *model.SavedCart) error {
	query := `
		INSERT INTO saved_carts (id, user_id, cart_data, name, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			cart_data = EXCLUDED.cart_data,
			name = CASE WHEN EXCLUDED.name = '' THEN saved_carts.name ELSE EXCLUDED.name END,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query, cart.ID, cart.UserID, []byte(cart.Cart), cart.Name, cart.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", cart.UserID.String()).Msg("failed to upsert saved cart")
		return fmt.Errorf("failed to upsert saved cart: %w", err)
	}

	return nil
}

// Delete removes a user's saved cart if present.
func (r *savedCartRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM saved_carts WHERE user_id = $1`

	_, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to delete saved cart")
		return fmt.Errorf("failed to delete saved cart: %w", err)
	}

	return nil
}
