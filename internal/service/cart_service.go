package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"orderdesk/internal/model"
	"orderdesk/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo repository.SavedCartRepository
	logger   zerolog.Logger
}

// NewCartService creates a new saved cart service.
func NewCartService(cartRepo repository.SavedCartRepository, logger zerolog.Logger) CartService {
	return &cartService{
		cartRepo: cartRepo,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

// Save upserts the user's single saved cart. An empty cart is rejected; a
// blank name keeps the previously saved name.
func (s *cartService) Save(ctx context.Context, userID uuid.UUID, cart json.RawMessage, name string) (*model.SavedCart, error) {
	if isEmptyCart(cart) {
		return nil, model.ErrEmptyCart
	}

	saved := &model.SavedCart{
		ID:        uuid.New(),
		UserID:    userID,
		Cart:      cart,
		Name:      name,
		UpdatedAt: time.Now().UTC(),
	}

	if err := s.cartRepo.Upsert(ctx, saved); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	s.logger.Debug().Str("user_id", userID.String()).Msg("cart saved")
	return saved, nil
}

// Load retrieves the user's saved cart, or nil when none exists.
func (s *cartService) Load(ctx context.Context, userID uuid.UUID) (*model.SavedCart, error) {
	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return cart, nil
}

// Clear deletes the user's saved cart if present.
func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.cartRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func isEmptyCart(cart json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(cart))
	switch trimmed {
	case "", "null", "{}", "[]":
		return true
	}
	return false
}
