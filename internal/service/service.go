package service

import (
	"context"
	"encoding/json"

	"orderdesk/internal/model"

	"github.com/google/uuid"
)

// CatalogService defines operations on the product catalogue.
type CatalogService interface {
	// ListProducts retrieves the full catalogue.
	ListProducts(ctx context.Context) ([]model.Product, error)

	// ImportStock applies parsed stock workbook rows to the catalogue and
	// reports how many products were created vs updated.
	ImportStock(ctx context.Context, rows []model.StockRow) (*model.ImportResult, error)
}

// OrderService defines operations for placing and reviewing orders.
type OrderService interface {
	// PlaceOrder validates the requested items against current stock,
	// commits the order atomically with the stock decrements, and fires
	// the advisory notification channels.
	PlaceOrder(ctx context.Context, userID uuid.UUID, username string, req *model.OrderRequest) (*model.Order, error)

	// ListMine retrieves the calling user's orders, newest first.
	ListMine(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// ListAll retrieves all orders, newest first.
	ListAll(ctx context.Context) ([]model.Order, error)

	// ExportWorkbook renders an order as an xlsx attachment and advances
	// its status to downloaded.
	ExportWorkbook(ctx context.Context, orderID uuid.UUID) (filename string, data []byte, err error)

	// Delete removes an order and its notifications. Stock is not restored.
	Delete(ctx context.Context, orderID uuid.UUID) error

	// ListNotifications retrieves recent admin notifications, newest first.
	ListNotifications(ctx context.Context) ([]model.Notification, error)

	// MarkNotificationRead marks a notification read (idempotent).
	MarkNotificationRead(ctx context.Context, id uuid.UUID) error
}

// CartService defines operations on a BA user's saved cart.
type CartService interface {
	// Save upserts the user's single saved cart.
	Save(ctx context.Context, userID uuid.UUID, cart json.RawMessage, name string) (*model.SavedCart, error)

	// Load retrieves the user's saved cart, or nil when none exists.
	Load(ctx context.Context, userID uuid.UUID) (*model.SavedCart, error)

	// Clear deletes the user's saved cart if present.
	Clear(ctx context.Context, userID uuid.UUID) error
}

// AuthService defines account operations.
type AuthService interface {
	// Login verifies credentials and returns a signed access token and
	// the user's role.
	Login(ctx context.Context, username, password string) (token, role string, err error)

	// CreateBA creates a new business agent account.
	CreateBA(ctx context.Context, username, password string) error

	// SeedAdmin creates or refreshes the default admin account.
	SeedAdmin(ctx context.Context, username, password string) error
}
