package repository

import (
	"context"

	"orderdesk/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// List retrieves all products in natural id order.
	List(ctx context.Context) ([]model.Product, error)

	// GetBySKU retrieves a product by its lot type code within the
	// provided transaction. Returns nil when not found.
	GetBySKU(ctx context.Context, tx pgx.Tx, lotTypeCode string) (*model.Product, error)

	// LockByID retrieves a product by id with a row lock held for the
	// duration of the transaction. Returns nil when not found.
	LockByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Product, error)

	// DecrementStock subtracts quantity from a product's availability
	// within the provided transaction.
	DecrementStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) error

	// Insert creates a new product within the provided transaction.
	Insert(ctx context.Context, tx pgx.Tx, p *model.Product) error

	// Update overwrites a product's catalogue fields within the provided
	// transaction.
	Update(ctx context.Context, tx pgx.Tx, p *model.Product) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a new order within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// GetByID retrieves an order by its id. Returns nil when not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListAll retrieves all orders, newest first.
	ListAll(ctx context.Context) ([]model.Order, error)

	// ListByUser retrieves one user's orders, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// UpdateStatus sets an order's status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// SetSheetURL stores the exported spreadsheet URL on an order.
	SetSheetURL(ctx context.Context, id uuid.UUID, url string) error

	// Delete removes an order and its notifications. Returns false when
	// the order does not exist.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// NotificationRepository defines the interface for notification data access.
type NotificationRepository interface {
	// Create inserts a notification within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, n *model.Notification) error

	// List retrieves the most recent notifications, newest first.
	List(ctx context.Context, limit int) ([]model.Notification, error)

	// MarkRead marks a notification as read. Marking an already-read
	// notification is a no-op success. Returns false when not found.
	MarkRead(ctx context.Context, id uuid.UUID) (bool, error)
}

// SavedCartRepository defines the interface for saved cart data access.
type SavedCartRepository interface {
	// GetByUser retrieves a user's saved cart. Returns nil when absent.
	GetByUser(ctx context.Context, userID uuid.UUID) (*model.SavedCart, error)

	// Upsert saves a user's cart, overwriting any previous one. A blank
	// name keeps the previously saved name.
	Upsert(ctx context.Context, cart *model.SavedCart) error

	// Delete removes a user's saved cart if present.
	Delete(ctx context.Context, userID uuid.UUID) error
}

// UserRepository defines the interface for user account data access.
type UserRepository interface {
	// GetByUsername retrieves a user by username. Returns nil when not found.
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// Create inserts a new user account.
	Create(ctx context.Context, user *model.User) error

	// EnsureAdmin creates or updates the seed admin account.
	EnsureAdmin(ctx context.Context, username, passwordHash string) error
}
