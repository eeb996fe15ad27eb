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

// notificationRepository implements NotificationRepository using PostgreSQL.
type notificationRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewNotificationRepository creates a new PostgreSQL-backed notification repository.
func NewNotificationRepository(pool *pgxpool.Pool, logger zerolog.Logger) NotificationRepository {
	return &notificationRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "notification").Logger(),
	}
}

// Create inserts a notification within the provided transaction.
func (r *notificationRepository) Create(ctx context.Context, tx pgx.Tx, n *model.Notification) error {
	query := `
		INSERT INTO notifications (id, order_id, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := tx.Exec(ctx, query, n.ID, n.OrderID, n.Message, n.Read, n.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", n.OrderID.String()).Msg("failed to create notification")
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// List retrieves the most recent notifications, newest first.
func (r *notificationRepository) List(ctx context.Context, limit int) ([]model.Notification, error) {
	query := `
		SELECT id, order_id, message, read, created_at
		FROM notifications
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query notifications")
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.OrderID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan notification row")
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating notification rows")
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	return notifications, nil
}

// MarkRead marks a notification as read. Re-marking an already-read
// notification succeeds without effect.
func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE notifications SET read = TRUE WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Str("notification_id", id.String()).Msg("failed to mark notification read")
		return false, fmt.Errorf("failed to mark notification read: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}
