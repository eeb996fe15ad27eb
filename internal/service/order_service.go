package service

import (
	"context"
	"fmt"
	"time"

	"orderdesk/internal/model"
	"orderdesk/internal/notify"
	"orderdesk/internal/repository"
	"orderdesk/internal/stockfile"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const notificationListLimit = 50

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	notifRepo   repository.NotificationRepository
	notifier    notify.OrderNotifier
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	notifRepo repository.NotificationRepository,
	notifier notify.OrderNotifier,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		notifRepo:   notifRepo,
		notifier:    notifier,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder validates the cart against current stock and commits the order,
// its admin notification and the stock decrements as one transaction. Items
// with non-positive quantities are dropped silently; a missing product or an
// over-ask aborts the whole order. Product row locks serialise concurrent
// orders against the same product so availability can never go negative.
func (s *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID, username string, req *model.OrderRequest) (*model.Order, error) {
	if req == nil {
		return nil, model.ErrEmptyOrder
	}

	requested := make([]model.OrderItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			continue
		}
		requested = append(requested, item)
	}
	if len(requested) == 0 {
		return nil, model.ErrEmptyOrder
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	items := make([]model.OrderItem, 0, len(requested))
	total := decimal.Zero
	for _, reqItem := range requested {
		var product *model.Product
		product, err = s.productRepo.LockByID(ctx, tx, reqItem.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to place order: %w", err)
		}
		if product == nil {
			err = model.NewProductNotFoundError(reqItem.ProductID.String())
			return nil, err
		}
		if reqItem.Quantity > product.QuantityAvailable {
			err = model.NewInsufficientStockError(product.LotTypeCode, product.QuantityAvailable)
			return nil, err
		}

		// Missing price counts as zero.
		mrp := decimal.Zero
		if product.MRP != nil {
			mrp = *product.MRP
		}
		lineTotal := mrp.Mul(decimal.NewFromInt(int64(reqItem.Quantity)))
		total = total.Add(lineTotal)

		items = append(items, model.OrderItem{
			ProductID:   product.ID,
			LotTypeCode: product.LotTypeCode,
			ParentCode:  product.ParentCode,
			ItemLotType: product.ItemLotType,
			Quantity:    reqItem.Quantity,
			MRP:         mrp,
			LineTotal:   lineTotal,
		})

		if err = s.productRepo.DecrementStock(ctx, tx, product.ID, reqItem.Quantity); err != nil {
			return nil, fmt.Errorf("failed to place order: %w", err)
		}
	}

	now := time.Now().UTC()
	order := &model.Order{
		ID:          uuid.New(),
		UserID:      userID,
		Username:    username,
		Items:       items,
		TotalAmount: total,
		Status:      model.StatusPending,
		CreatedAt:   now,
	}

	if err = s.orderRepo.Create(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	notification := &model.Notification{
		ID:      uuid.New(),
		OrderID: order.ID,
		Message: fmt.Sprintf("New order #%s received from %s - Total: ₹%s",
			order.ID, username, total.StringFixed(2)),
		CreatedAt: now,
	}
	if err = s.notifRepo.Create(ctx, tx, notification); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("username", username).
		Int("item_count", len(items)).
		Str("total_amount", total.StringFixed(2)).
		Msg("order placed")

	// The order is durable from here on; side channels are advisory and
	// their failures stay out of the response.
	if sheetURL := s.notifier.OrderPlaced(ctx, order); sheetURL != "" {
		if urlErr := s.orderRepo.SetSheetURL(ctx, order.ID, sheetURL); urlErr != nil {
			s.logger.Warn().Err(urlErr).Str("order_id", order.ID.String()).Msg("failed to store sheet URL")
		} else {
			order.SheetURL = &sheetURL
		}
	}

	return order, nil
}

// ListMine retrieves the calling user's orders, newest first.
func (s *orderService) ListMine(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListAll retrieves all orders, newest first.
func (s *orderService) ListAll(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ExportWorkbook renders an order as an xlsx attachment. Downloading is what
// moves a pending order forward, so the status advance is a side effect
// here; the advance is forward-only and a re-download never moves the order
// back.
func (s *orderService) ExportWorkbook(ctx context.Context, orderID uuid.UUID) (string, []byte, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to export order: %w", err)
	}
	if order == nil {
		return "", nil, model.ErrOrderNotFound
	}

	data, err := stockfile.WriteOrder(order)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to render order workbook")
		return "", nil, fmt.Errorf("failed to export order: %w", err)
	}

	if model.StatusAdvances(order.Status, model.StatusDownloaded) {
		if err := s.orderRepo.UpdateStatus(ctx, orderID, model.StatusDownloaded); err != nil {
			return "", nil, fmt.Errorf("failed to export order: %w", err)
		}
	}

	filename := fmt.Sprintf("order_%s_%s_%s.xlsx",
		order.ID, order.Username, time.Now().Format("20060102_150405"))

	return filename, data, nil
}

// Delete removes an order and its notifications. Deletion is a hard removal,
// not a cancellation: stock decremented by the order stays decremented.
func (s *orderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	found, err := s.orderRepo.Delete(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if !found {
		return model.ErrOrderNotFound
	}
	return nil
}

// ListNotifications retrieves recent admin notifications, newest first.
func (s *orderService) ListNotifications(ctx context.Context) ([]model.Notification, error) {
	notifications, err := s.notifRepo.List(ctx, notificationListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkNotificationRead marks a notification read. Re-marking an already-read
// notification is a no-op success.
func (s *orderService) MarkNotificationRead(ctx context.Context, id uuid.UUID) error {
	found, err := s.notifRepo.MarkRead(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if !found {
		return model.NewDomainError(model.ErrCodeOrderNotFound, "Notification not found")
	}
	return nil
}
