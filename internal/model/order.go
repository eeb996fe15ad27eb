package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses. The sequence is forward-only: an order never moves back to
// an earlier status.
const (
	StatusPending    = "pending"
	StatusDownloaded = "downloaded"
	StatusConfirmed  = "confirmed"
	StatusCompleted  = "completed"
)

var statusRank = map[string]int{
	StatusPending:    0,
	StatusDownloaded: 1,
	StatusConfirmed:  2,
	StatusCompleted:  3,
}

// StatusAdvances reports whether the move from one status to the next is a
// forward transition.
func StatusAdvances(from, next string) bool {
	fr, ok := statusRank[from]
	if !ok {
		return false
	}
	nr, ok := statusRank[next]
	if !ok {
		return false
	}
	return nr > fr
}

// Order represents a placed stock order. Items carry a snapshot of the
// product fields at order time so later catalogue edits do not alter
// historical orders.
type Order struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	UserID      uuid.UUID       `json:"-" db:"user_id"`
	Username    string          `json:"username" db:"username"`
	Items       []OrderItem     `json:"items" db:"items"`
	TotalAmount decimal.Decimal `json:"total_amount" db:"total_amount"`
	Status      string          `json:"status" db:"status"`
	SheetURL    *string         `json:"sheet_url,omitempty" db:"sheet_url"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// OrderItem is one line of an order with snapshotted product fields.
type OrderItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	LotTypeCode string          `json:"lot_type_code"`
	ParentCode  *string         `json:"parent_code"`
	ItemLotType *string         `json:"item_lot_type"`
	Quantity    int             `json:"quantity"`
	MRP         decimal.Decimal `json:"mrp"`
	LineTotal   decimal.Decimal `json:"total"`
}

// OrderRequest represents the request payload for placing an order.
type OrderRequest struct {
	Items []OrderItemRequest `json:"items"`
}

// OrderItemRequest is a single requested line in an order request.
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// OrderResponse is returned after a successful order placement.
type OrderResponse struct {
	Success bool      `json:"success"`
	OrderID uuid.UUID `json:"order_id"`
	Message string    `json:"message"`
}
