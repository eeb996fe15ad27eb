package handler

import (
	"encoding/json"
	"net/http"

	"orderdesk/internal/middleware"
	"orderdesk/internal/model"
	"orderdesk/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles BA-facing order HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Place handles POST /api/place_order requests.
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token", h.logger)
		return
	}

	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), claims.UserID, claims.Username, &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, model.OrderResponse{
		Success: true,
		OrderID: order.ID,
		Message: "Order placed successfully",
	})
}

// ListMine handles GET /api/my_orders requests.
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token", h.logger)
		return
	}

	orders, err := h.service.ListMine(r.Context(), claims.UserID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}

	writeJSON(w, http.StatusOK, orders)
}
