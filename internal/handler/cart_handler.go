package handler

import (
	"encoding/json"
	"net/http"

	"orderdesk/internal/middleware"
	"orderdesk/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles saved cart HTTP requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

type saveCartRequest struct {
	Cart json.RawMessage `json:"cart"`
	Name string          `json:"name"`
}

type loadCartResponse struct {
	Success   bool            `json:"success"`
	Cart      json.RawMessage `json:"cart"`
	Name      string          `json:"name,omitempty"`
	UpdatedAt string          `json:"updated_at,omitempty"`
}

// Save handles POST /api/save_cart requests.
func (h *CartHandler) Save(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token", h.logger)
		return
	}

	var req saveCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if _, err := h.service.Save(r.Context(), claims.UserID, req.Cart, req.Name); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Cart saved successfully",
	})
}

// Load handles GET /api/load_cart requests. An absent cart is not an error;
// the response carries an empty cart object instead.
func (h *CartHandler) Load(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token", h.logger)
		return
	}

	cart, err := h.service.Load(r.Context(), claims.UserID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if cart == nil {
		writeJSON(w, http.StatusOK, loadCartResponse{
			Success: false,
			Cart:    json.RawMessage(`{}`),
		})
		return
	}

	writeJSON(w, http.StatusOK, loadCartResponse{
		Success:   true,
		Cart:      cart.Cart,
		Name:      cart.Name,
		UpdatedAt: cart.UpdatedAt.Format("2006-01-02 15:04:05"),
	})
}

// Clear handles POST /api/clear_saved_cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token", h.logger)
		return
	}

	if err := h.service.Clear(r.Context(), claims.UserID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Saved cart cleared",
	})
}
