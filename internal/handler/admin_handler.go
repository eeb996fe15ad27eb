package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"orderdesk/internal/archive"
	"orderdesk/internal/config"
	"orderdesk/internal/model"
	"orderdesk/internal/notify"
	"orderdesk/internal/service"
	"orderdesk/internal/stockfile"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxUploadBytes caps stock workbook uploads at 16 MiB.
const maxUploadBytes = 16 << 20

// AdminHandler handles admin-only HTTP requests.
type AdminHandler struct {
	catalog  service.CatalogService
	orders   service.OrderService
	accounts service.AuthService
	archiver archive.Archiver
	whatsapp *notify.WhatsAppSender
	logger   zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(
	catalog service.CatalogService,
	orders service.OrderService,
	accounts service.AuthService,
	archiver archive.Archiver,
	whatsapp *notify.WhatsAppSender,
	logger zerolog.Logger,
) *AdminHandler {
	return &AdminHandler{
		catalog:  catalog,
		orders:   orders,
		accounts: accounts,
		archiver: archiver,
		whatsapp: whatsapp,
		logger:   logger.With().Str("handler", "admin").Logger(),
	}
}

// UploadStock handles POST /admin/upload_stock requests. The workbook is
// parsed in memory, applied to the catalogue, and archived best-effort.
func (h *AdminHandler) UploadStock(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form", h.logger)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded", h.logger)
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		writeError(w, http.StatusBadRequest, "Invalid file format. Please upload an .xlsx file", h.logger)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read uploaded file", h.logger)
		return
	}

	rows, err := stockfile.Parse(bytes.NewReader(data))
	if err != nil {
		var domainErr *model.DomainError
		if errors.As(err, &domainErr) {
			writeDomainError(w, err, h.logger)
			return
		}
		// Corrupt or non-xlsx content is a caller problem, not a server one.
		writeError(w, http.StatusBadRequest, "Failed to read Excel file", h.logger)
		return
	}

	result, err := h.catalog.ImportStock(r.Context(), rows)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	if err := h.archiver.Store(r.Context(), header.Filename, data); err != nil {
		h.logger.Warn().Err(err).Str("filename", header.Filename).Msg("failed to archive upload")
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Stock updated successfully! Created: %d, Updated: %d",
			result.Created, result.Updated),
		"created": result.Created,
		"updated": result.Updated,
	})
}

// ListOrders handles GET /admin/orders requests.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}

	writeJSON(w, http.StatusOK, orders)
}

// DownloadOrder handles GET /admin/orders/{id}/download requests. The order
// is rendered as an xlsx attachment and its status advances to downloaded.
func (h *AdminHandler) DownloadOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	filename, data, err := h.orders.ExportWorkbook(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	w.Header().Set("Content-Type", stockfile.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// DeleteOrder handles DELETE /admin/orders/{id} requests.
func (h *AdminHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	if err := h.orders.Delete(r.Context(), orderID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Order deleted",
	})
}

// ListNotifications handles GET /admin/notifications requests.
func (h *AdminHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.orders.ListNotifications(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}

	writeJSON(w, http.StatusOK, notifications)
}

// MarkNotificationRead handles POST /admin/notifications/{id}/read requests.
func (h *AdminHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id", h.logger)
		return
	}

	if err := h.orders.MarkNotificationRead(r.Context(), id); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateUser handles POST /admin/users requests creating BA accounts.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password required", h.logger)
		return
	}

	if err := h.accounts.CreateBA(r.Context(), req.Username, req.Password); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("User %s created", req.Username),
	})
}

type whatsAppSettingsRequest struct {
	AccountSID string `json:"account_sid"`
	AuthToken  string `json:"auth_token"`
	FromNumber string `json:"from_number"`
	ToNumber   string `json:"to_number"`
}

func (req whatsAppSettingsRequest) config() config.WhatsAppConfig {
	return config.WhatsAppConfig{
		AccountSID: req.AccountSID,
		AuthToken:  req.AuthToken,
		FromNumber: req.FromNumber,
		ToNumber:   req.ToNumber,
	}
}

// TestWhatsApp handles POST /admin/whatsapp/test requests. The supplied
// credentials are used for a single probe send without being saved.
func (h *AdminHandler) TestWhatsApp(w http.ResponseWriter, r *http.Request) {
	var req whatsAppSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if err := h.whatsapp.SendWith(r.Context(), req.config(), "TEST"); err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Test message sent",
	})
}

// UpdateWhatsAppSettings handles POST /admin/whatsapp/settings requests.
// Settings are applied first, then verified with a test send; a failed test
// leaves the new settings in place but is reported to the caller.
func (h *AdminHandler) UpdateWhatsAppSettings(w http.ResponseWriter, r *http.Request) {
	var req whatsAppSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	h.whatsapp.Update(req.config())

	if err := h.whatsapp.SendNewOrder(r.Context(), "TEST"); err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"message": fmt.Sprintf("Settings saved but test message failed: %s", err),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Settings saved and test message sent",
	})
}

// orderID extracts and validates the {id} URL parameter.
func (h *AdminHandler) orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id", h.logger)
		return uuid.Nil, false
	}
	return id, true
}
