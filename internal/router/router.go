package router

import (
	"net/http"

	"orderdesk/internal/auth"
	"orderdesk/internal/handler"
	"orderdesk/internal/middleware"
	"orderdesk/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	authHandler *handler.AuthHandler,
	productHandler *handler.ProductHandler,
	orderHandler *handler.OrderHandler,
	cartHandler *handler.CartHandler,
	adminHandler *handler.AdminHandler,
	issuer *auth.TokenIssuer,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Post("/api/login", authHandler.Login)

	// Authenticated routes for business agents and admins
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(issuer, logger))

		r.Get("/api/products", productHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleBA))

			r.Post("/api/place_order", orderHandler.Place)
			r.Get("/api/my_orders", orderHandler.ListMine)
			r.Post("/api/save_cart", cartHandler.Save)
			r.Get("/api/load_cart", cartHandler.Load)
			r.Post("/api/clear_saved_cart", cartHandler.Clear)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleAdmin))

			r.Post("/admin/upload_stock", adminHandler.UploadStock)
			r.Get("/admin/orders", adminHandler.ListOrders)
			r.Get("/admin/orders/{id}/download", adminHandler.DownloadOrder)
			r.Delete("/admin/orders/{id}", adminHandler.DeleteOrder)
			r.Get("/admin/notifications", adminHandler.ListNotifications)
			r.Post("/admin/notifications/{id}/read", adminHandler.MarkNotificationRead)
			r.Post("/admin/users", adminHandler.CreateUser)
			r.Post("/admin/whatsapp/test", adminHandler.TestWhatsApp)
			r.Post("/admin/whatsapp/settings", adminHandler.UpdateWhatsAppSettings)
		})
	})

	return r
}
