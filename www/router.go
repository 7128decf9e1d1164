package www

import (
	"net/http"

	"orderdesk/engine"
	"orderdesk/projection"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	engine      *engine.Engine
	sessions    *sessionStore
	projections *projection.Store
	eventHub    *EventHub
}

// NewRouter creates the chi router and returns it along with a stop function.
func NewRouter(eng *engine.Engine, projections *projection.Store) (http.Handler, func()) {
	h := &Handlers{
		engine:      eng,
		sessions:    newSessionStore(eng.AppConfig().Web.SessionSecret),
		projections: projections,
		eventHub:    NewEventHub(),
	}

	h.eventHub.Start()
	h.eventHub.SetupEngineListeners(eng)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// SSE (no auth — order tracking)
	r.Get("/events", h.eventHub.HandleSSE)

	// Login/logout
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/session", h.handleSession)

	// API endpoints (mixed: customer/vendor/delivery actions public, admin actions behind auth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/orders", h.apiCreateOrder)
		r.Get("/orders", h.apiListOrders)
		r.Get("/orders/{orderID}", h.apiGetOrder)
		r.Get("/orders/{orderID}/history", h.apiGetOrderHistory)
		r.Get("/orders/{orderID}/actions", h.apiGetOrderActions)

		// Customer actions
		r.Post("/orders/{orderID}/cancel", h.apiStandardCancel)
		r.Post("/orders/{orderID}/complete", h.apiCompleteOrder)
		r.Post("/orders/{orderID}/confirm-receipt", h.apiConfirmReceipt)

		// Vendor actions
		r.Post("/orders/{orderID}/vendor/accept", h.apiVendorAccept)
		r.Post("/orders/{orderID}/vendor/reject", h.apiVendorReject)
		r.Post("/orders/{orderID}/vendor/start-prep", h.apiVendorStartPrep)
		r.Post("/orders/{orderID}/vendor/mark-ready", h.apiVendorMarkReady)

		// Delivery actions
		r.Post("/orders/{orderID}/pickup", h.apiConfirmPickup)
		r.Post("/orders/{orderID}/start-delivery", h.apiStartDelivery)
		r.Post("/orders/{orderID}/delivered", h.apiMarkDelivered)

		// Admin API
		r.Group(func(r chi.Router) {
			r.Use(h.adminMiddleware)

			r.Post("/orders/{orderID}/status", h.apiUpdateStatus)
			r.Post("/orders/{orderID}/override", h.apiManualOverride)
			r.Post("/orders/{orderID}/force-cancel", h.apiForceCancel)
			r.Post("/orders/{orderID}/assign", h.apiAssignDelivery)

			r.Get("/orders/{orderID}/audit", h.apiGetOrderAudit)
			r.Post("/config/password", h.apiChangePassword)
		})
	})

	return r, func() {
		h.eventHub.Stop()
	}
}

func (h *Handlers) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, ok := h.sessions.getUser(r)
		if !ok || username == "" {
			writeError(w, http.StatusUnauthorized, "admin login required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
