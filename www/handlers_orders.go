package www

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"orderdesk/lifecycle"
	"orderdesk/transition"
)

// --- Reads ---

func (h *Handlers) apiListOrders(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	limit := 100
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}
	orders, err := h.engine.DB().ListOrders(status, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, orders)
}

func (h *Handlers) apiGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseID(r, "orderID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	// Projection read-through: serve from Redis if cached, fall back to the
	// database and repopulate.
	if h.projections != nil {
		if o, err := h.projections.GetOrder(r.Context(), orderID); err == nil && o != nil {
			writeJSON(w, o)
			return
		}
	}

	order, err := h.engine.DB().GetOrder(orderID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if h.projections != nil {
		if err := h.projections.SetOrder(r.Context(), order); err != nil {
			log.Printf("www: cache order %d: %v", orderID, err)
		}
	}
	writeJSON(w, order)
}

func (h *Handlers) apiGetOrderHistory(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseID(r, "orderID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	if h.projections != nil {
		if hist, err := h.projections.GetHistory(r.Context(), orderID); err == nil && hist != nil {
			writeJSON(w, hist)
			return
		}
	}

	history, err := h.engine.DB().ListOrderHistory(orderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if h.projections != nil && history != nil {
		if err := h.projections.SetHistory(r.Context(), orderID, history); err != nil {
			log.Printf("www: cache history %d: %v", orderID, err)
		}
	}
	writeJSON(w, history)
}

// apiGetOrderActions reports which controls make sense at the order's
// current status. Rendering advice only; the manager still enforces.
func (h *Handlers) apiGetOrderActions(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseID(r, "orderID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}
	order, err := h.engine.DB().GetOrder(orderID)
	if err != nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	actions := lifecycle.AvailableActions(lifecycle.Status(order.Status))
	if actions == nil {
		actions = []lifecycle.ActionKind{}
	}
	writeJSON(w, map[string]any{
		"status":  order.Status,
		"actions": actions,
	})
}

func (h *Handlers) apiGetOrderAudit(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseID(r, "orderID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}
	entries, err := h.engine.DB().ListEntityAudit("order", orderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, entries)
}

// --- Order creation (checkout entry point) ---

func (h *Handlers) apiCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      int64   `json:"user_id"`
		VendorID    int64   `json:"vendor_id"`
		Subtotal    float64 `json:"subtotal"`
		Tax         float64 `json:"tax"`
		DeliveryFee float64 `json:"delivery_fee"`
		Discount    float64 `json:"discount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID == 0 || req.VendorID == 0 {
		writeError(w, http.StatusBadRequest, "user_id and vendor_id are required")
		return
	}

	order, err := h.engine.OrderManager().CreateOrder(
		req.UserID, req.VendorID, req.Subtotal, req.Tax, req.DeliveryFee, req.Discount)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, order)
}

// --- Transitions ---

// applyTransition decodes one request variant, runs it through the manager,
// and writes the updated order. Validation failures map to 400, everything
// else to 409 so the console can tell "fix your input" from "state moved on".
func applyTransition[T transition.Request](h *Handlers, w http.ResponseWriter, r *http.Request) {
	orderID, err := parseID(r, "orderID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.engine.OrderManager().Apply(orderID, req)
	if err != nil {
		if transition.IsValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, order)
}

func (h *Handlers) apiUpdateStatus(w http.ResponseWriter, r *http.Request) {
	applyTransition[transition.UpdateStatus](h, w, r)
}

func (h *Handlers) apiManualOverride(w http.ResponseWriter, r *http.Request) {
	applyTransition[transition.ManualOverride](h, w, r)
}

func (h *Handlers) apiForceCancel(w http.ResponseWriter, r *http.Request) {
	applyTransition[transition.ForceCancel](h, w, r)
}

func (h *Handlers) apiStandardCancel(w http.ResponseWriter, r *http.Request) {
	applyTransition[transition.StandardCancel](h, w, r)
}

func (h *Handlers) apiAssignDelivery(w http.ResponseWriter, r *http.Request) {
	applyTransition[transition.AssignDelivery](h, w, r)
}

func (h *Handlers) apiConfirmPickup(w http.ResponseWriter, r *http.Request) {
	applyTransition[transition.ConfirmPickup](h, w, r)
}

func (h *Handlers) apiStartDelivery(w http.ResponseWriter, r *http.Request) {
	applyTransition[transition.StartDelivery](h, w, r)
}

func (h *Handlers) apiMarkDelivered(w http.ResponseWriter, r *http.Request) {
	applyTransition[transition.MarkDelivered](h, w, r)
}

func (h *Handlers) apiVendorStartPrep(w http.ResponseWriter, r *http.Request) {
	applyTransition[transition.VendorStartPrep](h, w, r)
}

func (h *Handlers) apiVendorMarkReady(w http.ResponseWriter, r *http.Request) {
	applyTransition[transition.VendorMarkReady](h, w, r)
}

func (h *Handlers) apiVendorAccept(w http.ResponseWriter, r *http.Request) {
	applyTransition[transition.VendorAccept](h, w, r)
}

func (h *Handlers) apiVendorReject(w http.ResponseWriter, r *http.Request) {
	applyTransition[transition.VendorReject](h, w, r)
}

func (h *Handlers) apiCompleteOrder(w http.ResponseWriter, r *http.Request) {
	applyTransition[transition.CompleteOrder](h, w, r)
}

func (h *Handlers) apiConfirmReceipt(w http.ResponseWriter, r *http.Request) {
	applyTransition[transition.ConfirmReceipt](h, w, r)
}
