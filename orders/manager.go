package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"orderdesk/lifecycle"
	"orderdesk/messaging"
	"orderdesk/store"
	"orderdesk/transition"
)

// Invalidator drops cached projections for an order after a mutation.
type Invalidator interface {
	Invalidate(ctx context.Context, orderID int64) error
}

// Manager applies transition requests against the authoritative order state.
// It is the single writer for order status: validation against the lifecycle
// table, history, audit for overrides, events, and outbox messages all happen
// here.
type Manager struct {
	db          *store.DB
	emitter     EventEmitter
	projections Invalidator
	sourceID    string
	ordersTopic string
}

func NewManager(db *store.DB, emitter EventEmitter, projections Invalidator, sourceID, ordersTopic string) *Manager {
	return &Manager{
		db:          db,
		emitter:     emitter,
		projections: projections,
		sourceID:    sourceID,
		ordersTopic: ordersTopic,
	}
}

// CreateOrder registers a new order in REQUESTED. The money fields come from
// the checkout flow; the lifecycle starts here.
func (m *Manager) CreateOrder(userID, vendorID int64, subtotal, tax, deliveryFee, discount float64) (*store.Order, error) {
	o := &store.Order{
		UUID:        uuid.New().String(),
		Status:      string(lifecycle.StatusRequested),
		UserID:      userID,
		VendorID:    vendorID,
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: deliveryFee,
		Discount:    discount,
		Total:       subtotal + tax + deliveryFee - discount,
	}
	if err := m.db.CreateOrder(o); err != nil {
		return nil, err
	}
	if err := m.db.InsertOrderHistory(o.ID, "", o.Status, "order created", "system"); err != nil {
		log.Printf("orders: insert history: %v", err)
	}

	m.emitter.EmitOrderCreated(o.ID, o.UUID, o.UserID, o.VendorID)
	m.enqueue(messaging.TypeOrderCreated, messaging.OrderCreated{
		OrderID: o.ID, UUID: o.UUID, UserID: o.UserID, VendorID: o.VendorID, Total: o.Total,
	})

	return m.db.GetOrder(o.ID)
}

// Apply executes one transition request against the order and returns the
// updated projection. All failure modes come back as errors; the order is
// never left half-transitioned.
func (m *Manager) Apply(orderID int64, req transition.Request) (*store.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	order, err := m.db.GetOrder(orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	switch r := req.(type) {
	case transition.UpdateStatus:
		err = m.transitionTo(order, r.Status, r.Reason, r.UpdatedBy, false)

	case transition.ManualOverride:
		old := order.Status
		if err = m.transitionTo(order, r.NewStatus, r.Reason, r.AdminID, true); err == nil {
			m.audit(order.ID, "manual_override", old, string(r.NewStatus), r.AdminID)
		}

	case transition.ForceCancel:
		old := order.Status
		// The bypass skips the table but a cancelled order stays cancelled;
		// refuse before touching the cancellation columns.
		if lifecycle.Status(old) == lifecycle.StatusCancelled {
			return nil, fmt.Errorf("order is already %s", lifecycle.StatusCancelled)
		}
		if err = m.db.UpdateOrderCancellation(order.ID, r.Reason, r.AdminID); err != nil {
			return nil, err
		}
		if err = m.transitionTo(order, lifecycle.StatusCancelled, r.Reason, r.AdminID, true); err == nil {
			m.audit(order.ID, "force_cancel", old, string(lifecycle.StatusCancelled), r.AdminID)
			m.emitter.EmitOrderCancelled(order.ID, order.UUID, r.Reason, r.AdminID, true)
			m.enqueue(messaging.TypeOrderCancelled, messaging.OrderCancelled{
				OrderID: order.ID, UUID: order.UUID, Reason: r.Reason, CancelledBy: r.AdminID, Forced: true,
			})
		}

	case transition.StandardCancel:
		if err = m.canTransition(order, lifecycle.StatusCancelled); err != nil {
			return nil, err
		}
		if err = m.db.UpdateOrderCancellation(order.ID, r.Reason, r.CancelledBy); err != nil {
			return nil, err
		}
		if err = m.transitionTo(order, lifecycle.StatusCancelled, r.Reason, r.CancelledBy, false); err == nil {
			m.emitter.EmitOrderCancelled(order.ID, order.UUID, r.Reason, r.CancelledBy, false)
			m.enqueue(messaging.TypeOrderCancelled, messaging.OrderCancelled{
				OrderID: order.ID, UUID: order.UUID, Reason: r.Reason, CancelledBy: r.CancelledBy,
			})
		}

	case transition.AssignDelivery:
		if err = m.canTransition(order, lifecycle.StatusAssigned); err != nil {
			return nil, err
		}
		if err = m.db.UpdateOrderAssignment(order.ID, r.DeliveryPersonID, r.AssignedBy, r.Notes); err != nil {
			return nil, err
		}
		if err = m.transitionTo(order, lifecycle.StatusAssigned, fmt.Sprintf("assigned to delivery person %d", r.DeliveryPersonID), r.AssignedBy, false); err == nil {
			m.emitter.EmitOrderAssigned(order.ID, order.UUID, r.DeliveryPersonID, r.AssignedBy)
			m.enqueue(messaging.TypeOrderAssigned, messaging.OrderAssigned{
				OrderID: order.ID, UUID: order.UUID, DeliveryPersonID: r.DeliveryPersonID, AssignedBy: r.AssignedBy,
			})
		}

	case transition.ConfirmPickup:
		if err = m.requireDeliveryPerson(order, r.DeliveryPersonID); err != nil {
			return nil, err
		}
		err = m.transitionTo(order, lifecycle.StatusPickedUp, "pickup confirmed", actorDelivery(r.DeliveryPersonID), false)

	case transition.StartDelivery:
		if err = m.requireDeliveryPerson(order, r.DeliveryPersonID); err != nil {
			return nil, err
		}
		err = m.transitionTo(order, lifecycle.StatusInTransit, "delivery started", actorDelivery(r.DeliveryPersonID), false)

	case transition.MarkDelivered:
		if err = m.requireDeliveryPerson(order, r.DeliveryPersonID); err != nil {
			return nil, err
		}
		err = m.transitionTo(order, lifecycle.StatusDelivered, "delivered to customer", actorDelivery(r.DeliveryPersonID), false)

	case transition.VendorStartPrep:
		if err = m.requireVendor(order, r.VendorID); err != nil {
			return nil, err
		}
		err = m.transitionTo(order, lifecycle.StatusPreparing, "preparation started", actorVendor(r.VendorID), false)

	case transition.VendorMarkReady:
		if err = m.requireVendor(order, r.VendorID); err != nil {
			return nil, err
		}
		err = m.transitionTo(order, lifecycle.StatusReadyForDelivery, "ready for delivery", actorVendor(r.VendorID), false)

	case transition.VendorAccept:
		if err = m.requireVendor(order, r.VendorID); err != nil {
			return nil, err
		}
		err = m.transitionTo(order, lifecycle.StatusVendorAccepted, "accepted by vendor", actorVendor(r.VendorID), false)

	case transition.VendorReject:
		if err = m.requireVendor(order, r.VendorID); err != nil {
			return nil, err
		}
		if err = m.canTransition(order, lifecycle.StatusCancelled); err != nil {
			return nil, err
		}
		if err = m.db.UpdateOrderCancellation(order.ID, r.Reason, actorVendor(r.VendorID)); err != nil {
			return nil, err
		}
		if err = m.transitionTo(order, lifecycle.StatusCancelled, r.Reason, actorVendor(r.VendorID), false); err == nil {
			m.emitter.EmitOrderCancelled(order.ID, order.UUID, r.Reason, actorVendor(r.VendorID), false)
			m.enqueue(messaging.TypeOrderCancelled, messaging.OrderCancelled{
				OrderID: order.ID, UUID: order.UUID, Reason: r.Reason, CancelledBy: actorVendor(r.VendorID),
			})
		}

	case transition.CompleteOrder:
		if err = m.requireCustomer(order, r.UserID); err != nil {
			return nil, err
		}
		if err = m.canTransition(order, lifecycle.StatusCompleted); err != nil {
			return nil, err
		}
		issues, _ := json.Marshal(r.Feedback.Issues)
		if err = m.db.UpdateOrderFeedback(order.ID, r.Feedback.VendorRating, r.Feedback.DeliveryRating, r.Feedback.Comment, string(issues)); err != nil {
			return nil, err
		}
		if err = m.transitionTo(order, lifecycle.StatusCompleted, "completed with feedback", actorCustomer(r.UserID), false); err == nil {
			m.enqueue(messaging.TypeOrderCompleted, messaging.OrderCompleted{
				OrderID: order.ID, UUID: order.UUID,
				VendorRating: r.Feedback.VendorRating, DeliveryRating: r.Feedback.DeliveryRating,
			})
		}

	case transition.ConfirmReceipt:
		if err = m.requireCustomer(order, r.UserID); err != nil {
			return nil, err
		}
		if err = m.transitionTo(order, lifecycle.StatusCompleted, "receipt confirmed", actorCustomer(r.UserID), false); err == nil {
			m.enqueue(messaging.TypeOrderCompleted, messaging.OrderCompleted{
				OrderID: order.ID, UUID: order.UUID,
			})
		}

	default:
		return nil, fmt.Errorf("unsupported transition request: %T", req)
	}

	if err != nil {
		return nil, err
	}
	return m.db.GetOrder(orderID)
}

// canTransition pre-checks a table-validated move so side-effect columns
// (assignment, cancellation) are never written for a doomed transition.
func (m *Manager) canTransition(order *store.Order, to lifecycle.Status) error {
	from := lifecycle.Status(order.Status)
	if lifecycle.IsTerminal(from) {
		return fmt.Errorf("order is already in terminal state: %s", from)
	}
	if !lifecycle.IsValidTransition(from, to) {
		return fmt.Errorf("invalid transition from %s to %s", from, to)
	}
	return nil
}

// transitionTo moves the order to a new status. Overrides bypass the
// transition table but still refuse no-op moves to the current status.
func (m *Manager) transitionTo(order *store.Order, to lifecycle.Status, detail, actor string, bypass bool) error {
	from := lifecycle.Status(order.Status)
	if from == to {
		return fmt.Errorf("order is already %s", to)
	}
	if !bypass {
		if lifecycle.IsTerminal(from) {
			return fmt.Errorf("order is already in terminal state: %s", from)
		}
		if !lifecycle.IsValidTransition(from, to) {
			return fmt.Errorf("invalid transition from %s to %s", from, to)
		}
	}

	var err error
	if lifecycle.IsTerminal(to) {
		err = m.db.MarkOrderCompleted(order.ID, string(to))
	} else {
		err = m.db.UpdateOrderStatus(order.ID, string(to))
	}
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if err := m.db.InsertOrderHistory(order.ID, string(from), string(to), detail, actor); err != nil {
		log.Printf("orders: insert history: %v", err)
	}

	m.invalidate(order.ID)
	m.emitter.EmitOrderStatusChanged(order.ID, order.UUID, string(from), string(to), actor, detail)
	m.enqueue(messaging.TypeOrderStatusChanged, messaging.OrderStatusChanged{
		OrderID: order.ID, UUID: order.UUID,
		OldStatus: string(from), NewStatus: string(to),
		Actor: actor, Detail: detail,
	})
	if to == lifecycle.StatusCompleted {
		m.emitter.EmitOrderCompleted(order.ID, order.UUID)
	}

	order.Status = string(to)
	return nil
}

func (m *Manager) requireDeliveryPerson(order *store.Order, deliveryPersonID int64) error {
	if order.DeliveryPersonID == nil || *order.DeliveryPersonID == 0 {
		return fmt.Errorf("no delivery person assigned to order %d", order.ID)
	}
	if *order.DeliveryPersonID != deliveryPersonID {
		return fmt.Errorf("delivery person %d is not assigned to order %d", deliveryPersonID, order.ID)
	}
	return nil
}

func (m *Manager) requireVendor(order *store.Order, vendorID int64) error {
	if order.VendorID != vendorID {
		return fmt.Errorf("vendor %d does not own order %d", vendorID, order.ID)
	}
	return nil
}

// requireCustomer tolerates user ID 0: cancels and completions filed before
// the customer was resolved carry the documented zero fallback.
func (m *Manager) requireCustomer(order *store.Order, userID int64) error {
	if userID != 0 && order.UserID != 0 && order.UserID != userID {
		return fmt.Errorf("customer %d does not own order %d", userID, order.ID)
	}
	return nil
}

func (m *Manager) audit(orderID int64, action, oldValue, newValue, actor string) {
	if err := m.db.AppendAudit("order", orderID, action, oldValue, newValue, actor); err != nil {
		log.Printf("orders: append audit: %v", err)
	}
}

func (m *Manager) invalidate(orderID int64) {
	if m.projections == nil {
		return
	}
	if err := m.projections.Invalidate(context.Background(), orderID); err != nil {
		log.Printf("orders: invalidate projection %d: %v", orderID, err)
	}
}

func (m *Manager) enqueue(msgType string, payload any) {
	env := messaging.NewEnvelope(msgType, m.sourceID, payload)
	data, err := env.Encode()
	if err != nil {
		log.Printf("orders: encode %s: %v", msgType, err)
		return
	}
	if err := m.db.EnqueueOutbox(m.ordersTopic, data, msgType); err != nil {
		log.Printf("orders: enqueue %s: %v", msgType, err)
	}
}

func actorDelivery(id int64) string { return fmt.Sprintf("delivery:%d", id) }
func actorVendor(id int64) string   { return fmt.Sprintf("vendor:%d", id) }
func actorCustomer(id int64) string { return fmt.Sprintf("customer:%d", id) }
