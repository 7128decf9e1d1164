package messaging

import (
	"time"
)

// Message types published on the orders topic.
const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
	TypeOrderAssigned      = "order.assigned"
	TypeOrderCancelled     = "order.cancelled"
	TypeOrderCompleted     = "order.completed"
)

// Envelope wraps every outbound message with routing metadata.
type Envelope struct {
	MsgType   string    `json:"msg_type"`
	MsgID     string    `json:"msg_id"`
	SourceID  string    `json:"source_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// OrderCreated announces a new order entering the lifecycle.
type OrderCreated struct {
	OrderID  int64   `json:"order_id"`
	UUID     string  `json:"uuid"`
	UserID   int64   `json:"user_id"`
	VendorID int64   `json:"vendor_id"`
	Total    float64 `json:"total"`
}

// OrderStatusChanged announces a status transition.
type OrderStatusChanged struct {
	OrderID   int64  `json:"order_id"`
	UUID      string `json:"uuid"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	Actor     string `json:"actor"`
	Detail    string `json:"detail,omitempty"`
}

// OrderAssigned announces a delivery person attachment.
type OrderAssigned struct {
	OrderID          int64  `json:"order_id"`
	UUID             string `json:"uuid"`
	DeliveryPersonID int64  `json:"delivery_person_id"`
	AssignedBy       string `json:"assigned_by"`
}

// OrderCancelled announces a cancellation, forced or standard.
type OrderCancelled struct {
	OrderID     int64  `json:"order_id"`
	UUID        string `json:"uuid"`
	Reason      string `json:"reason"`
	CancelledBy string `json:"cancelled_by"`
	Forced      bool   `json:"forced"`
}

// OrderCompleted announces a closed order with its ratings.
type OrderCompleted struct {
	OrderID        int64  `json:"order_id"`
	UUID           string `json:"uuid"`
	VendorRating   int    `json:"vendor_rating"`
	DeliveryRating int    `json:"delivery_rating"`
}
