package engine

const (
	EventOrderCreated EventType = iota + 1
	EventOrderStatusChanged
	EventOrderAssigned
	EventOrderCancelled
	EventOrderCompleted
	EventMessagingConnected
	EventMessagingDisconnected
)

// --- Event payloads ---

type OrderCreatedEvent struct {
	OrderID  int64
	UUID     string
	UserID   int64
	VendorID int64
}

type OrderStatusChangedEvent struct {
	OrderID   int64
	UUID      string
	OldStatus string
	NewStatus string
	Actor     string
	Detail    string
}

type OrderAssignedEvent struct {
	OrderID          int64
	UUID             string
	DeliveryPersonID int64
	AssignedBy       string
}

type OrderCancelledEvent struct {
	OrderID     int64
	UUID        string
	Reason      string
	CancelledBy string
	Forced      bool
}

type OrderCompletedEvent struct {
	OrderID int64
	UUID    string
}

type ConnectionEvent struct {
	Detail string
}
