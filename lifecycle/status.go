package lifecycle

// Status is the order lifecycle status.
type Status string

// Order statuses
const (
	StatusRequested        Status = "REQUESTED"
	StatusVendorAccepted   Status = "VENDOR_ACCEPTED"
	StatusNegotiating      Status = "NEGOTIATING"
	StatusConfirmed        Status = "CONFIRMED"
	StatusPreparing        Status = "PREPARING"
	StatusReadyForDelivery Status = "READY_FOR_DELIVERY"
	StatusAssigned         Status = "ASSIGNED"
	StatusPickedUp         Status = "PICKED_UP"
	StatusInTransit        Status = "IN_TRANSIT"
	StatusDelivered        Status = "DELIVERED"
	StatusCompleted        Status = "COMPLETED"
	StatusCancelled        Status = "CANCELLED"
)

// AllStatuses lists every known status in lifecycle order.
var AllStatuses = []Status{
	StatusRequested,
	StatusVendorAccepted,
	StatusNegotiating,
	StatusConfirmed,
	StatusPreparing,
	StatusReadyForDelivery,
	StatusAssigned,
	StatusPickedUp,
	StatusInTransit,
	StatusDelivered,
	StatusCompleted,
	StatusCancelled,
}

// validTransitions defines which status transitions are allowed.
// A delivered order can only complete; cancellation past delivery
// requires an admin override.
var validTransitions = map[Status][]Status{
	StatusRequested:        {StatusVendorAccepted, StatusCancelled},
	StatusVendorAccepted:   {StatusNegotiating, StatusConfirmed, StatusCancelled},
	StatusNegotiating:      {StatusConfirmed, StatusCancelled},
	StatusConfirmed:        {StatusPreparing, StatusCancelled},
	StatusPreparing:        {StatusReadyForDelivery, StatusCancelled},
	StatusReadyForDelivery: {StatusAssigned, StatusCancelled},
	StatusAssigned:         {StatusPickedUp, StatusCancelled},
	StatusPickedUp:         {StatusInTransit, StatusCancelled},
	StatusInTransit:        {StatusDelivered, StatusCancelled},
	StatusDelivered:        {StatusCompleted},
}

// IsValidTransition checks if a status transition is allowed.
func IsValidTransition(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from the given status, or nil
// for terminal and unrecognized statuses.
func NextStatuses(from Status) []Status {
	allowed := validTransitions[from]
	if len(allowed) == 0 {
		return nil
	}
	out := make([]Status, len(allowed))
	copy(out, allowed)
	return out
}

// IsTerminal returns true if the status is a terminal state.
func IsTerminal(status Status) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// IsKnown returns true if the status is part of the enumeration.
func IsKnown(status Status) bool {
	for _, s := range AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}
