package orders

// EventEmitter receives order lifecycle notifications from the manager.
type EventEmitter interface {
	EmitOrderCreated(orderID int64, uuid string, userID, vendorID int64)
	EmitOrderStatusChanged(orderID int64, uuid, oldStatus, newStatus, actor, detail string)
	EmitOrderAssigned(orderID int64, uuid string, deliveryPersonID int64, assignedBy string)
	EmitOrderCancelled(orderID int64, uuid, reason, cancelledBy string, forced bool)
	EmitOrderCompleted(orderID int64, uuid string)
}
