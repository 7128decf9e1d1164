package engine

// managerEmitter bridges the orders package's emitter interface to the EventBus.
type managerEmitter struct {
	bus *EventBus
}

func (e *managerEmitter) EmitOrderCreated(orderID int64, uuid string, userID, vendorID int64) {
	e.bus.Emit(Event{Type: EventOrderCreated, Payload: OrderCreatedEvent{
		OrderID:  orderID,
		UUID:     uuid,
		UserID:   userID,
		VendorID: vendorID,
	}})
}

func (e *managerEmitter) EmitOrderStatusChanged(orderID int64, uuid, oldStatus, newStatus, actor, detail string) {
	e.bus.Emit(Event{Type: EventOrderStatusChanged, Payload: OrderStatusChangedEvent{
		OrderID:   orderID,
		UUID:      uuid,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Actor:     actor,
		Detail:    detail,
	}})
}

func (e *managerEmitter) EmitOrderAssigned(orderID int64, uuid string, deliveryPersonID int64, assignedBy string) {
	e.bus.Emit(Event{Type: EventOrderAssigned, Payload: OrderAssignedEvent{
		OrderID:          orderID,
		UUID:             uuid,
		DeliveryPersonID: deliveryPersonID,
		AssignedBy:       assignedBy,
	}})
}

func (e *managerEmitter) EmitOrderCancelled(orderID int64, uuid, reason, cancelledBy string, forced bool) {
	e.bus.Emit(Event{Type: EventOrderCancelled, Payload: OrderCancelledEvent{
		OrderID:     orderID,
		UUID:        uuid,
		Reason:      reason,
		CancelledBy: cancelledBy,
		Forced:      forced,
	}})
}

func (e *managerEmitter) EmitOrderCompleted(orderID int64, uuid string) {
	e.bus.Emit(Event{Type: EventOrderCompleted, Payload: OrderCompletedEvent{
		OrderID: orderID,
		UUID:    uuid,
	}})
}
