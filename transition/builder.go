package transition

import (
	"orderdesk/lifecycle"
)

// OrderContext is what the builder knows about the selected order. Pointers
// are nil when the detail view has not resolved the field yet.
type OrderContext struct {
	OrderID          int64
	UserID           *int64
	VendorID         int64
	DeliveryPersonID *int64
}

// Builder turns raw form input plus order context into exactly one validated
// Request. Pure construction: no side effects, no network.
type Builder struct {
	ctx OrderContext
}

func NewBuilder(ctx OrderContext) *Builder {
	return &Builder{ctx: ctx}
}

func (b *Builder) build(r Request) (Request, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (b *Builder) UpdateStatus(status lifecycle.Status, reason, updatedBy string) (Request, error) {
	r := UpdateStatus{Status: status, Reason: reason, UpdatedBy: updatedBy}
	if b.ctx.UserID != nil {
		r.UserID = *b.ctx.UserID
	}
	return b.build(r)
}

func (b *Builder) ManualOverride(newStatus lifecycle.Status, adminID, reason string) (Request, error) {
	return b.build(ManualOverride{NewStatus: newStatus, AdminID: adminID, Reason: reason})
}

func (b *Builder) ForceCancel(adminID, reason string) (Request, error) {
	return b.build(ForceCancel{AdminID: adminID, Reason: reason})
}

// StandardCancel falls back to user ID 0 when the customer has not been
// resolved yet. The wire contract documents 0 as "unresolved customer".
func (b *Builder) StandardCancel(reason, cancelledBy string) (Request, error) {
	var userID int64
	if b.ctx.UserID != nil {
		userID = *b.ctx.UserID
	}
	return b.build(StandardCancel{UserID: userID, Reason: reason, CancelledBy: cancelledBy})
}

func (b *Builder) AssignDelivery(deliveryPersonID int64, assignedBy, notes string) (Request, error) {
	return b.build(AssignDelivery{DeliveryPersonID: deliveryPersonID, AssignedBy: assignedBy, Notes: notes})
}

// assignedDeliveryPerson guards the quick delivery actions: they only make
// sense once the order carries a non-zero delivery person.
func (b *Builder) assignedDeliveryPerson() (int64, error) {
	if b.ctx.DeliveryPersonID == nil || *b.ctx.DeliveryPersonID == 0 {
		return 0, invalid("No delivery person is assigned to this order.")
	}
	return *b.ctx.DeliveryPersonID, nil
}

func (b *Builder) ConfirmPickup() (Request, error) {
	id, err := b.assignedDeliveryPerson()
	if err != nil {
		return nil, err
	}
	return b.build(ConfirmPickup{DeliveryPersonID: id})
}

func (b *Builder) StartDelivery() (Request, error) {
	id, err := b.assignedDeliveryPerson()
	if err != nil {
		return nil, err
	}
	return b.build(StartDelivery{DeliveryPersonID: id})
}

func (b *Builder) MarkDelivered() (Request, error) {
	id, err := b.assignedDeliveryPerson()
	if err != nil {
		return nil, err
	}
	return b.build(MarkDelivered{DeliveryPersonID: id})
}

func (b *Builder) VendorStartPrep() (Request, error) {
	return b.build(VendorStartPrep{VendorID: b.ctx.VendorID})
}

func (b *Builder) VendorMarkReady() (Request, error) {
	return b.build(VendorMarkReady{VendorID: b.ctx.VendorID})
}

func (b *Builder) VendorAccept() (Request, error) {
	return b.build(VendorAccept{VendorID: b.ctx.VendorID})
}

func (b *Builder) VendorReject(reason string) (Request, error) {
	return b.build(VendorReject{VendorID: b.ctx.VendorID, Reason: reason})
}

func (b *Builder) CompleteOrder(feedback Feedback) (Request, error) {
	if b.ctx.UserID == nil || *b.ctx.UserID == 0 {
		return nil, invalid("Customer ID is not resolved for this order.")
	}
	return b.build(CompleteOrder{UserID: *b.ctx.UserID, Feedback: feedback})
}

func (b *Builder) ConfirmReceipt() (Request, error) {
	if b.ctx.UserID == nil || *b.ctx.UserID == 0 {
		return nil, invalid("Customer ID is not resolved for this order.")
	}
	return b.build(ConfirmReceipt{UserID: *b.ctx.UserID})
}
