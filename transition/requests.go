package transition

import (
	"orderdesk/lifecycle"
)

// Request is one of the closed set of order transition payloads. Every
// variant knows its action kind, the label reported on success, and how to
// check its own required fields.
type Request interface {
	Kind() lifecycle.ActionKind
	Label() string
	Validate() error
}

// ValidationError is a locally-caught required-field failure. It is raised
// before any network or database work happens.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(msg string) error { return &ValidationError{Msg: msg} }

// IsValidationError reports whether err is a local validation failure.
func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}

// UpdateStatus moves the order to an explicit status.
type UpdateStatus struct {
	Status    lifecycle.Status `json:"status"`
	Reason    string           `json:"reason,omitempty"`
	UpdatedBy string           `json:"updated_by"`
	UserID    int64            `json:"user_id,omitempty"`
}

func (r UpdateStatus) Kind() lifecycle.ActionKind { return lifecycle.ActionUpdateStatus }
func (r UpdateStatus) Label() string              { return "Order status updated" }
func (r UpdateStatus) Validate() error {
	if r.Status == "" {
		return invalid("Select a status before updating the order.")
	}
	return nil
}

// ManualOverride sets the order status directly, bypassing the transition
// table. Admin only; audited server-side.
type ManualOverride struct {
	NewStatus lifecycle.Status `json:"new_status"`
	AdminID   string           `json:"admin_id"`
	Reason    string           `json:"reason,omitempty"`
}

func (r ManualOverride) Kind() lifecycle.ActionKind { return lifecycle.ActionManualOverride }
func (r ManualOverride) Label() string              { return "Order status overridden" }
func (r ManualOverride) Validate() error {
	if r.NewStatus == "" || r.AdminID == "" {
		return invalid("Provide both a new status and admin ID to override the order status.")
	}
	return nil
}

// ForceCancel cancels the order from any state. Admin only; audited.
type ForceCancel struct {
	AdminID string `json:"admin_id"`
	Reason  string `json:"reason"`
}

func (r ForceCancel) Kind() lifecycle.ActionKind { return lifecycle.ActionForceCancel }
func (r ForceCancel) Label() string              { return "Order force-cancelled" }
func (r ForceCancel) Validate() error {
	if r.AdminID == "" || r.Reason == "" {
		return invalid("Provide both admin ID and reason to force cancel the order.")
	}
	return nil
}

// StandardCancel cancels the order through the normal transition table.
// UserID 0 means the customer was not resolved when the cancel was filed.
type StandardCancel struct {
	UserID      int64  `json:"user_id"`
	Reason      string `json:"reason"`
	CancelledBy string `json:"cancelled_by"`
}

func (r StandardCancel) Kind() lifecycle.ActionKind { return lifecycle.ActionStandardCancel }
func (r StandardCancel) Label() string              { return "Order cancelled" }
func (r StandardCancel) Validate() error {
	if r.Reason == "" {
		return invalid("Provide a cancellation reason.")
	}
	return nil
}

// AssignDelivery attaches a delivery person to a ready order.
type AssignDelivery struct {
	DeliveryPersonID int64  `json:"delivery_person_id"`
	AssignedBy       string `json:"assigned_by"`
	Notes            string `json:"notes,omitempty"`
}

func (r AssignDelivery) Kind() lifecycle.ActionKind { return lifecycle.ActionAssignDelivery }
func (r AssignDelivery) Label() string              { return "Delivery person assigned" }
func (r AssignDelivery) Validate() error {
	if r.DeliveryPersonID == 0 || r.AssignedBy == "" {
		return invalid("Provide both a delivery person and assigner ID to assign the order.")
	}
	return nil
}

// ConfirmPickup is the assigned delivery person collecting the order.
type ConfirmPickup struct {
	DeliveryPersonID int64 `json:"delivery_person_id"`
}

func (r ConfirmPickup) Kind() lifecycle.ActionKind { return lifecycle.ActionConfirmPickup }
func (r ConfirmPickup) Label() string              { return "Pickup confirmed" }
func (r ConfirmPickup) Validate() error {
	if r.DeliveryPersonID == 0 {
		return invalid("No delivery person is assigned to this order.")
	}
	return nil
}

// StartDelivery marks the order in transit.
type StartDelivery struct {
	DeliveryPersonID int64 `json:"delivery_person_id"`
}

func (r StartDelivery) Kind() lifecycle.ActionKind { return lifecycle.ActionStartDelivery }
func (r StartDelivery) Label() string              { return "Delivery started" }
func (r StartDelivery) Validate() error {
	if r.DeliveryPersonID == 0 {
		return invalid("No delivery person is assigned to this order.")
	}
	return nil
}

// MarkDelivered marks the order delivered to the customer.
type MarkDelivered struct {
	DeliveryPersonID int64 `json:"delivery_person_id"`
}

func (r MarkDelivered) Kind() lifecycle.ActionKind { return lifecycle.ActionMarkDelivered }
func (r MarkDelivered) Label() string              { return "Order marked delivered" }
func (r MarkDelivered) Validate() error {
	if r.DeliveryPersonID == 0 {
		return invalid("No delivery person is assigned to this order.")
	}
	return nil
}

// VendorStartPrep is the vendor beginning preparation.
type VendorStartPrep struct {
	VendorID int64 `json:"vendor_id"`
}

func (r VendorStartPrep) Kind() lifecycle.ActionKind { return lifecycle.ActionVendorStartPrep }
func (r VendorStartPrep) Label() string              { return "Preparation started" }
func (r VendorStartPrep) Validate() error {
	if r.VendorID == 0 {
		return invalid("Vendor ID is not resolved for this order.")
	}
	return nil
}

// VendorMarkReady is the vendor declaring the order ready for delivery.
type VendorMarkReady struct {
	VendorID int64 `json:"vendor_id"`
}

func (r VendorMarkReady) Kind() lifecycle.ActionKind { return lifecycle.ActionVendorMarkReady }
func (r VendorMarkReady) Label() string              { return "Order marked ready" }
func (r VendorMarkReady) Validate() error {
	if r.VendorID == 0 {
		return invalid("Vendor ID is not resolved for this order.")
	}
	return nil
}

// VendorAccept is the vendor accepting a requested order.
type VendorAccept struct {
	VendorID int64 `json:"vendor_id"`
}

func (r VendorAccept) Kind() lifecycle.ActionKind { return lifecycle.ActionVendorAccept }
func (r VendorAccept) Label() string              { return "Order accepted" }
func (r VendorAccept) Validate() error {
	if r.VendorID == 0 {
		return invalid("Vendor ID is not resolved for this order.")
	}
	return nil
}

// VendorReject is the vendor declining a requested order.
type VendorReject struct {
	VendorID int64  `json:"vendor_id"`
	Reason   string `json:"reason"`
}

func (r VendorReject) Kind() lifecycle.ActionKind { return lifecycle.ActionVendorReject }
func (r VendorReject) Label() string              { return "Order rejected" }
func (r VendorReject) Validate() error {
	if r.VendorID == 0 {
		return invalid("Vendor ID is not resolved for this order.")
	}
	if r.Reason == "" {
		return invalid("Provide a rejection reason.")
	}
	return nil
}

// Feedback is the customer's rating bundle filed on completion.
type Feedback struct {
	VendorRating   int      `json:"vendor_rating"`
	DeliveryRating int      `json:"delivery_rating"`
	Comment        string   `json:"comment,omitempty"`
	Issues         []string `json:"issues"`
}

// CompleteOrder closes a delivered order with customer feedback.
type CompleteOrder struct {
	UserID   int64    `json:"user_id"`
	Feedback Feedback `json:"feedback"`
}

func (r CompleteOrder) Kind() lifecycle.ActionKind { return lifecycle.ActionCompleteOrder }
func (r CompleteOrder) Label() string              { return "Order completed" }
func (r CompleteOrder) Validate() error {
	if r.UserID == 0 {
		return invalid("Customer ID is not resolved for this order.")
	}
	return nil
}

// ConfirmReceipt is the customer acknowledging delivery without feedback.
type ConfirmReceipt struct {
	UserID int64 `json:"user_id"`
}

func (r ConfirmReceipt) Kind() lifecycle.ActionKind { return lifecycle.ActionConfirmReceipt }
func (r ConfirmReceipt) Label() string              { return "Receipt confirmed" }
func (r ConfirmReceipt) Validate() error {
	if r.UserID == 0 {
		return invalid("Customer ID is not resolved for this order.")
	}
	return nil
}
