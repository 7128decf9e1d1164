package lifecycle

// ActionKind identifies an operator action that drives a transition.
type ActionKind string

const (
	ActionUpdateStatus    ActionKind = "update_status"
	ActionManualOverride  ActionKind = "manual_override"
	ActionForceCancel     ActionKind = "force_cancel"
	ActionStandardCancel  ActionKind = "standard_cancel"
	ActionAssignDelivery  ActionKind = "assign_delivery"
	ActionConfirmPickup   ActionKind = "confirm_pickup"
	ActionStartDelivery   ActionKind = "start_delivery"
	ActionMarkDelivered   ActionKind = "mark_delivered"
	ActionVendorStartPrep ActionKind = "vendor_start_prep"
	ActionVendorMarkReady ActionKind = "vendor_mark_ready"
	ActionVendorAccept    ActionKind = "vendor_accept"
	ActionVendorReject    ActionKind = "vendor_reject"
	ActionCompleteOrder   ActionKind = "complete_order"
	ActionConfirmReceipt  ActionKind = "confirm_receipt"
)

// adminActions are available on any non-terminal order regardless of status.
var adminActions = []ActionKind{ActionUpdateStatus, ActionManualOverride, ActionForceCancel}

// statusActions maps each status to its status-specific actions.
var statusActions = map[Status][]ActionKind{
	StatusRequested:        {ActionVendorAccept, ActionVendorReject, ActionStandardCancel},
	StatusVendorAccepted:   {ActionStandardCancel},
	StatusNegotiating:      {ActionStandardCancel},
	StatusConfirmed:        {ActionVendorStartPrep, ActionStandardCancel},
	StatusPreparing:        {ActionVendorMarkReady, ActionStandardCancel},
	StatusReadyForDelivery: {ActionAssignDelivery, ActionStandardCancel},
	StatusAssigned:         {ActionConfirmPickup, ActionStandardCancel},
	StatusPickedUp:         {ActionStartDelivery, ActionStandardCancel},
	StatusInTransit:        {ActionMarkDelivered, ActionStandardCancel},
	StatusDelivered:        {ActionCompleteOrder, ActionConfirmReceipt},
}

// AvailableActions returns the actions available at the given status.
// Unrecognized statuses get no actions rather than an error, so a newer
// backend status never breaks the caller.
func AvailableActions(status Status) []ActionKind {
	if IsTerminal(status) {
		return nil
	}
	specific, ok := statusActions[status]
	if !ok {
		return nil
	}
	out := make([]ActionKind, 0, len(specific)+len(adminActions))
	out = append(out, specific...)
	out = append(out, adminActions...)
	return out
}
