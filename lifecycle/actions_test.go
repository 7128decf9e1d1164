package lifecycle

import "testing"

func containsAction(actions []ActionKind, kind ActionKind) bool {
	for _, a := range actions {
		if a == kind {
			return true
		}
	}
	return false
}

func TestAvailableActionsPerStatus(t *testing.T) {
	cases := []struct {
		status Status
		want   []ActionKind
	}{
		{StatusRequested, []ActionKind{ActionVendorAccept, ActionVendorReject, ActionStandardCancel}},
		{StatusVendorAccepted, []ActionKind{ActionStandardCancel}},
		{StatusNegotiating, []ActionKind{ActionStandardCancel}},
		{StatusConfirmed, []ActionKind{ActionVendorStartPrep, ActionStandardCancel}},
		{StatusPreparing, []ActionKind{ActionVendorMarkReady, ActionStandardCancel}},
		{StatusReadyForDelivery, []ActionKind{ActionAssignDelivery, ActionStandardCancel}},
		{StatusAssigned, []ActionKind{ActionConfirmPickup, ActionStandardCancel}},
		{StatusPickedUp, []ActionKind{ActionStartDelivery, ActionStandardCancel}},
		{StatusInTransit, []ActionKind{ActionMarkDelivered, ActionStandardCancel}},
		{StatusDelivered, []ActionKind{ActionCompleteOrder, ActionConfirmReceipt}},
	}
	for _, c := range cases {
		got := AvailableActions(c.status)
		for _, want := range c.want {
			if !containsAction(got, want) {
				t.Errorf("%s: missing %s in %v", c.status, want, got)
			}
		}
		// Admin actions ride along on every non-terminal status.
		for _, admin := range []ActionKind{ActionUpdateStatus, ActionManualOverride, ActionForceCancel} {
			if !containsAction(got, admin) {
				t.Errorf("%s: missing admin action %s", c.status, admin)
			}
		}
		if len(got) != len(c.want)+3 {
			t.Errorf("%s: got %d actions, want %d", c.status, len(got), len(c.want)+3)
		}
	}
}

func TestCancelActionMatchesTransitionTable(t *testing.T) {
	// Every status the table lets cancel must advertise the cancel control,
	// and vice versa.
	for _, s := range AllStatuses {
		if IsTerminal(s) {
			continue
		}
		canCancel := IsValidTransition(s, StatusCancelled)
		advertised := containsAction(AvailableActions(s), ActionStandardCancel)
		if canCancel != advertised {
			t.Errorf("%s: table allows cancel = %v, action advertised = %v", s, canCancel, advertised)
		}
	}
}

func TestAvailableActionsTerminal(t *testing.T) {
	if got := AvailableActions(StatusCompleted); got != nil {
		t.Errorf("COMPLETED actions = %v, want nil", got)
	}
	if got := AvailableActions(StatusCancelled); got != nil {
		t.Errorf("CANCELLED actions = %v, want nil", got)
	}
}

func TestAvailableActionsUnknownStatus(t *testing.T) {
	if got := AvailableActions(Status("FUTURE_STATUS")); got != nil {
		t.Errorf("unknown status actions = %v, want nil", got)
	}
}
