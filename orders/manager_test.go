package orders

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"orderdesk/config"
	"orderdesk/lifecycle"
	"orderdesk/store"
	"orderdesk/transition"
)

// mockEmitter records emitted events for assertions.
type mockEmitter struct {
	created       []int64
	statusChanges []string
	assigned      []int64
	cancelled     []bool // forced flag per cancellation
	completed     []int64
}

func (m *mockEmitter) EmitOrderCreated(orderID int64, uuid string, userID, vendorID int64) {
	m.created = append(m.created, orderID)
}
func (m *mockEmitter) EmitOrderStatusChanged(orderID int64, uuid, oldStatus, newStatus, actor, detail string) {
	m.statusChanges = append(m.statusChanges, oldStatus+"->"+newStatus)
}
func (m *mockEmitter) EmitOrderAssigned(orderID int64, uuid string, deliveryPersonID int64, assignedBy string) {
	m.assigned = append(m.assigned, deliveryPersonID)
}
func (m *mockEmitter) EmitOrderCancelled(orderID int64, uuid, reason, cancelledBy string, forced bool) {
	m.cancelled = append(m.cancelled, forced)
}
func (m *mockEmitter) EmitOrderCompleted(orderID int64, uuid string) {
	m.completed = append(m.completed, orderID)
}

// mockInvalidator counts projection invalidations per order.
type mockInvalidator struct {
	calls map[int64]int
}

func (m *mockInvalidator) Invalidate(ctx context.Context, orderID int64) error {
	if m.calls == nil {
		m.calls = make(map[int64]int)
	}
	m.calls[orderID]++
	return nil
}

func testManager(t *testing.T) (*Manager, *mockEmitter, *mockInvalidator, *store.DB) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	db, err := store.Open(&config.DatabaseConfig{
		Driver: "sqlite",
		SQLite: config.SQLiteConfig{Path: dbPath},
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	emitter := &mockEmitter{}
	inv := &mockInvalidator{}
	return NewManager(db, emitter, inv, "test", "orders"), emitter, inv, db
}

func createTestOrder(t *testing.T, m *Manager) *store.Order {
	t.Helper()
	o, err := m.CreateOrder(42, 9, 25.50, 2.05, 3.00, 0)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return o
}

func TestCreateOrder(t *testing.T) {
	m, emitter, _, db := testManager(t)

	o := createTestOrder(t, m)
	if o.Status != string(lifecycle.StatusRequested) {
		t.Errorf("Status = %q, want REQUESTED", o.Status)
	}
	if o.Total != 30.55 {
		t.Errorf("Total = %v, want 30.55", o.Total)
	}
	if o.UUID == "" {
		t.Error("UUID should be assigned")
	}
	if len(emitter.created) != 1 {
		t.Errorf("created events = %d, want 1", len(emitter.created))
	}

	history, _ := db.ListOrderHistory(o.ID)
	if len(history) != 1 || history[0].NewStatus != "REQUESTED" {
		t.Errorf("history = %v, want single REQUESTED entry", history)
	}

	pending, _ := db.ListPendingOutbox(10)
	if len(pending) != 1 || pending[0].MsgType != "order.created" {
		t.Errorf("outbox = %v, want single order.created", pending)
	}
}

func TestFullLifecycle(t *testing.T) {
	m, emitter, _, db := testManager(t)
	o := createTestOrder(t, m)

	steps := []transition.Request{
		transition.VendorAccept{VendorID: 9},
		transition.UpdateStatus{Status: lifecycle.StatusConfirmed, UpdatedBy: "admin-1"},
		transition.VendorStartPrep{VendorID: 9},
		transition.VendorMarkReady{VendorID: 9},
		transition.AssignDelivery{DeliveryPersonID: 7, AssignedBy: "dispatcher"},
		transition.ConfirmPickup{DeliveryPersonID: 7},
		transition.StartDelivery{DeliveryPersonID: 7},
		transition.MarkDelivered{DeliveryPersonID: 7},
		transition.CompleteOrder{UserID: 42, Feedback: transition.Feedback{VendorRating: 5, DeliveryRating: 4, Issues: []string{}}},
	}
	for i, step := range steps {
		if _, err := m.Apply(o.ID, step); err != nil {
			t.Fatalf("step %d (%T): %v", i, step, err)
		}
	}

	final, _ := db.GetOrder(o.ID)
	if final.Status != string(lifecycle.StatusCompleted) {
		t.Errorf("final status = %q, want COMPLETED", final.Status)
	}
	if final.CompletedAt == nil {
		t.Error("CompletedAt should be stamped")
	}
	if final.VendorRating != 5 || final.DeliveryRating != 4 {
		t.Errorf("ratings = %d/%d, want 5/4", final.VendorRating, final.DeliveryRating)
	}
	if len(emitter.completed) != 1 {
		t.Errorf("completed events = %d, want 1", len(emitter.completed))
	}

	// Creation entry plus one per step.
	history, _ := db.ListOrderHistory(o.ID)
	if len(history) != len(steps)+1 {
		t.Errorf("history entries = %d, want %d", len(history), len(steps)+1)
	}
}

func TestInvalidTransitionRejected(t *testing.T) {
	m, _, inv, db := testManager(t)
	o := createTestOrder(t, m)

	// REQUESTED cannot jump straight to PREPARING.
	_, err := m.Apply(o.ID, transition.VendorStartPrep{VendorID: 9})
	if err == nil {
		t.Fatal("expected invalid transition error")
	}

	got, _ := db.GetOrder(o.ID)
	if got.Status != string(lifecycle.StatusRequested) {
		t.Errorf("status changed on failed transition: %q", got.Status)
	}
	if inv.calls[o.ID] != 0 {
		t.Errorf("projection invalidated %d times on failure, want 0", inv.calls[o.ID])
	}
}

func TestTerminalOrdersRejectTransitions(t *testing.T) {
	m, _, _, _ := testManager(t)
	o := createTestOrder(t, m)

	if _, err := m.Apply(o.ID, transition.StandardCancel{UserID: 42, Reason: "changed my mind", CancelledBy: "customer"}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := m.Apply(o.ID, transition.VendorAccept{VendorID: 9}); err == nil {
		t.Error("cancelled order should reject further transitions")
	}
}

func TestProjectionInvalidatedOncePerTransition(t *testing.T) {
	m, _, inv, _ := testManager(t)
	o := createTestOrder(t, m)

	if _, err := m.Apply(o.ID, transition.VendorAccept{VendorID: 9}); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if inv.calls[o.ID] != 1 {
		t.Errorf("invalidations = %d, want exactly 1", inv.calls[o.ID])
	}
}

func TestManualOverrideBypassesTableAndAudits(t *testing.T) {
	m, _, _, db := testManager(t)
	o := createTestOrder(t, m)

	// REQUESTED -> IN_TRANSIT is not in the table; override allows it.
	_, err := m.Apply(o.ID, transition.ManualOverride{NewStatus: lifecycle.StatusInTransit, AdminID: "admin-1", Reason: "stuck in sync"})
	if err != nil {
		t.Fatalf("override: %v", err)
	}

	got, _ := db.GetOrder(o.ID)
	if got.Status != string(lifecycle.StatusInTransit) {
		t.Errorf("status = %q, want IN_TRANSIT", got.Status)
	}

	audit, _ := db.ListEntityAudit("order", o.ID)
	if len(audit) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(audit))
	}
	if audit[0].Action != "manual_override" {
		t.Errorf("audit action = %q", audit[0].Action)
	}
	if audit[0].OldValue != "REQUESTED" || audit[0].NewValue != "IN_TRANSIT" {
		t.Errorf("audit %q -> %q", audit[0].OldValue, audit[0].NewValue)
	}
}

func TestForceCancelFromAnyState(t *testing.T) {
	m, emitter, _, db := testManager(t)
	o := createTestOrder(t, m)

	// Walk to DELIVERED, which normally forbids cancellation.
	m.Apply(o.ID, transition.VendorAccept{VendorID: 9})
	m.Apply(o.ID, transition.UpdateStatus{Status: lifecycle.StatusConfirmed, UpdatedBy: "admin-1"})
	m.Apply(o.ID, transition.VendorStartPrep{VendorID: 9})
	m.Apply(o.ID, transition.VendorMarkReady{VendorID: 9})
	m.Apply(o.ID, transition.AssignDelivery{DeliveryPersonID: 7, AssignedBy: "dispatcher"})
	m.Apply(o.ID, transition.ConfirmPickup{DeliveryPersonID: 7})
	m.Apply(o.ID, transition.StartDelivery{DeliveryPersonID: 7})
	m.Apply(o.ID, transition.MarkDelivered{DeliveryPersonID: 7})

	if _, err := m.Apply(o.ID, transition.StandardCancel{UserID: 42, Reason: "nope", CancelledBy: "customer"}); err == nil {
		t.Fatal("standard cancel should fail from DELIVERED")
	}

	_, err := m.Apply(o.ID, transition.ForceCancel{AdminID: "admin-1", Reason: "fraud investigation"})
	if err != nil {
		t.Fatalf("force cancel: %v", err)
	}

	got, _ := db.GetOrder(o.ID)
	if got.Status != string(lifecycle.StatusCancelled) {
		t.Errorf("status = %q, want CANCELLED", got.Status)
	}
	if got.CancelReason != "fraud investigation" {
		t.Errorf("CancelReason = %q", got.CancelReason)
	}
	if len(emitter.cancelled) != 1 || !emitter.cancelled[0] {
		t.Errorf("cancelled events = %v, want single forced", emitter.cancelled)
	}

	audit, _ := db.ListEntityAudit("order", o.ID)
	if len(audit) != 1 || audit[0].Action != "force_cancel" {
		t.Errorf("audit = %v, want single force_cancel", audit)
	}
}

func TestForceCancelOnCancelledOrderLeavesColumns(t *testing.T) {
	m, _, _, db := testManager(t)
	o := createTestOrder(t, m)

	if _, err := m.Apply(o.ID, transition.ForceCancel{AdminID: "admin-1", Reason: "fraud"}); err != nil {
		t.Fatalf("first force cancel: %v", err)
	}

	_, err := m.Apply(o.ID, transition.ForceCancel{AdminID: "admin-2", Reason: "second reason"})
	if err == nil {
		t.Fatal("second force cancel should fail")
	}

	got, _ := db.GetOrder(o.ID)
	if got.CancelReason != "fraud" || got.CancelledBy != "admin-1" {
		t.Errorf("cancellation columns overwritten on failed cancel: %q/%q", got.CancelReason, got.CancelledBy)
	}
}

func TestStandardCancelDoesNotWriteColumnsOnInvalidTransition(t *testing.T) {
	m, _, _, db := testManager(t)
	o := createTestOrder(t, m)

	// Drive to DELIVERED where cancel is forbidden.
	m.Apply(o.ID, transition.ManualOverride{NewStatus: lifecycle.StatusDelivered, AdminID: "admin-1"})

	if _, err := m.Apply(o.ID, transition.StandardCancel{UserID: 42, Reason: "too late", CancelledBy: "customer"}); err == nil {
		t.Fatal("expected cancel rejection from DELIVERED")
	}

	got, _ := db.GetOrder(o.ID)
	if got.CancelReason != "" || got.CancelledBy != "" {
		t.Errorf("cancellation columns written on rejected cancel: %q/%q", got.CancelReason, got.CancelledBy)
	}
}

func TestDeliveryActionsRequireAssignedPerson(t *testing.T) {
	m, _, _, _ := testManager(t)
	o := createTestOrder(t, m)

	m.Apply(o.ID, transition.ManualOverride{NewStatus: lifecycle.StatusAssigned, AdminID: "admin-1"})

	// No delivery person on the order yet.
	if _, err := m.Apply(o.ID, transition.ConfirmPickup{DeliveryPersonID: 7}); err == nil {
		t.Error("pickup should fail with no assignment on the order")
	}
}

func TestDeliveryActionsRejectWrongPerson(t *testing.T) {
	m, _, _, _ := testManager(t)
	o := createTestOrder(t, m)

	m.Apply(o.ID, transition.ManualOverride{NewStatus: lifecycle.StatusReadyForDelivery, AdminID: "admin-1"})
	if _, err := m.Apply(o.ID, transition.AssignDelivery{DeliveryPersonID: 7, AssignedBy: "dispatcher"}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	if _, err := m.Apply(o.ID, transition.ConfirmPickup{DeliveryPersonID: 99}); err == nil {
		t.Error("pickup by unassigned person should fail")
	}
	if _, err := m.Apply(o.ID, transition.ConfirmPickup{DeliveryPersonID: 7}); err != nil {
		t.Errorf("pickup by assigned person: %v", err)
	}
}

func TestVendorRejectCancelsOrder(t *testing.T) {
	m, emitter, _, db := testManager(t)
	o := createTestOrder(t, m)

	_, err := m.Apply(o.ID, transition.VendorReject{VendorID: 9, Reason: "out of stock"})
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	got, _ := db.GetOrder(o.ID)
	if got.Status != string(lifecycle.StatusCancelled) {
		t.Errorf("status = %q, want CANCELLED", got.Status)
	}
	if got.CancelledBy != "vendor:9" {
		t.Errorf("CancelledBy = %q, want vendor:9", got.CancelledBy)
	}
	if len(emitter.cancelled) != 1 || emitter.cancelled[0] {
		t.Errorf("cancelled events = %v, want single unforced", emitter.cancelled)
	}
}

func TestVendorActionsRejectWrongVendor(t *testing.T) {
	m, _, _, _ := testManager(t)
	o := createTestOrder(t, m)

	if _, err := m.Apply(o.ID, transition.VendorAccept{VendorID: 999}); err == nil {
		t.Error("accept by non-owning vendor should fail")
	}
}

func TestStandardCancelWithUnresolvedCustomer(t *testing.T) {
	m, _, _, db := testManager(t)
	o := createTestOrder(t, m)

	// UserID 0 is the documented fallback for an unresolved customer.
	_, err := m.Apply(o.ID, transition.StandardCancel{UserID: 0, Reason: "duplicate order", CancelledBy: "customer"})
	if err != nil {
		t.Fatalf("cancel with user 0: %v", err)
	}
	got, _ := db.GetOrder(o.ID)
	if got.Status != string(lifecycle.StatusCancelled) {
		t.Errorf("status = %q, want CANCELLED", got.Status)
	}
}

func TestConfirmReceiptCompletesWithoutFeedback(t *testing.T) {
	m, _, _, db := testManager(t)
	o := createTestOrder(t, m)

	m.Apply(o.ID, transition.ManualOverride{NewStatus: lifecycle.StatusDelivered, AdminID: "admin-1"})

	_, err := m.Apply(o.ID, transition.ConfirmReceipt{UserID: 42})
	if err != nil {
		t.Fatalf("confirm receipt: %v", err)
	}
	got, _ := db.GetOrder(o.ID)
	if got.Status != string(lifecycle.StatusCompleted) {
		t.Errorf("status = %q, want COMPLETED", got.Status)
	}
	if got.VendorRating != 0 {
		t.Errorf("VendorRating = %d, want 0 without feedback", got.VendorRating)
	}
}

func TestCompleteOrderRejectsWrongCustomer(t *testing.T) {
	m, _, _, _ := testManager(t)
	o := createTestOrder(t, m)

	m.Apply(o.ID, transition.ManualOverride{NewStatus: lifecycle.StatusDelivered, AdminID: "admin-1"})

	if _, err := m.Apply(o.ID, transition.CompleteOrder{UserID: 777, Feedback: transition.Feedback{VendorRating: 1}}); err == nil {
		t.Error("completion by a different customer should fail")
	}
}

func TestNoOpTransitionRejected(t *testing.T) {
	m, _, _, _ := testManager(t)
	o := createTestOrder(t, m)

	_, err := m.Apply(o.ID, transition.UpdateStatus{Status: lifecycle.StatusRequested, UpdatedBy: "admin-1"})
	if err == nil {
		t.Error("transition to the current status should fail")
	}
}

func TestOutboxRowsPerTransition(t *testing.T) {
	m, _, _, db := testManager(t)
	o := createTestOrder(t, m)

	m.Apply(o.ID, transition.VendorAccept{VendorID: 9})

	pending, _ := db.ListPendingOutbox(10)
	// order.created + order.status_changed
	if len(pending) != 2 {
		t.Fatalf("outbox rows = %d, want 2", len(pending))
	}
	if pending[1].MsgType != "order.status_changed" {
		t.Errorf("MsgType = %q, want order.status_changed", pending[1].MsgType)
	}
}
