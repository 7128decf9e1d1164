package console

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"orderdesk/store"
	"orderdesk/transition"
)

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(label string, order *store.Order) {
	n.mu.Lock()
	n.successes = append(n.successes, label)
	n.mu.Unlock()
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	n.errors = append(n.errors, msg)
	n.mu.Unlock()
}

func testExecutor(handler http.HandlerFunc) (*httptest.Server, *Executor, *Cache, *recordingNotifier) {
	srv := httptest.NewServer(handler)
	cache := NewCache()
	notifier := &recordingNotifier{}
	exec := NewExecutor(NewClient(srv.URL, 5*time.Second), cache, notifier)
	return srv, exec, cache, notifier
}

func TestSubmitSuccess(t *testing.T) {
	var calls int32
	srv, exec, cache, notifier := testExecutor(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/api/orders/5/vendor/accept" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req transition.VendorAccept
		json.NewDecoder(r.Body).Decode(&req)
		if req.VendorID != 9 {
			t.Errorf("VendorID = %d, want 9", req.VendorID)
		}
		json.NewEncoder(w).Encode(store.Order{ID: 5, Status: "VENDOR_ACCEPTED"})
	})
	defer srv.Close()

	// Seed the cache so we can observe the invalidation.
	cache.SetOrder(&store.Order{ID: 5, Status: "REQUESTED"})

	order, err := exec.Submit(5, transition.VendorAccept{VendorID: 9})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if order.Status != "VENDOR_ACCEPTED" {
		t.Errorf("Status = %q", order.Status)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("server calls = %d, want 1", calls)
	}
	if _, ok := cache.GetOrder(5); ok {
		t.Error("cache should be invalidated after success")
	}
	if len(notifier.successes) != 1 || notifier.successes[0] != "Order accepted" {
		t.Errorf("successes = %v", notifier.successes)
	}
	if len(notifier.errors) != 0 {
		t.Errorf("errors = %v, want none", notifier.errors)
	}
}

func TestSubmitValidationFailureNeverHitsNetwork(t *testing.T) {
	var calls int32
	srv, exec, cache, notifier := testExecutor(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})
	defer srv.Close()

	cache.SetOrder(&store.Order{ID: 5, Status: "PREPARING"})

	_, err := exec.Submit(5, transition.ForceCancel{AdminID: "", Reason: ""})
	if err == nil {
		t.Fatal("expected validation error")
	}
	want := "Provide both admin ID and reason to force cancel the order."
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("server calls = %d, want 0", calls)
	}
	if _, ok := cache.GetOrder(5); !ok {
		t.Error("cache should be untouched on validation failure")
	}
	if len(notifier.errors) != 1 {
		t.Errorf("errors = %v, want 1", notifier.errors)
	}
}

func TestSubmitServerErrorLeavesCache(t *testing.T) {
	srv, exec, cache, notifier := testExecutor(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid transition from DELIVERED to CANCELLED"})
	})
	defer srv.Close()

	cache.SetOrder(&store.Order{ID: 5, Status: "DELIVERED"})

	_, err := exec.Submit(5, transition.StandardCancel{UserID: 42, Reason: "too late", CancelledBy: "customer"})
	if err == nil {
		t.Fatal("expected server error")
	}
	// The backend's message comes through verbatim.
	if err.Error() != "invalid transition from DELIVERED to CANCELLED" {
		t.Errorf("error = %q", err.Error())
	}
	if _, ok := cache.GetOrder(5); !ok {
		t.Error("cache should be untouched on server failure")
	}
	if len(notifier.successes) != 0 {
		t.Errorf("successes = %v, want none", notifier.successes)
	}
}

func TestSubmitRejectsConcurrentSameOrder(t *testing.T) {
	release := make(chan struct{})
	srv, exec, _, _ := testExecutor(func(w http.ResponseWriter, r *http.Request) {
		<-release
		json.NewEncoder(w).Encode(store.Order{ID: 5, Status: "VENDOR_ACCEPTED"})
	})
	defer srv.Close()

	done := make(chan error, 1)
	go func() {
		_, err := exec.Submit(5, transition.VendorAccept{VendorID: 9})
		done <- err
	}()

	// Wait for the first submission to mark the order in flight.
	deadline := time.Now().Add(2 * time.Second)
	for !exec.Pending(5) {
		if time.Now().After(deadline) {
			t.Fatal("first submission never became pending")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if _, err := exec.Submit(5, transition.VendorAccept{VendorID: 9}); err == nil {
		t.Error("second submission for the same order should be rejected")
	}

	// A different order is not blocked by order 5's in-flight transition.
	if exec.Pending(6) {
		t.Error("order 6 should not be pending")
	}

	close(release)
	if err := <-done; err != nil {
		t.Errorf("first submission: %v", err)
	}
	if exec.Pending(5) {
		t.Error("order 5 should settle after completion")
	}
}

func TestOrderReadThrough(t *testing.T) {
	var calls int32
	srv, exec, cache, _ := testExecutor(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		json.NewEncoder(w).Encode(store.Order{ID: 5, Status: "PREPARING"})
	})
	defer srv.Close()

	o1, err := exec.Order(5)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	o2, err := exec.Order(5)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("server calls = %d, want 1 (second read cached)", calls)
	}
	if o1.Status != o2.Status {
		t.Error("cached read should match")
	}

	cache.Invalidate(5)
	if _, err := exec.Order(5); err != nil {
		t.Fatalf("read after invalidate: %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("server calls = %d, want 2 after invalidation", calls)
	}
}
