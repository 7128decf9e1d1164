package console

import (
	"fmt"
	"sync"

	"orderdesk/lifecycle"
	"orderdesk/store"
	"orderdesk/transition"
)

// Notifier receives the outcome of a submitted transition. The console's
// toast layer implements it; tests use a recording stub.
type Notifier interface {
	Success(label string, order *store.Order)
	Error(msg string)
}

// endpointFor maps each action kind to its API path under /api/orders/{id}.
var endpointFor = map[lifecycle.ActionKind]string{
	lifecycle.ActionUpdateStatus:    "/status",
	lifecycle.ActionManualOverride:  "/override",
	lifecycle.ActionForceCancel:     "/force-cancel",
	lifecycle.ActionStandardCancel:  "/cancel",
	lifecycle.ActionAssignDelivery:  "/assign",
	lifecycle.ActionConfirmPickup:   "/pickup",
	lifecycle.ActionStartDelivery:   "/start-delivery",
	lifecycle.ActionMarkDelivered:   "/delivered",
	lifecycle.ActionVendorStartPrep: "/vendor/start-prep",
	lifecycle.ActionVendorMarkReady: "/vendor/mark-ready",
	lifecycle.ActionVendorAccept:    "/vendor/accept",
	lifecycle.ActionVendorReject:    "/vendor/reject",
	lifecycle.ActionCompleteOrder:   "/complete",
	lifecycle.ActionConfirmReceipt:  "/confirm-receipt",
}

// Executor submits transition requests and keeps the console cache
// consistent. At most one transition may be in flight per order; a second
// submission for the same order is rejected until the first settles. The
// cache is invalidated exactly once per successful transition and left
// untouched on failure.
type Executor struct {
	client   *Client
	cache    *Cache
	notifier Notifier

	mu       sync.Mutex
	inflight map[int64]struct{}
}

func NewExecutor(client *Client, cache *Cache, notifier Notifier) *Executor {
	return &Executor{
		client:   client,
		cache:    cache,
		notifier: notifier,
		inflight: make(map[int64]struct{}),
	}
}

// Pending reports whether a transition is in flight for the order.
func (e *Executor) Pending(orderID int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, busy := e.inflight[orderID]
	return busy
}

func (e *Executor) begin(orderID int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.inflight[orderID]; busy {
		return false
	}
	e.inflight[orderID] = struct{}{}
	return true
}

func (e *Executor) finish(orderID int64) {
	e.mu.Lock()
	delete(e.inflight, orderID)
	e.mu.Unlock()
}

// Submit validates the request, posts it, and settles the cache. Local
// validation failures never reach the network.
func (e *Executor) Submit(orderID int64, req transition.Request) (*store.Order, error) {
	if err := req.Validate(); err != nil {
		e.notifier.Error(err.Error())
		return nil, err
	}

	path, ok := endpointFor[req.Kind()]
	if !ok {
		err := fmt.Errorf("no endpoint for action %q", req.Kind())
		e.notifier.Error(err.Error())
		return nil, err
	}

	if !e.begin(orderID) {
		err := fmt.Errorf("a transition is already in progress for order %d", orderID)
		e.notifier.Error(err.Error())
		return nil, err
	}
	defer e.finish(orderID)

	order, err := e.client.SubmitTransition(orderID, path, req)
	if err != nil {
		e.notifier.Error(err.Error())
		return nil, err
	}

	e.cache.Invalidate(orderID)
	e.notifier.Success(req.Label(), order)
	return order, nil
}

// Order returns the order, reading through the cache.
func (e *Executor) Order(orderID int64) (*store.Order, error) {
	if o, ok := e.cache.GetOrder(orderID); ok {
		return o, nil
	}
	order, err := e.client.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	e.cache.SetOrder(order)
	return order, nil
}

// History returns the order history, reading through the cache.
func (e *Executor) History(orderID int64) ([]store.OrderHistory, error) {
	if h, ok := e.cache.GetHistory(orderID); ok {
		return h, nil
	}
	history, err := e.client.GetOrderHistory(orderID)
	if err != nil {
		return nil, err
	}
	e.cache.SetHistory(orderID, history)
	return history, nil
}
