package console

import (
	"sync"

	"orderdesk/store"
)

// Cache holds the console's last-known view of each order. Entries are
// replaced wholesale, never patched field by field.
type Cache struct {
	mu      sync.RWMutex
	orders  map[int64]*store.Order
	history map[int64][]store.OrderHistory
}

func NewCache() *Cache {
	return &Cache{
		orders:  make(map[int64]*store.Order),
		history: make(map[int64][]store.OrderHistory),
	}
}

func (c *Cache) GetOrder(orderID int64) (*store.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	o, ok := c.orders[orderID]
	return o, ok
}

func (c *Cache) SetOrder(order *store.Order) {
	c.mu.Lock()
	c.orders[order.ID] = order
	c.mu.Unlock()
}

func (c *Cache) GetHistory(orderID int64) ([]store.OrderHistory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.history[orderID]
	return h, ok
}

func (c *Cache) SetHistory(orderID int64, history []store.OrderHistory) {
	c.mu.Lock()
	c.history[orderID] = history
	c.mu.Unlock()
}

// Invalidate drops both the order and its history so the next read refetches.
func (c *Cache) Invalidate(orderID int64) {
	c.mu.Lock()
	delete(c.orders, orderID)
	delete(c.history, orderID)
	c.mu.Unlock()
}
