package projection

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"orderdesk/store"
)

// Store caches order projections in Redis. The read path serves from here;
// every applied transition invalidates the entry so the next read refetches
// from the database.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func orderKey(orderID int64) string {
	return fmt.Sprintf("orderdesk:order:%d", orderID)
}

func historyKey(orderID int64) string {
	return fmt.Sprintf("orderdesk:order:%d:history", orderID)
}

func (s *Store) GetOrder(ctx context.Context, orderID int64) (*store.Order, error) {
	data, err := s.client.Get(ctx, orderKey(orderID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var o store.Order
	return &o, json.Unmarshal(data, &o)
}

func (s *Store) SetOrder(ctx context.Context, o *store.Order) error {
	data, err := json.Marshal(o)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, orderKey(o.ID), data, s.ttl).Err()
}

func (s *Store) GetHistory(ctx context.Context, orderID int64) ([]*store.OrderHistory, error) {
	data, err := s.client.Get(ctx, historyKey(orderID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var h []*store.OrderHistory
	return h, json.Unmarshal(data, &h)
}

func (s *Store) SetHistory(ctx context.Context, orderID int64, h []*store.OrderHistory) error {
	data, err := json.Marshal(h)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, historyKey(orderID), data, s.ttl).Err()
}

// Invalidate drops both the order and its history projection.
func (s *Store) Invalidate(ctx context.Context, orderID int64) error {
	return s.client.Del(ctx, orderKey(orderID), historyKey(orderID)).Err()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
