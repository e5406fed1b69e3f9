// Package session owns the per-customer booking session: the handoff
// store that carries a committed PendingOrder from the booking step to
// the payment step, and the registry of live flows.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/movix/movie-booking/internal/booking"
)

// MemoryStore is a process-local handoff store. It backs tests and
// single-instance deployments without Redis. Entries are stored as JSON
// so reads observe the same serialization round-trip as the Redis store.
type MemoryStore struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]memoryEntry
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// NewMemoryStore builds an in-memory store. ttl zero means entries never
// expire.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, m: make(map[string]memoryEntry)}
}

// PutOrder stores the committed order under the session key, replacing
// any previous entry.
func (s *MemoryStore) PutOrder(_ context.Context, sessionID string, order *booking.PendingOrder) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return err
	}
	var exp time.Time
	if s.ttl > 0 {
		exp = time.Now().Add(s.ttl)
	}
	s.mu.Lock()
	s.m[sessionID] = memoryEntry{payload: payload, expiresAt: exp}
	s.mu.Unlock()
	return nil
}

// GetOrder returns the committed order or booking.ErrNoPendingOrder.
func (s *MemoryStore) GetOrder(_ context.Context, sessionID string) (*booking.PendingOrder, error) {
	s.mu.RLock()
	e, ok := s.m[sessionID]
	s.mu.RUnlock()
	if !ok || (!e.expiresAt.IsZero() && time.Now().After(e.expiresAt)) {
		return nil, booking.ErrNoPendingOrder
	}
	var order booking.PendingOrder
	if err := json.Unmarshal(e.payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// DeleteOrder removes the entry. Deleting a missing entry is not an error.
func (s *MemoryStore) DeleteOrder(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.m, sessionID)
	s.mu.Unlock()
	return nil
}
