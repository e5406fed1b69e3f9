package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movix/movie-booking/internal/booking"
)

func newTestManager(ttl time.Duration) (*Manager, *MemoryStore) {
	store := NewMemoryStore(0)
	return NewManager(store, ttl), store
}

func createTestFlow(m *Manager) *booking.Flow {
	movie := booking.MovieSnapshot{ID: "m-1", Title: "Dune: Part Two"}
	showtime := booking.ShowtimeSnapshot{ID: "st-1", Cinema: "CGV Landmark", Date: "2026-09-05", Times: []string{"19:30"}}
	tickets := booking.NewTicketIssuer("test-secret", time.Minute)
	return m.Create(movie, showtime, "19:30", nil, tickets)
}

func TestManagerCreateAndGet(t *testing.T) {
	m, _ := newTestManager(time.Hour)

	flow := createTestFlow(m)
	require.NotNil(t, flow)
	assert.NotEmpty(t, flow.SessionID())
	assert.Equal(t, 1, m.Len())

	got, ok := m.Get(flow.SessionID())
	require.True(t, ok)
	assert.Same(t, flow, got)
}

func TestManagerGetUnknown(t *testing.T) {
	m, _ := newTestManager(time.Hour)
	_, ok := m.Get("nope")
	assert.False(t, ok)
}

func TestManagerSessionIDsAreUnique(t *testing.T) {
	m, _ := newTestManager(time.Hour)
	a := createTestFlow(m)
	b := createTestFlow(m)
	assert.NotEqual(t, a.SessionID(), b.SessionID())
	assert.Equal(t, 2, m.Len())
}

func TestManagerDropClearsHandoffEntry(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(time.Hour)
	flow := createTestFlow(m)

	// Walk the flow to a committed order so the handoff store has an entry.
	_, _, err := flow.Toggle("C4")
	require.NoError(t, err)
	require.NoError(t, flow.Advance())
	_, _, err = flow.CommitPendingOrder(ctx)
	require.NoError(t, err)
	_, err = store.GetOrder(ctx, flow.SessionID())
	require.NoError(t, err)

	m.Drop(ctx, flow.SessionID())

	_, ok := m.Get(flow.SessionID())
	assert.False(t, ok)
	_, err = store.GetOrder(ctx, flow.SessionID())
	assert.ErrorIs(t, err, booking.ErrNoPendingOrder)
}

func TestManagerExpiresInactiveSessions(t *testing.T) {
	m, _ := newTestManager(time.Millisecond)
	flow := createTestFlow(m)

	time.Sleep(5 * time.Millisecond)
	_, ok := m.Get(flow.SessionID())
	assert.False(t, ok)
}

func TestManagerSweepEvicts(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(time.Millisecond)
	flow := createTestFlow(m)
	_, _, err := flow.Toggle("C4")
	require.NoError(t, err)
	require.NoError(t, flow.Advance())
	_, _, err = flow.CommitPendingOrder(ctx)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	m.sweep(ctx)

	assert.Zero(t, m.Len())
	_, err = store.GetOrder(ctx, flow.SessionID())
	assert.ErrorIs(t, err, booking.ErrNoPendingOrder)
}
