package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/movix/movie-booking/internal/booking"
)

// Manager is the registry of live booking flows. Each flow is keyed by a
// generated session id and expires after a period of inactivity, the
// in-process equivalent of the hold-expiry sweep a database-backed
// reservation system runs. Abandoning a session needs no compensating
// action: nothing was persisted yet, the flow and its handoff entry are
// simply dropped.
type Manager struct {
	mu    sync.Mutex
	flows map[string]*liveFlow
	ttl   time.Duration
	store booking.HandoffStore
	log   *logrus.Entry
}

type liveFlow struct {
	flow     *booking.Flow
	lastSeen time.Time
}

// NewManager builds a manager. ttl bounds session inactivity; zero means
// one hour.
func NewManager(store booking.HandoffStore, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Manager{
		flows: make(map[string]*liveFlow),
		ttl:   ttl,
		store: store,
		log:   logrus.WithField("component", "session-manager"),
	}
}

// Create registers a new flow for a showtime and returns it. The booked
// snapshot is the read-once occupancy view for the whole session.
func (m *Manager) Create(movie booking.MovieSnapshot, showtime booking.ShowtimeSnapshot, slot string, booked []booking.SeatID, tickets *booking.TicketIssuer) *booking.Flow {
	id := uuid.NewString()
	flow := booking.NewFlow(id, movie, showtime, slot, booked, m.store, tickets)
	m.mu.Lock()
	m.flows[id] = &liveFlow{flow: flow, lastSeen: time.Now()}
	m.mu.Unlock()
	return flow
}

// Get returns the live flow for a session id and refreshes its activity
// timestamp. The second return is false for unknown or expired sessions.
func (m *Manager) Get(sessionID string) (*booking.Flow, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lf, ok := m.flows[sessionID]
	if !ok {
		return nil, false
	}
	if time.Since(lf.lastSeen) > m.ttl {
		delete(m.flows, sessionID)
		return nil, false
	}
	lf.lastSeen = time.Now()
	return lf.flow, true
}

// Drop removes a session and its handoff entry. Used when the customer
// abandons the flow explicitly and by the sweeper.
func (m *Manager) Drop(ctx context.Context, sessionID string) {
	m.mu.Lock()
	delete(m.flows, sessionID)
	m.mu.Unlock()
	if err := m.store.DeleteOrder(ctx, sessionID); err != nil {
		m.log.WithError(err).WithField("session_id", sessionID).Warn("failed to drop handoff entry")
	}
}

// Len reports the number of registered sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.flows)
}

// StartSweeper runs a background loop that evicts inactive sessions
// until the context is cancelled.
func (m *Manager) StartSweeper(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	go func() {
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				m.sweep(ctx)
			}
		}
	}()
}

func (m *Manager) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-m.ttl)
	var expired []string
	m.mu.Lock()
	for id, lf := range m.flows {
		if lf.lastSeen.Before(cutoff) {
			delete(m.flows, id)
			expired = append(expired, id)
		}
	}
	m.mu.Unlock()
	for _, id := range expired {
		if err := m.store.DeleteOrder(ctx, id); err != nil {
			m.log.WithError(err).WithField("session_id", id).Warn("failed to clear expired handoff entry")
		}
	}
	if len(expired) > 0 {
		m.log.WithField("count", len(expired)).Info("expired inactive sessions")
	}
}
