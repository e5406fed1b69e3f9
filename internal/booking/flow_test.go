package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapStore is a bare handoff store for flow tests.
type mapStore struct {
	mu sync.Mutex
	m  map[string]*PendingOrder
}

func newMapStore() *mapStore {
	return &mapStore{m: make(map[string]*PendingOrder)}
}

func (s *mapStore) PutOrder(_ context.Context, sessionID string, order *PendingOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sessionID] = order
	return nil
}

func (s *mapStore) GetOrder(_ context.Context, sessionID string) (*PendingOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.m[sessionID]
	if !ok {
		return nil, ErrNoPendingOrder
	}
	return o, nil
}

func (s *mapStore) DeleteOrder(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, sessionID)
	return nil
}

func testFlow(t *testing.T, store HandoffStore, booked []SeatID) *Flow {
	t.Helper()
	movie := MovieSnapshot{ID: "m-1", Title: "Dune: Part Two", Duration: 166}
	showtime := ShowtimeSnapshot{ID: "st-1", Cinema: "CGV Landmark", Date: "2026-09-05", Times: []string{"19:30", "21:45"}}
	tickets := NewTicketIssuer("test-secret", time.Minute)
	return NewFlow("sess-1", movie, showtime, "19:30", booked, store, tickets)
}

func TestAdvanceRequiresSelection(t *testing.T) {
	f := testFlow(t, newMapStore(), nil)

	assert.ErrorIs(t, f.Advance(), ErrEmptySelection)
	view := f.View()
	assert.Equal(t, StepSeatSelection, view.Step)
	assert.Equal(t, StateSelecting, view.State)
}

func TestAdvanceAndRetreat(t *testing.T) {
	f := testFlow(t, newMapStore(), nil)
	_, _, err := f.Toggle("C4")
	require.NoError(t, err)

	require.NoError(t, f.Advance())
	view := f.View()
	assert.Equal(t, StepConfirmation, view.Step)
	assert.Equal(t, StateConfirming, view.State)

	// Seat changes are closed on the confirmation step.
	_, _, err = f.Toggle("C5")
	assert.ErrorIs(t, err, ErrWrongStep)

	// Retreat preserves the selection; advancing again restores the step.
	f.Retreat()
	view = f.View()
	assert.Equal(t, StepSeatSelection, view.Step)
	assert.Equal(t, []SeatID{"C4"}, view.Seats)

	require.NoError(t, f.Advance())
	assert.Equal(t, StepConfirmation, f.View().Step)
}

func TestCommitRequiresConfirmationStep(t *testing.T) {
	f := testFlow(t, newMapStore(), nil)
	_, _, err := f.Toggle("C4")
	require.NoError(t, err)

	_, _, err = f.CommitPendingOrder(context.Background())
	assert.ErrorIs(t, err, ErrWrongStep)
}

func TestCommitStoresOrderAndMintsTicket(t *testing.T) {
	store := newMapStore()
	f := testFlow(t, store, nil)
	for _, seat := range []SeatID{"C4", "C5"} {
		_, _, err := f.Toggle(seat)
		require.NoError(t, err)
	}
	require.NoError(t, f.Advance())

	order, ticket, err := f.CommitPendingOrder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sess-1", order.SessionID)
	assert.Equal(t, "st-1", order.ShowtimeID)
	assert.Equal(t, "Dune: Part Two", order.Movie.Title)
	assert.Equal(t, []SeatID{"C4", "C5"}, order.Seats)
	assert.Equal(t, int64(180000), order.TotalPrice)
	assert.NotEmpty(t, ticket.Token)
	assert.Equal(t, ticket.ID, order.TicketID)

	stored, err := store.GetOrder(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, order, stored)
}

func TestRecommitReplacesTicket(t *testing.T) {
	store := newMapStore()
	f := testFlow(t, store, nil)
	_, _, err := f.Toggle("C4")
	require.NoError(t, err)
	require.NoError(t, f.Advance())

	first, t1, err := f.CommitPendingOrder(context.Background())
	require.NoError(t, err)
	second, t2, err := f.CommitPendingOrder(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, t1.ID, t2.ID)
	assert.NotEqual(t, first.TicketID, second.TicketID)

	// Only the latest ticket id is recorded on the stored order.
	stored, err := store.GetOrder(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, t2.ID, stored.TicketID)
}

func TestChangeShowtimeResetsSelection(t *testing.T) {
	f := testFlow(t, newMapStore(), nil)
	_, _, err := f.Toggle("C4")
	require.NoError(t, err)

	next := ShowtimeSnapshot{ID: "st-2", Cinema: "CGV Landmark", Date: "2026-09-06", Times: []string{"18:00"}}
	require.NoError(t, f.ChangeShowtime(next, "18:00", []SeatID{"C4"}))

	view := f.View()
	assert.Equal(t, "st-2", view.ShowtimeID)
	assert.Empty(t, view.Seats)
	assert.Equal(t, StatusBooked, f.SeatStatus("C4"))
}

func TestChangeShowtimeBlockedOnConfirmation(t *testing.T) {
	f := testFlow(t, newMapStore(), nil)
	_, _, err := f.Toggle("C4")
	require.NoError(t, err)
	require.NoError(t, f.Advance())

	err = f.ChangeShowtime(ShowtimeSnapshot{ID: "st-2"}, "", nil)
	assert.ErrorIs(t, err, ErrWrongStep)
}

func TestBeginSubmitGuards(t *testing.T) {
	f := testFlow(t, newMapStore(), nil)

	// Never confirmed: submission is out of order.
	assert.ErrorIs(t, f.beginSubmit(), ErrWrongStep)

	_, _, err := f.Toggle("C4")
	require.NoError(t, err)
	require.NoError(t, f.Advance())

	require.NoError(t, f.beginSubmit())
	assert.Equal(t, StateSubmitting, f.State())

	// Only one submission may run at a time.
	assert.ErrorIs(t, f.beginSubmit(), ErrSubmissionInFlight)

	// Failure returns to the confirmation step for a retry.
	f.endSubmit(false)
	assert.Equal(t, StateConfirming, f.State())
	assert.Equal(t, StepConfirmation, f.View().Step)

	require.NoError(t, f.beginSubmit())
	f.endSubmit(true)
	assert.Equal(t, StateConfirmed, f.State())

	// Confirmed is terminal.
	assert.ErrorIs(t, f.beginSubmit(), ErrOrderCompleted)
	assert.ErrorIs(t, f.Advance(), ErrOrderCompleted)
}
