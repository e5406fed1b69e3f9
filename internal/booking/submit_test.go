package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCreator struct {
	calls int
	err   error
	last  *BookingRecord
}

func (fc *fakeCreator) CreateBooking(_ context.Context, rec *BookingRecord) (string, error) {
	fc.calls++
	fc.last = rec
	if fc.err != nil {
		return "", fc.err
	}
	return "MV1756700000000", nil
}

type fakePublisher struct {
	calls int
	err   error
	last  BookingRecord
}

func (fp *fakePublisher) PublishBookingCreated(_ context.Context, rec BookingRecord) error {
	fp.calls++
	fp.last = rec
	return fp.err
}

var validCustomer = CustomerInfo{Name: "Linh Tran", Email: "linh@example.com", Phone: "0912345678"}

// committedFlow builds a flow that sits on the confirmation step with a
// committed order and returns it with the minted ticket.
func committedFlow(t *testing.T, store HandoffStore) (*Flow, SubmissionTicket) {
	t.Helper()
	f := testFlow(t, store, nil)
	for _, seat := range []SeatID{"C4", "C5"} {
		_, _, err := f.Toggle(seat)
		require.NoError(t, err)
	}
	require.NoError(t, f.Advance())
	_, ticket, err := f.CommitPendingOrder(context.Background())
	require.NoError(t, err)
	return f, ticket
}

func newTestSubmitter(store HandoffStore, creator BookingCreator, events Publisher) *Submitter {
	tickets := NewTicketIssuer("test-secret", time.Minute)
	return NewSubmitter(store, tickets, creator, events, time.Second)
}

func TestSubmitSuccess(t *testing.T) {
	store := newMapStore()
	flow, ticket := committedFlow(t, store)
	creator := &fakeCreator{}
	events := &fakePublisher{}
	sub := newTestSubmitter(store, creator, events)

	conf, err := sub.Submit(context.Background(), flow, ticket.Token, validCustomer, "card")
	require.NoError(t, err)
	assert.Equal(t, "MV1756700000000", conf.BookingID)
	assert.Equal(t, "Dune: Part Two", conf.MovieTitle)
	assert.Equal(t, []SeatID{"C4", "C5"}, conf.Seats)
	assert.Equal(t, int64(180000), conf.TotalPrice)

	assert.Equal(t, StateConfirmed, flow.State())
	assert.Equal(t, 1, creator.calls)
	assert.Equal(t, PaymentCard, creator.last.PaymentMethod)
	assert.Equal(t, "linh@example.com", creator.last.CustomerEmail)
	assert.Equal(t, 1, events.calls)
	assert.Equal(t, "MV1756700000000", events.last.ID)

	// The handoff entry is cleared; the order cannot be submitted twice.
	_, err = store.GetOrder(context.Background(), flow.SessionID())
	assert.ErrorIs(t, err, ErrNoPendingOrder)
}

func TestSubmitValidationFailsFast(t *testing.T) {
	store := newMapStore()
	flow, ticket := committedFlow(t, store)
	creator := &fakeCreator{}
	sub := newTestSubmitter(store, creator, nil)

	bad := CustomerInfo{Name: "Linh Tran", Email: "not-an-email"}
	_, err := sub.Submit(context.Background(), flow, ticket.Token, bad, "card")

	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "customerEmail")
	// Nothing was attempted and the flow is untouched.
	assert.Zero(t, creator.calls)
	assert.Equal(t, StateConfirming, flow.State())

	_, err = store.GetOrder(context.Background(), flow.SessionID())
	assert.NoError(t, err)
}

func TestSubmitRejectsUnknownPaymentMethod(t *testing.T) {
	store := newMapStore()
	flow, ticket := committedFlow(t, store)
	creator := &fakeCreator{}
	sub := newTestSubmitter(store, creator, nil)

	_, err := sub.Submit(context.Background(), flow, ticket.Token, validCustomer, "cash")
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "paymentMethod")
	assert.Zero(t, creator.calls)
}

func TestSubmitFailureKeepsOrderForRetry(t *testing.T) {
	store := newMapStore()
	flow, ticket := committedFlow(t, store)
	creator := &fakeCreator{err: errors.New("connection reset")}
	sub := newTestSubmitter(store, creator, nil)

	_, err := sub.Submit(context.Background(), flow, ticket.Token, validCustomer, "banking")
	assert.ErrorIs(t, err, ErrSubmissionFailed)

	// The order survives and the flow is back on the confirmation step.
	assert.Equal(t, StateConfirming, flow.State())
	assert.Equal(t, StepConfirmation, flow.View().Step)
	_, err = store.GetOrder(context.Background(), flow.SessionID())
	assert.NoError(t, err)

	// A retry goes through a fresh commit, which mints a new ticket.
	_, fresh, err := flow.CommitPendingOrder(context.Background())
	require.NoError(t, err)
	creator.err = nil
	conf, err := sub.Submit(context.Background(), flow, fresh.Token, validCustomer, "banking")
	require.NoError(t, err)
	assert.NotEmpty(t, conf.BookingID)
	assert.Equal(t, StateConfirmed, flow.State())
}

func TestSubmitRejectsStaleTicketAfterRecommit(t *testing.T) {
	store := newMapStore()
	flow, first := committedFlow(t, store)
	_, _, err := flow.CommitPendingOrder(context.Background())
	require.NoError(t, err)

	creator := &fakeCreator{}
	sub := newTestSubmitter(store, creator, nil)
	_, err = sub.Submit(context.Background(), flow, first.Token, validCustomer, "card")
	assert.ErrorIs(t, err, ErrTicketInvalid)
	assert.Zero(t, creator.calls)

	// The stale attempt released the slot; the flow remains retryable.
	assert.Equal(t, StateConfirming, flow.State())
}

func TestSubmitRejectsTicketForOtherSession(t *testing.T) {
	store := newMapStore()
	flow, _ := committedFlow(t, store)

	issuer := NewTicketIssuer("test-secret", time.Minute)
	foreign, err := issuer.Issue("some-other-session")
	require.NoError(t, err)

	sub := newTestSubmitter(store, &fakeCreator{}, nil)
	_, err = sub.Submit(context.Background(), flow, foreign.Token, validCustomer, "card")
	assert.ErrorIs(t, err, ErrTicketInvalid)
}

func TestSubmitRejectsExpiredTicket(t *testing.T) {
	store := newMapStore()
	flow, _ := committedFlow(t, store)

	expired, err := NewTicketIssuer("test-secret", -time.Minute).Issue(flow.SessionID())
	require.NoError(t, err)

	sub := newTestSubmitter(store, &fakeCreator{}, nil)
	_, err = sub.Submit(context.Background(), flow, expired.Token, validCustomer, "card")
	assert.ErrorIs(t, err, ErrTicketExpired)
}

func TestSubmitRejectsSecondAttemptAfterSuccess(t *testing.T) {
	store := newMapStore()
	flow, ticket := committedFlow(t, store)
	creator := &fakeCreator{}
	sub := newTestSubmitter(store, creator, nil)

	_, err := sub.Submit(context.Background(), flow, ticket.Token, validCustomer, "card")
	require.NoError(t, err)

	_, err = sub.Submit(context.Background(), flow, ticket.Token, validCustomer, "card")
	assert.ErrorIs(t, err, ErrOrderCompleted)
	assert.Equal(t, 1, creator.calls)
}

func TestSubmitRejectsWhileInFlight(t *testing.T) {
	store := newMapStore()
	flow, ticket := committedFlow(t, store)
	require.NoError(t, flow.beginSubmit())

	sub := newTestSubmitter(store, &fakeCreator{}, nil)
	_, err := sub.Submit(context.Background(), flow, ticket.Token, validCustomer, "card")
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
}

func TestSubmitRequiresCommittedOrder(t *testing.T) {
	store := newMapStore()
	f := testFlow(t, store, nil)
	_, _, err := f.Toggle("C4")
	require.NoError(t, err)
	require.NoError(t, f.Advance())
	// Confirming but never committed: the handoff store is empty.
	issuer := NewTicketIssuer("test-secret", time.Minute)
	ticket, err := issuer.Issue(f.SessionID())
	require.NoError(t, err)

	sub := newTestSubmitter(store, &fakeCreator{}, nil)
	_, err = sub.Submit(context.Background(), f, ticket.Token, validCustomer, "card")
	assert.ErrorIs(t, err, ErrNoPendingOrder)
	assert.Equal(t, StateConfirming, f.State())
}

// slowCreator blocks until the submission context expires.
type slowCreator struct{}

func (slowCreator) CreateBooking(ctx context.Context, _ *BookingRecord) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestSubmitTimeoutIsRetryable(t *testing.T) {
	store := newMapStore()
	flow, ticket := committedFlow(t, store)
	tickets := NewTicketIssuer("test-secret", time.Minute)
	sub := NewSubmitter(store, tickets, slowCreator{}, nil, 10*time.Millisecond)

	_, err := sub.Submit(context.Background(), flow, ticket.Token, validCustomer, "card")
	assert.ErrorIs(t, err, ErrSubmissionFailed)

	// The timeout is a failure like any other: order retained, retryable.
	assert.Equal(t, StateConfirming, flow.State())
	_, err = store.GetOrder(context.Background(), flow.SessionID())
	assert.NoError(t, err)
}

func TestSubmitPublishFailureDoesNotFailBooking(t *testing.T) {
	store := newMapStore()
	flow, ticket := committedFlow(t, store)
	events := &fakePublisher{err: errors.New("broker down")}
	sub := newTestSubmitter(store, &fakeCreator{}, events)

	conf, err := sub.Submit(context.Background(), flow, ticket.Token, validCustomer, "ewallet")
	require.NoError(t, err)
	assert.NotEmpty(t, conf.BookingID)
	assert.Equal(t, 1, events.calls)
	assert.Equal(t, StateConfirmed, flow.State())
}
