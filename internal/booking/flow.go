package booking

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Step is the position of the booking stepper on the page.
type Step string

const (
	StepSeatSelection Step = "SEAT_SELECTION"
	StepConfirmation  Step = "CONFIRMATION"
)

// OrderState is the coarse state of the whole order flow. Confirmed is
// terminal; Failed is not and loops back to Confirming for a retry.
type OrderState string

const (
	StateSelecting  OrderState = "SELECTING"
	StateConfirming OrderState = "CONFIRMING"
	StateSubmitting OrderState = "SUBMITTING"
	StateConfirmed  OrderState = "CONFIRMED"
	StateFailed     OrderState = "FAILED"
)

// Stepper and commit errors.
var (
	// ErrEmptySelection is returned by Advance when no seats are chosen.
	ErrEmptySelection = errors.New("no seats selected")
	// ErrWrongStep is returned when an operation is not valid for the
	// current stepper position.
	ErrWrongStep = errors.New("not allowed in current step")
	// ErrNoPendingOrder is returned by handoff stores when no committed
	// order exists for the session.
	ErrNoPendingOrder = errors.New("no pending order")
	// ErrSubmissionInFlight is returned when a second submission is
	// attempted while one is still running for the same session.
	ErrSubmissionInFlight = errors.New("submission already in flight")
	// ErrOrderCompleted is returned when the flow has already reached
	// its terminal Confirmed state.
	ErrOrderCompleted = errors.New("order already completed")
)

// HandoffStore carries the committed PendingOrder across the boundary
// between the booking step and the payment step. It is the explicit
// replacement for the ambient session storage of the original flow: the
// store is injected, keyed by session id, and survives a page reload but
// not the session itself.
type HandoffStore interface {
	PutOrder(ctx context.Context, sessionID string, order *PendingOrder) error
	// GetOrder returns ErrNoPendingOrder when nothing is committed.
	GetOrder(ctx context.Context, sessionID string) (*PendingOrder, error)
	DeleteOrder(ctx context.Context, sessionID string) error
}

// Flow aggregates one customer session: the seat selection engine, the
// two-step stepper and the handoff of the committed order to the payment
// phase. All mutating operations are serialized by an internal mutex so
// each executes to completion before the next is accepted.
type Flow struct {
	mu sync.Mutex

	sessionID string
	movie     MovieSnapshot
	showtime  ShowtimeSnapshot
	selection *Selection

	step  Step
	state OrderState

	store   HandoffStore
	tickets *TicketIssuer

	submitting bool // single-slot in-flight guard, owned by Submitter
}

// NewFlow starts a session for one showtime. The booked snapshot is
// fetched once by the caller at session start and never refreshed; a
// seat taken by another session mid-selection only surfaces at
// submission time.
func NewFlow(sessionID string, movie MovieSnapshot, showtime ShowtimeSnapshot, slot string, booked []SeatID, store HandoffStore, tickets *TicketIssuer) *Flow {
	f := &Flow{
		sessionID: sessionID,
		movie:     movie,
		showtime:  showtime,
		step:      StepSeatSelection,
		state:     StateSelecting,
		store:     store,
		tickets:   tickets,
	}
	f.selection = NewSelection(showtime.ID, slot, booked, nil)
	return f
}

// SessionID returns the session key the flow is registered under.
func (f *Flow) SessionID() string { return f.sessionID }

// Toggle flips one seat while the stepper sits on seat selection and
// returns the resulting snapshot. Selection errors leave state unchanged.
func (f *Flow) Toggle(seat SeatID) ([]SeatID, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepSeatSelection {
		return nil, 0, ErrWrongStep
	}
	if err := f.selection.Toggle(seat); err != nil {
		return nil, 0, err
	}
	return f.selection.Seats(), f.selection.TotalPrice(), nil
}

// ChangeShowtime rebinds the session to a different showtime identity.
// The selection reset is unconditional per the engine contract.
func (f *Flow) ChangeShowtime(showtime ShowtimeSnapshot, slot string, booked []SeatID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepSeatSelection {
		return ErrWrongStep
	}
	f.showtime = showtime
	f.selection.ResetForShowtime(showtime.ID, slot, booked)
	return nil
}

// Advance moves the stepper from seat selection to confirmation. It is
// guarded: with an empty selection the stepper does not move and no side
// effect occurs.
func (f *Flow) Advance() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateConfirmed {
		return ErrOrderCompleted
	}
	if f.step != StepSeatSelection {
		return ErrWrongStep
	}
	if f.selection.Count() == 0 {
		return ErrEmptySelection
	}
	f.step = StepConfirmation
	f.state = StateConfirming
	return nil
}

// Retreat moves the stepper back to seat selection unconditionally. The
// selection set lives in the engine and is preserved across the retreat.
func (f *Flow) Retreat() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateConfirmed {
		return
	}
	f.step = StepSeatSelection
	f.state = StateSelecting
}

// CommitPendingOrder serializes the current movie, showtime, seats and
// total into a PendingOrder, writes it to the handoff store and mints
// the submission ticket allowed to pay for it. Callable only from the
// confirmation step. The payment phase trusts the order's price and seat
// fields as authoritative and never recomputes them.
func (f *Flow) CommitPendingOrder(ctx context.Context) (*PendingOrder, SubmissionTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepConfirmation {
		return nil, SubmissionTicket{}, ErrWrongStep
	}
	ticket, err := f.tickets.Issue(f.sessionID)
	if err != nil {
		return nil, SubmissionTicket{}, err
	}
	order := &PendingOrder{
		SessionID:   f.sessionID,
		ShowtimeID:  f.showtime.ID,
		Movie:       f.movie,
		Showtime:    f.showtime,
		Seats:       f.selection.Seats(),
		TotalPrice:  f.selection.TotalPrice(),
		TicketID:    ticket.ID,
		CommittedAt: time.Now().UTC(),
	}
	if err := f.store.PutOrder(ctx, f.sessionID, order); err != nil {
		return nil, SubmissionTicket{}, err
	}
	return order, ticket, nil
}

// Snapshot is a read-only view of the flow for rendering.
type Snapshot struct {
	SessionID  string     `json:"sessionId"`
	Step       Step       `json:"step"`
	State      OrderState `json:"state"`
	ShowtimeID string     `json:"showtimeId"`
	Slot       string     `json:"slot,omitempty"`
	Seats      []SeatID   `json:"seats"`
	TotalPrice int64      `json:"totalPrice"`
}

// View returns the current state of the flow.
func (f *Flow) View() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{
		SessionID:  f.sessionID,
		Step:       f.step,
		State:      f.state,
		ShowtimeID: f.selection.ShowtimeID(),
		Slot:       f.selection.Slot(),
		Seats:      f.selection.Seats(),
		TotalPrice: f.selection.TotalPrice(),
	}
}

// SeatStatus reports the session view of a single seat.
func (f *Flow) SeatStatus(seat SeatID) SeatStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selection.Status(seat)
}

// beginSubmit claims the single in-flight submission slot. It fails when
// a submission is already running, when the order was never confirmed or
// when the flow already completed.
func (f *Flow) beginSubmit() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case StateConfirmed:
		return ErrOrderCompleted
	case StateSelecting:
		return ErrWrongStep
	}
	if f.submitting {
		return ErrSubmissionInFlight
	}
	f.submitting = true
	f.state = StateSubmitting
	return nil
}

// endSubmit releases the slot and records the outcome. Failure returns
// the flow to Confirming so the same step can be re-entered.
func (f *Flow) endSubmit(success bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if success {
		f.state = StateConfirmed
		return
	}
	f.state = StateConfirming
	f.step = StepConfirmation
}

// State returns the coarse order state.
func (f *Flow) State() OrderState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}
