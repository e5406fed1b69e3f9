package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// BookingRecord is the draft persisted on successful submission. The id
// is assigned by the persistence collaborator; everything else merges
// the pending order with the customer's contact block and payment
// method. Records are immutable once created.
type BookingRecord struct {
	ID            string        `json:"id"`
	ShowtimeID    string        `json:"showtimeId"`
	MovieTitle    string        `json:"movieTitle"`
	Seats         []SeatID      `json:"selectedSeats"`
	TotalPrice    int64         `json:"totalPrice"`
	CustomerName  string        `json:"customerName"`
	CustomerEmail string        `json:"customerEmail"`
	CustomerPhone string        `json:"customerPhone"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	BookingTime   time.Time     `json:"bookingTime"`
}

// BookingCreator is the persistence collaborator. Create assigns and
// returns the booking id; any transport or server error is treated as a
// retryable submission failure by the submitter.
type BookingCreator interface {
	CreateBooking(ctx context.Context, rec *BookingRecord) (string, error)
}

// Publisher announces a created booking to downstream consumers. Publish
// failures are logged and ignored; eventing is fire-and-forget and the
// booking is already durable when it runs.
type Publisher interface {
	PublishBookingCreated(ctx context.Context, rec BookingRecord) error
}

// ErrSubmissionFailed wraps persistence failures. The pending order is
// retained so the flow can be re-entered from the confirmation step.
var ErrSubmissionFailed = errors.New("booking submission failed")

// Confirmation is the terminal record echoed back after a successful
// submission for display. There is no retry and no edit-in-place past
// this point.
type Confirmation struct {
	BookingID  string   `json:"bookingId"`
	MovieTitle string   `json:"movieTitle"`
	Seats      []SeatID `json:"seats"`
	TotalPrice int64    `json:"totalPrice"`
}

// Submitter turns a committed pending order into a persisted booking.
// It owns the fail-fast validation, the single-use ticket check, the
// in-flight guard and the bounded submission timeout.
type Submitter struct {
	store    HandoffStore
	tickets  *TicketIssuer
	bookings BookingCreator
	events   Publisher // optional
	timeout  time.Duration
	log      *logrus.Entry
}

// NewSubmitter wires a submitter. events may be nil when no broker is
// configured. timeout bounds the persistence call; zero means 10s.
func NewSubmitter(store HandoffStore, tickets *TicketIssuer, bookings BookingCreator, events Publisher, timeout time.Duration) *Submitter {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Submitter{
		store:    store,
		tickets:  tickets,
		bookings: bookings,
		events:   events,
		timeout:  timeout,
		log:      logrus.WithField("component", "submitter"),
	}
}

// Submit performs one payment attempt for the flow's committed order.
//
// Validation failures are reported per-field before any network
// interaction and leave the flow untouched. The presented ticket must
// verify and match the ticket id recorded on the stored order; a ticket
// is good for exactly one attempt. On success the handoff entry is
// cleared, the flow reaches its terminal Confirmed state and a
// confirmation is returned. On failure the order stays in the store and
// the flow returns to Confirming for a retry through a fresh commit.
func (s *Submitter) Submit(ctx context.Context, flow *Flow, ticketToken string, customer CustomerInfo, methodRaw string) (*Confirmation, error) {
	if fe := customer.Validate(); fe != nil {
		return nil, fe
	}
	method, err := ParsePaymentMethod(methodRaw)
	if err != nil {
		return nil, FieldErrors{"paymentMethod": err.Error()}
	}
	sessionID, ticketID, err := s.tickets.Verify(ticketToken)
	if err != nil {
		return nil, err
	}
	if sessionID != flow.SessionID() {
		return nil, ErrTicketInvalid
	}

	if err := flow.beginSubmit(); err != nil {
		return nil, err
	}

	order, err := s.store.GetOrder(ctx, flow.SessionID())
	if err != nil {
		flow.endSubmit(false)
		return nil, err
	}
	if order.TicketID != ticketID {
		// Stale or already-spent ticket: the slot was re-minted by a
		// later commit or consumed by an earlier attempt.
		flow.endSubmit(false)
		return nil, ErrTicketInvalid
	}

	rec := &BookingRecord{
		ShowtimeID:    order.ShowtimeID,
		MovieTitle:    order.Movie.Title,
		Seats:         order.Seats,
		TotalPrice:    order.TotalPrice,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
		PaymentMethod: method,
		BookingTime:   time.Now().UTC(),
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	id, err := s.bookings.CreateBooking(callCtx, rec)
	if err != nil {
		flow.endSubmit(false)
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	rec.ID = id

	// The booking is durable; clearing the handoff entry makes the order
	// non-resubmittable. A delete failure is logged, not surfaced: the
	// spent ticket id already blocks a duplicate.
	if err := s.store.DeleteOrder(ctx, flow.SessionID()); err != nil {
		s.log.WithError(err).Warn("failed to clear pending order after submit")
	}
	flow.endSubmit(true)

	if s.events != nil {
		if err := s.events.PublishBookingCreated(ctx, *rec); err != nil {
			s.log.WithError(err).Warn("booking.created publish failed")
		}
	}

	return &Confirmation{
		BookingID:  id,
		MovieTitle: rec.MovieTitle,
		Seats:      rec.Seats,
		TotalPrice: rec.TotalPrice,
	}, nil
}
