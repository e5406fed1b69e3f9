package booking

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// MovieSnapshot carries the movie fields a pending order needs for the
// confirmation and payment screens. It is copied into the order at commit
// time so the payment phase never re-fetches the catalog.
type MovieSnapshot struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	PosterURL string   `json:"posterUrl"`
	Genre     []string `json:"genre"`
	Duration  int      `json:"duration"`
	Rating    float64  `json:"rating"`
}

// ShowtimeSnapshot carries the showtime fields displayed alongside the
// order: the cinema name, the screening date and the time-of-day slots.
type ShowtimeSnapshot struct {
	ID     string   `json:"id"`
	Cinema string   `json:"cinema"`
	Date   string   `json:"date"`
	Times  []string `json:"times"`
}

// PendingOrder is the transient record handed from the seat-selection
// phase to the payment phase. It exists for at most one session, is
// stored in the session handoff store under the session key, and is
// destroyed once submission succeeds or the customer abandons the flow.
//
// TicketID names the single submission ticket currently allowed to pay
// for this order; see Flow.CommitPendingOrder.
type PendingOrder struct {
	SessionID   string           `json:"sessionId"`
	ShowtimeID  string           `json:"showtimeId"`
	Movie       MovieSnapshot    `json:"movie"`
	Showtime    ShowtimeSnapshot `json:"showtime"`
	Seats       []SeatID         `json:"selectedSeats"`
	TotalPrice  int64            `json:"totalPrice"`
	TicketID    string           `json:"ticketId"`
	CommittedAt time.Time        `json:"committedAt"`
}

// PaymentMethod is a tagged value carried through the flow unchanged.
// All methods follow the same simulated-success path; the chosen method
// is recorded on the booking but never branches control flow or pricing.
type PaymentMethod string

const (
	PaymentCard         PaymentMethod = "card"
	PaymentBankTransfer PaymentMethod = "banking"
	PaymentEWallet      PaymentMethod = "ewallet"
)

// ParsePaymentMethod validates a raw payment method value.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToLower(strings.TrimSpace(raw))) {
	case PaymentCard:
		return PaymentCard, nil
	case PaymentBankTransfer:
		return PaymentBankTransfer, nil
	case PaymentEWallet:
		return PaymentEWallet, nil
	default:
		return "", fmt.Errorf("unknown payment method %q", raw)
	}
}

// CustomerInfo is the contact block collected on the payment form.
type CustomerInfo struct {
	Name  string `json:"customerName"`
	Email string `json:"customerEmail"`
	Phone string `json:"customerPhone"`
}

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10,11}$`)
)

// FieldErrors reports per-field validation failures. The submission path
// returns all failing fields at once so the form can annotate each input,
// matching the original per-field form rules.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "invalid fields: " + strings.Join(fields, ", ")
}

// Validate checks the contact block before any network interaction is
// attempted. Name must be at least two characters, email must have a
// standard shape, phone is optional but must be 10-11 digits when given.
// A nil return means the info is acceptable.
func (ci CustomerInfo) Validate() FieldErrors {
	fe := FieldErrors{}
	if utf8.RuneCountInString(strings.TrimSpace(ci.Name)) < 2 {
		fe["customerName"] = "name must be at least 2 characters"
	}
	if !emailPattern.MatchString(ci.Email) {
		fe["customerEmail"] = "email is not valid"
	}
	if ci.Phone != "" && !phonePattern.MatchString(ci.Phone) {
		fe["customerPhone"] = "phone must be 10-11 digits"
	}
	if len(fe) == 0 {
		return nil
	}
	return fe
}
