package booking

import (
	"errors"
	"fmt"
)

// MaxSeatsPerOrder caps how many seats one order may contain.
const MaxSeatsPerOrder = 6

// Selection errors surfaced to the caller as inline, non-fatal notices.
// None of them leaves the engine in a changed state.
var (
	// ErrSeatBooked is returned when toggling a seat that is already
	// reserved for the showtime. The original UI ignores the click; the
	// engine reports it so callers can decide.
	ErrSeatBooked = errors.New("seat already booked")
	// ErrSelectionFull is returned when selecting a seat would exceed
	// MaxSeatsPerOrder.
	ErrSelectionFull = fmt.Errorf("at most %d seats per order", MaxSeatsPerOrder)
)

// ChangeFunc receives the selection snapshot after every successful
// mutation: the sorted selected seats and the derived total price.
type ChangeFunc func(seats []SeatID, totalPrice int64)

// Selection tracks the seats a customer has tentatively chosen for one
// showtime. The booked set is a read-once snapshot supplied at reset; it
// is never mutated by the engine. Selection is not safe for concurrent
// use; the owning session serializes access.
type Selection struct {
	showtimeID string
	slot       string
	booked     map[SeatID]struct{}
	selected   map[SeatID]struct{}
	onChange   ChangeFunc
}

// NewSelection builds a selection engine for a showtime identity and its
// booked-seat snapshot. Unknown labels in booked are ignored rather than
// rejected: a stale occupancy record must not break the whole session.
func NewSelection(showtimeID, slot string, booked []SeatID, onChange ChangeFunc) *Selection {
	s := &Selection{onChange: onChange}
	s.reset(showtimeID, slot, booked)
	return s
}

func (s *Selection) reset(showtimeID, slot string, booked []SeatID) {
	s.showtimeID = showtimeID
	s.slot = slot
	s.booked = make(map[SeatID]struct{}, len(booked))
	for _, id := range booked {
		if _, err := ParseSeatID(string(id)); err == nil {
			s.booked[id] = struct{}{}
		}
	}
	s.selected = make(map[SeatID]struct{})
}

// ResetForShowtime clears the selection when the showtime identity (id or
// chosen time slot) changes and installs the new booked snapshot. The
// reset is unconditional: a selection never survives a showtime change,
// even when seat labels overlap. Subscribers are notified with an empty
// snapshot. Calling it with the current identity is a no-op.
func (s *Selection) ResetForShowtime(showtimeID, slot string, booked []SeatID) {
	if showtimeID == s.showtimeID && slot == s.slot {
		return
	}
	s.reset(showtimeID, slot, booked)
	s.notify()
}

// Toggle flips the selection state of one seat.
//
// A booked seat is rejected with ErrSeatBooked. A selected seat is always
// deselected. An unselected seat is selected only while the set holds
// fewer than MaxSeatsPerOrder seats, otherwise ErrSelectionFull is
// returned and nothing changes. Every successful mutation recomputes the
// total price and notifies the subscriber.
func (s *Selection) Toggle(seat SeatID) error {
	if _, err := ParseSeatID(string(seat)); err != nil {
		return err
	}
	if _, taken := s.booked[seat]; taken {
		return ErrSeatBooked
	}
	if _, on := s.selected[seat]; on {
		delete(s.selected, seat)
	} else {
		if len(s.selected) >= MaxSeatsPerOrder {
			return ErrSelectionFull
		}
		s.selected[seat] = struct{}{}
	}
	s.notify()
	return nil
}

func (s *Selection) notify() {
	if s.onChange != nil {
		s.onChange(s.Seats(), s.TotalPrice())
	}
}

// Seats returns the selected seats in display order.
func (s *Selection) Seats() []SeatID {
	out := make([]SeatID, 0, len(s.selected))
	for id := range s.selected {
		out = append(out, id)
	}
	sortSeats(out)
	return out
}

// Count returns the number of selected seats.
func (s *Selection) Count() int { return len(s.selected) }

// TotalPrice derives the order total from the seat count. Price is never
// stored independently of the selection.
func (s *Selection) TotalPrice() int64 {
	return int64(len(s.selected)) * SeatUnitPrice
}

// ShowtimeID reports the showtime identity the selection is bound to.
func (s *Selection) ShowtimeID() string { return s.showtimeID }

// Slot reports the chosen time-of-day slot, if any.
func (s *Selection) Slot() string { return s.slot }

// Status reports how a seat should be rendered for this session.
func (s *Selection) Status(seat SeatID) SeatStatus {
	if _, taken := s.booked[seat]; taken {
		return StatusBooked
	}
	if _, on := s.selected[seat]; on {
		return StatusSelected
	}
	return StatusAvailable
}
