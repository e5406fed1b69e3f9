// Package booking implements the seat-selection and order-submission flow
// for a single customer session: a selection engine over a fixed seat grid,
// a two-step session aggregator, and the final submission that turns a
// pending order into a persisted booking.
package booking

import (
	"errors"
	"fmt"
	"sort"
)

// Auditorium layout shared by every showtime: ten rows labelled A through J
// with ten seats each, one hundred seats total.
const (
	FirstRow    = 'A'
	LastRow     = 'J'
	SeatsPerRow = 10
)

// SeatUnitPrice is the ticket price in VND. Every seat, VIP or standard,
// is charged the same amount under the current pricing rule.
const SeatUnitPrice int64 = 90000

// SeatID identifies a seat as its row letter followed by the seat number,
// e.g. "A1" or "J10". Values are normalized through ParseSeatID; a SeatID
// constructed any other way may not be valid.
type SeatID string

// ErrInvalidSeat is returned when a seat label does not name a seat in the
// 10x10 auditorium grid.
var ErrInvalidSeat = errors.New("invalid seat id")

// ParseSeatID validates a raw seat label and returns it as a SeatID. The
// label must be an upper-case row letter A-J followed by a number 1-10
// with no leading zeros.
func ParseSeatID(raw string) (SeatID, error) {
	if len(raw) < 2 || len(raw) > 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidSeat, raw)
	}
	row := raw[0]
	if row < FirstRow || row > LastRow {
		return "", fmt.Errorf("%w: %q", ErrInvalidSeat, raw)
	}
	num := 0
	for i := 1; i < len(raw); i++ {
		d := raw[i]
		if d < '0' || d > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidSeat, raw)
		}
		num = num*10 + int(d-'0')
	}
	if num < 1 || num > SeatsPerRow || raw[1] == '0' {
		return "", fmt.Errorf("%w: %q", ErrInvalidSeat, raw)
	}
	return SeatID(raw), nil
}

// MakeSeatID builds a SeatID from a row letter and a 1-based seat number.
// It panics on out-of-range input; callers iterate the fixed grid.
func MakeSeatID(row byte, number int) SeatID {
	if row < FirstRow || row > LastRow || number < 1 || number > SeatsPerRow {
		panic(fmt.Sprintf("seat out of grid: %c%d", row, number))
	}
	return SeatID(fmt.Sprintf("%c%d", row, number))
}

// Row returns the row letter of the seat.
func (s SeatID) Row() byte { return s[0] }

// SeatClass distinguishes VIP rows from standard ones. The class is used
// for display and labelling only; it does not affect pricing.
type SeatClass string

const (
	ClassStandard SeatClass = "STANDARD"
	ClassVIP      SeatClass = "VIP"
)

// Class derives the seat class from the row letter. Rows G, H and I are
// the VIP block in the middle-back of the auditorium.
func (s SeatID) Class() SeatClass {
	switch s.Row() {
	case 'G', 'H', 'I':
		return ClassVIP
	default:
		return ClassStandard
	}
}

// SeatStatus describes how a seat appears to the active session.
type SeatStatus string

const (
	// StatusAvailable marks a seat that can still be selected.
	StatusAvailable SeatStatus = "AVAILABLE"
	// StatusSelected marks a seat currently in the session's selection set.
	StatusSelected SeatStatus = "SELECTED"
	// StatusBooked marks a seat reserved by an earlier booking. Booked
	// status is supplied externally and never changes within a session.
	StatusBooked SeatStatus = "BOOKED"
)

// AllSeats returns every seat of the grid in row-major order.
func AllSeats() []SeatID {
	out := make([]SeatID, 0, int(LastRow-FirstRow+1)*SeatsPerRow)
	for row := byte(FirstRow); row <= LastRow; row++ {
		for n := 1; n <= SeatsPerRow; n++ {
			out = append(out, MakeSeatID(row, n))
		}
	}
	return out
}

// sortSeats orders seat ids lexicographically with numeric seat order
// within a row, so A2 sorts before A10.
func sortSeats(seats []SeatID) {
	sort.Slice(seats, func(i, j int) bool {
		a, b := seats[i], seats[j]
		if a.Row() != b.Row() {
			return a.Row() < b.Row()
		}
		return len(a) < len(b) || (len(a) == len(b) && a < b)
	})
}
