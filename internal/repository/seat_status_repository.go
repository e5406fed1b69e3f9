package repository

import (
	"context"
	"database/sql"

	"github.com/movix/movie-booking/internal/booking"
)

// SeatStatusRepo manages the `booked_seats` table: one row per taken
// seat per showtime. The table is keyed by (showtime_id, seat_label);
// bookings are scoped to the showtime as a whole, not to an individual
// time slot, so a session's occupancy snapshot is the flat union of
// every slot's bookings.
type SeatStatusRepo struct {
	db *sql.DB
}

// NewSeatStatusRepo constructs a SeatStatusRepo with the given DB handle.
func NewSeatStatusRepo(db *sql.DB) *SeatStatusRepo {
	return &SeatStatusRepo{db: db}
}

// BookedSeats returns every seat already taken for a showtime. This is
// the read-once snapshot a booking session is built on; it is fetched
// at session start and not refreshed during seat selection.
func (r *SeatStatusRepo) BookedSeats(ctx context.Context, showtimeID string) ([]booking.SeatID, error) {
	const q = `SELECT seat_label FROM booked_seats WHERE showtime_id = ?`
	rows, err := r.db.QueryContext(ctx, q, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []booking.SeatID
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		out = append(out, booking.SeatID(label))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkBookedTx inserts occupancy rows for a freshly created booking
// within the caller's transaction. The unique key on
// (showtime_id, seat_label) turns a lost race against another session
// into a duplicate-key error, which the booking repository surfaces as
// ErrSeatTaken and rolls the whole booking back.
func (r *SeatStatusRepo) MarkBookedTx(ctx context.Context, tx *sql.Tx, showtimeID, bookingID string, seats []booking.SeatID) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO booked_seats (showtime_id, seat_label, booking_id) VALUES `
	args := make([]interface{}, 0, len(seats)*3)
	for i, seat := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, showtimeID, string(seat), bookingID)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}
