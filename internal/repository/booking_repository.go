package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/movix/movie-booking/internal/booking"
	"github.com/movix/movie-booking/internal/model"
)

// mysqlDuplicateEntry is the MySQL error number for a unique key
// violation (ER_DUP_ENTRY).
const mysqlDuplicateEntry = 1062

// BookingRepo persists completed bookings. It implements
// booking.BookingCreator: a create spans the booking row, one row per
// seat and the occupancy marks, all in a single transaction so no
// partial booking is ever observable.
type BookingRepo struct {
	db    *sql.DB
	seats *SeatStatusRepo
}

// NewBookingRepo constructs a BookingRepo. The seat status repo is used
// to mark occupancy inside the booking transaction.
func NewBookingRepo(db *sql.DB, seats *SeatStatusRepo) *BookingRepo {
	return &BookingRepo{db: db, seats: seats}
}

// newBookingID derives a confirmation code from the current time, the
// same MV-prefixed shape customers see on the success screen.
func newBookingID() string {
	return fmt.Sprintf("MV%d", time.Now().UTC().UnixMilli())
}

// CreateBooking writes the booking and returns its confirmation code.
// A duplicate occupancy row means another session booked one of the
// seats after this session's snapshot was taken; the transaction rolls
// back and ErrSeatTaken is returned.
func (r *BookingRepo) CreateBooking(ctx context.Context, rec *booking.BookingRecord) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin booking tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	id := newBookingID()
	const ins = `INSERT INTO bookings
        (id, showtime_id, movie_title, total_price, customer_name, customer_email, customer_phone, payment_method, booking_time)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, ins,
		id, rec.ShowtimeID, rec.MovieTitle, rec.TotalPrice,
		rec.CustomerName, rec.CustomerEmail, rec.CustomerPhone,
		string(rec.PaymentMethod), rec.BookingTime.UTC().Format("2006-01-02 15:04:05"),
	); err != nil {
		return "", fmt.Errorf("insert booking: %w", err)
	}

	if len(rec.Seats) > 0 {
		query := `INSERT INTO booking_seats (booking_id, seat_label) VALUES `
		args := make([]interface{}, 0, len(rec.Seats)*2)
		for i, seat := range rec.Seats {
			if i > 0 {
				query += ","
			}
			query += "(?, ?)"
			args = append(args, id, string(seat))
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return "", fmt.Errorf("insert booking seats: %w", err)
		}
	}

	if err := r.seats.MarkBookedTx(ctx, tx, rec.ShowtimeID, id, rec.Seats); err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return "", ErrSeatTaken
		}
		return "", fmt.Errorf("mark seats booked: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit booking tx: %w", err)
	}
	committed = true
	return id, nil
}

// GetByID loads a booking with its seats or returns ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	const q = `SELECT id, showtime_id, movie_title, total_price, customer_name, customer_email, customer_phone, payment_method, booking_time, created_at
               FROM bookings WHERE id = ?`
	var b model.Booking
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.ShowtimeID, &b.MovieTitle, &b.TotalPrice,
		&b.CustomerName, &b.CustomerEmail, &b.CustomerPhone,
		&b.PaymentMethod, &b.BookingTime, &b.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	const qs = `SELECT seat_label FROM booking_seats WHERE booking_id = ? ORDER BY seat_label`
	rows, err := r.db.QueryContext(ctx, qs, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		b.Seats = append(b.Seats, label)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &b, nil
}
