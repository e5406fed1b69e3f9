package model

import "time"

// Booking records a completed ticket purchase. It is created exactly
// once per successful submission and is immutable thereafter. The seats
// live in the `booking_seats` table, one row per seat.
//
// Fields:
//  ID            – confirmation code (server-generated).
//  ShowtimeID    – showtime the tickets are for.
//  MovieTitle    – movie title snapshot at booking time.
//  Seats         – seat labels purchased in this booking.
//  TotalPrice    – total in VND; always seat count times the unit price.
//  CustomerName  – customer's full name.
//  CustomerEmail – contact email.
//  CustomerPhone – optional contact phone.
//  PaymentMethod – recorded payment method (card, banking, ewallet).
//  BookingTime   – timestamp stamped at submission.
//  CreatedAt     – timestamp when the row was created.
type Booking struct {
	ID            string    // bookings.id
	ShowtimeID    string    // bookings.showtime_id
	MovieTitle    string    // bookings.movie_title
	Seats         []string  // booking_seats.seat_label (one row each)
	TotalPrice    int64     // bookings.total_price
	CustomerName  string    // bookings.customer_name
	CustomerEmail string    // bookings.customer_email
	CustomerPhone string    // bookings.customer_phone
	PaymentMethod string    // bookings.payment_method
	BookingTime   time.Time // bookings.booking_time
	CreatedAt     time.Time // bookings.created_at
}
