// Package queue defines the message payloads exchanged over the broker
// and the background consumer for them.
package queue

// BookingCreatedEvent is published after a booking is durably persisted.
// It carries enough for downstream consumers (logging, notification,
// analytics) to act without querying the primary database.
type BookingCreatedEvent struct {
	BookingID     string   `json:"booking_id"`
	ShowtimeID    string   `json:"showtime_id"`
	MovieTitle    string   `json:"movie_title"`
	Seats         []string `json:"seats"`
	TotalPrice    int64    `json:"total_price"`
	PaymentMethod string   `json:"payment_method"`
	CustomerEmail string   `json:"customer_email"`
	BookedAt      string   `json:"booked_at"`
}
