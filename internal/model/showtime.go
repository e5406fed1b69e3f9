package model

import "time"

// Showtime represents a scheduled exhibition of a movie at a cinema on a
// given date, with one or more time-of-day slots. It corresponds to a
// row in the `showtimes` table; the slots live in a JSON column because
// the booking granularity is the showtime, not the individual slot.
//
// Fields:
//  ID        – primary key identifier.
//  MovieID   – movie being shown.
//  Cinema    – name of the cinema venue.
//  Date      – screening date (YYYY-MM-DD).
//  Times     – time-of-day slots, e.g. ["09:30", "14:00", "20:15"].
//  CreatedAt – timestamp when the row was created.
//  UpdatedAt – timestamp of last update.
type Showtime struct {
	ID        string    // showtimes.id
	MovieID   string    // showtimes.movie_id
	Cinema    string    // showtimes.cinema
	Date      string    // showtimes.date
	Times     []string  // showtimes.times (JSON array)
	CreatedAt time.Time // showtimes.created_at
	UpdatedAt time.Time // showtimes.updated_at
}
