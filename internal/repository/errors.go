// Package repository defines sentinel error values shared across the
// repositories so handlers can map failure modes to HTTP responses
// without inspecting driver errors: not-found sentinels become 404s,
// ErrSeatTaken becomes a conflict on the booking path.
package repository

import "errors"

// ErrMovieNotFound indicates the movie id does not exist in the catalog.
var ErrMovieNotFound = errors.New("movie not found")

// ErrShowtimeNotFound indicates the showtime id does not exist.
var ErrShowtimeNotFound = errors.New("showtime not found")

// ErrBookingNotFound indicates no booking exists for the given id.
var ErrBookingNotFound = errors.New("booking not found")

// ErrSeatTaken is returned when the booking transaction detects that a
// selected seat was booked by another session after this session took
// its occupancy snapshot. The whole booking is rolled back.
var ErrSeatTaken = errors.New("seat already taken")
