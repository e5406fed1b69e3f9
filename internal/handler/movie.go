// Package handler exposes the HTTP surface of the booking service: the
// public browse endpoints over the movie catalog and the booking-flow
// endpoints that drive a seat-selection session through payment.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/movix/movie-booking/internal/booking"
	"github.com/movix/movie-booking/internal/model"
	"github.com/movix/movie-booking/internal/repository"
)

// MovieHandler serves the unauthenticated browse endpoints: movies,
// showtimes and per-showtime seat availability. Responses use the same
// field names the original catalog API exposed.
type MovieHandler struct {
	Movies    *repository.MovieRepo
	Showtimes *repository.ShowtimeRepo
	Seats     *repository.SeatStatusRepo
}

// NewMovieHandler constructs a MovieHandler. All repositories must be
// non-nil.
func NewMovieHandler(movies *repository.MovieRepo, showtimes *repository.ShowtimeRepo, seats *repository.SeatStatusRepo) *MovieHandler {
	if movies == nil || showtimes == nil || seats == nil {
		panic("nil repository passed to NewMovieHandler")
	}
	return &MovieHandler{Movies: movies, Showtimes: showtimes, Seats: seats}
}

// MovieResponse is a catalog entry as exposed over the API.
type MovieResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	PosterURL   string   `json:"posterUrl"`
	Genre       []string `json:"genre"`
	Duration    int      `json:"duration"`
	Rating      float64  `json:"rating"`
	Description string   `json:"description"`
	Director    string   `json:"director"`
	Cast        []string `json:"cast"`
	Status      string   `json:"status"`
}

func toMovieResponse(m *model.Movie) MovieResponse {
	return MovieResponse{
		ID:          m.ID,
		Title:       m.Title,
		PosterURL:   m.PosterURL,
		Genre:       m.Genre,
		Duration:    m.DurationMin,
		Rating:      m.Rating,
		Description: m.Description,
		Director:    m.Director,
		Cast:        m.Cast,
		Status:      m.Status,
	}
}

// ShowtimeResponse is a showtime as exposed over the API.
type ShowtimeResponse struct {
	ID      string   `json:"id"`
	MovieID string   `json:"movieId"`
	Cinema  string   `json:"cinema"`
	Date    string   `json:"date"`
	Times   []string `json:"times"`
}

func toShowtimeResponse(st *model.Showtime) ShowtimeResponse {
	return ShowtimeResponse{ID: st.ID, MovieID: st.MovieID, Cinema: st.Cinema, Date: st.Date, Times: st.Times}
}

// ListMovies handles GET /v1/movies. Optional query parameters: status
// filters by catalog status, q performs a substring search over title,
// genre, cast and director.
func (h *MovieHandler) ListMovies(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		movies []model.Movie
		err    error
	)
	switch {
	case c.QueryParam("q") != "":
		movies, err = h.Movies.Search(ctx, c.QueryParam("q"))
	case c.QueryParam("status") != "":
		movies, err = h.Movies.ListByStatus(ctx, c.QueryParam("status"))
	default:
		movies, err = h.Movies.ListAll(ctx)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]MovieResponse, 0, len(movies))
	for i := range movies {
		out = append(out, toMovieResponse(&movies[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetMovie handles GET /v1/movies/:id.
func (h *MovieHandler) GetMovie(c echo.Context) error {
	ctx := c.Request().Context()
	m, err := h.Movies.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toMovieResponse(m)})
}

// ListShowtimesByMovie handles GET /v1/movies/:id/showtimes.
func (h *MovieHandler) ListShowtimesByMovie(c echo.Context) error {
	ctx := c.Request().Context()
	if _, err := h.Movies.GetByID(ctx, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	showtimes, err := h.Showtimes.ListByMovie(ctx, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]ShowtimeResponse, 0, len(showtimes))
	for i := range showtimes {
		out = append(out, toShowtimeResponse(&showtimes[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetShowtime handles GET /v1/showtimes/:id.
func (h *MovieHandler) GetShowtime(c echo.Context) error {
	ctx := c.Request().Context()
	st, err := h.Showtimes.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toShowtimeResponse(st)})
}

// SeatView is one seat of the auditorium grid with its class and
// occupancy for a showtime.
type SeatView struct {
	Seat   string            `json:"seat"`
	Class  booking.SeatClass `json:"class"`
	Booked bool              `json:"booked"`
}

// GetShowtimeSeats handles GET /v1/showtimes/:id/seats. It renders the
// full 10x10 grid with the flattened booked-seat union for the
// showtime, which is the occupancy view a booking session snapshots.
func (h *MovieHandler) GetShowtimeSeats(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	if _, err := h.Showtimes.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	booked, err := h.Seats.BookedSeats(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	taken := make(map[booking.SeatID]struct{}, len(booked))
	for _, s := range booked {
		taken[s] = struct{}{}
	}
	grid := booking.AllSeats()
	out := make([]SeatView, 0, len(grid))
	for _, seat := range grid {
		_, isBooked := taken[seat]
		out = append(out, SeatView{Seat: string(seat), Class: seat.Class(), Booked: isBooked})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
