// Package router registers the HTTP routes of the booking service.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/movix/movie-booking/internal/handler"
)

// RegisterRoutes registers routes that need no dependencies. Currently
// that is only the health check used by load balancers and probes.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterBrowse registers the public catalog endpoints. The passed
// middleware (response cache, rate limiter) applies to this group only;
// the booking flow must never serve cached state.
func RegisterBrowse(e *echo.Echo, m *handler.MovieHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	g.GET("/movies", m.ListMovies)
	g.GET("/movies/:id", m.GetMovie)
	g.GET("/movies/:id/showtimes", m.ListShowtimesByMovie)
	g.GET("/showtimes/:id", m.GetShowtime)
	// Full seat grid with the flattened booked-seat union per showtime.
	g.GET("/showtimes/:id/seats", m.GetShowtimeSeats)
}

// RegisterBooking registers the booking-flow endpoints: session
// lifecycle, seat toggling, the two-step stepper, order commit and
// submission.
func RegisterBooking(e *echo.Echo, s *handler.SessionHandler, b *handler.BookingHandler) {
	e.POST("/v1/showtimes/:id/sessions", s.CreateSession)

	g := e.Group("/v1/sessions/:id")
	g.GET("", s.GetSession)
	g.POST("/seats/:seat/toggle", s.ToggleSeat)
	g.POST("/advance", s.Advance)
	g.POST("/retreat", s.Retreat)
	g.POST("/commit", s.Commit)
	g.POST("/submit", b.Submit)
	g.DELETE("", s.Abandon)

	e.GET("/v1/bookings/:id", b.GetBooking)
}
