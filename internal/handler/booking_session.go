package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/movix/movie-booking/internal/booking"
	"github.com/movix/movie-booking/internal/repository"
	"github.com/movix/movie-booking/internal/session"
)

// SessionHandler drives the seat-selection half of the flow: it creates
// a booking session for a showtime, toggles seats and moves the
// two-step stepper. The session holds the one occupancy snapshot taken
// at creation; seat conflicts that happen after that only surface at
// submission.
type SessionHandler struct {
	Movies    *repository.MovieRepo
	Showtimes *repository.ShowtimeRepo
	Seats     *repository.SeatStatusRepo
	Sessions  *session.Manager
	Tickets   *booking.TicketIssuer
}

// NewSessionHandler constructs a SessionHandler. All dependencies must
// be non-nil.
func NewSessionHandler(movies *repository.MovieRepo, showtimes *repository.ShowtimeRepo, seats *repository.SeatStatusRepo, sessions *session.Manager, tickets *booking.TicketIssuer) *SessionHandler {
	if movies == nil || showtimes == nil || seats == nil || sessions == nil || tickets == nil {
		panic("nil dependency passed to NewSessionHandler")
	}
	return &SessionHandler{Movies: movies, Showtimes: showtimes, Seats: seats, Sessions: sessions, Tickets: tickets}
}

// CreateSession handles POST /v1/showtimes/:id/sessions. It looks up
// the showtime and its movie, snapshots the booked seats and registers
// a new flow. The optional slot in the body picks a time-of-day slot
// for display; it defaults to the showtime's first slot.
func (h *SessionHandler) CreateSession(c echo.Context) error {
	ctx := c.Request().Context()
	showtimeID := c.Param("id")

	st, err := h.Showtimes.GetByID(ctx, showtimeID)
	if err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load showtime"})
	}
	movie, err := h.Movies.GetByID(ctx, st.MovieID)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load movie"})
	}
	booked, err := h.Seats.BookedSeats(ctx, showtimeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seat status"})
	}

	var body struct {
		Slot string `json:"slot"`
	}
	// Body is optional; ignore bind errors for an empty body.
	_ = c.Bind(&body)
	slot := body.Slot
	if slot == "" && len(st.Times) > 0 {
		slot = st.Times[0]
	}

	movieSnap := booking.MovieSnapshot{
		ID:        movie.ID,
		Title:     movie.Title,
		PosterURL: movie.PosterURL,
		Genre:     movie.Genre,
		Duration:  movie.DurationMin,
		Rating:    movie.Rating,
	}
	showtimeSnap := booking.ShowtimeSnapshot{
		ID:     st.ID,
		Cinema: st.Cinema,
		Date:   st.Date,
		Times:  st.Times,
	}
	flow := h.Sessions.Create(movieSnap, showtimeSnap, slot, booked, h.Tickets)
	return c.JSON(http.StatusCreated, flow.View())
}

// getFlow resolves the session path parameter to a live flow.
func (h *SessionHandler) getFlow(c echo.Context) (*booking.Flow, error) {
	flow, ok := h.Sessions.Get(c.Param("id"))
	if !ok {
		return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "session not found or expired"})
	}
	return flow, nil
}

// GetSession handles GET /v1/sessions/:id.
func (h *SessionHandler) GetSession(c echo.Context) error {
	flow, err := h.getFlow(c)
	if flow == nil {
		return err
	}
	return c.JSON(http.StatusOK, flow.View())
}

// ToggleSeat handles POST /v1/sessions/:id/seats/:seat/toggle. Selection
// errors are inline notices: they report why nothing changed and leave
// the session state untouched.
func (h *SessionHandler) ToggleSeat(c echo.Context) error {
	flow, err := h.getFlow(c)
	if flow == nil {
		return err
	}
	seats, total, err := flow.Toggle(booking.SeatID(c.Param("seat")))
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrSeatBooked):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat already booked"})
		case errors.Is(err, booking.ErrSelectionFull):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, booking.ErrInvalidSeat):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
		case errors.Is(err, booking.ErrWrongStep):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat selection is closed on this step"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "toggle failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"seats": seats, "totalPrice": total})
}

// Advance handles POST /v1/sessions/:id/advance.
func (h *SessionHandler) Advance(c echo.Context) error {
	flow, err := h.getFlow(c)
	if flow == nil {
		return err
	}
	if err := flow.Advance(); err != nil {
		switch {
		case errors.Is(err, booking.ErrEmptySelection):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "select at least one seat"})
		case errors.Is(err, booking.ErrWrongStep), errors.Is(err, booking.ErrOrderCompleted):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "advance failed"})
	}
	return c.JSON(http.StatusOK, flow.View())
}

// Retreat handles POST /v1/sessions/:id/retreat. Always succeeds; the
// selection is preserved.
func (h *SessionHandler) Retreat(c echo.Context) error {
	flow, err := h.getFlow(c)
	if flow == nil {
		return err
	}
	flow.Retreat()
	return c.JSON(http.StatusOK, flow.View())
}

// CommitResponse carries the committed order and the submission ticket
// the payment step must present.
type CommitResponse struct {
	Order           *booking.PendingOrder `json:"order"`
	Ticket          string                `json:"ticket"`
	TicketExpiresAt time.Time             `json:"ticketExpiresAt"`
}

// Commit handles POST /v1/sessions/:id/commit. It snapshots the pending
// order into the handoff store and mints the single-use submission
// ticket.
func (h *SessionHandler) Commit(c echo.Context) error {
	flow, err := h.getFlow(c)
	if flow == nil {
		return err
	}
	order, ticket, err := flow.CommitPendingOrder(c.Request().Context())
	if err != nil {
		if errors.Is(err, booking.ErrWrongStep) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "commit requires the confirmation step"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit order"})
	}
	return c.JSON(http.StatusCreated, CommitResponse{Order: order, Ticket: ticket.Token, TicketExpiresAt: ticket.ExpiresAt})
}

// Abandon handles DELETE /v1/sessions/:id. Dropping the session needs
// no compensating transaction: nothing was persisted yet.
func (h *SessionHandler) Abandon(c echo.Context) error {
	h.Sessions.Drop(c.Request().Context(), c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}
