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

// BookingHandler owns the payment half of the flow: submitting a
// committed order and reading back persisted bookings.
type BookingHandler struct {
	Submitter *booking.Submitter
	Sessions  *session.Manager
	Bookings  *repository.BookingRepo
}

// NewBookingHandler constructs a BookingHandler. All dependencies must
// be non-nil.
func NewBookingHandler(submitter *booking.Submitter, sessions *session.Manager, bookings *repository.BookingRepo) *BookingHandler {
	if submitter == nil || sessions == nil || bookings == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Submitter: submitter, Sessions: sessions, Bookings: bookings}
}

// SubmitRequest is the payment form payload plus the submission ticket
// minted at commit.
type SubmitRequest struct {
	Ticket        string `json:"ticket"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
	PaymentMethod string `json:"paymentMethod"`
}

// Submit handles POST /v1/sessions/:id/submit. Validation failures come
// back per-field with nothing persisted; persistence failures are
// retryable and keep the pending order in place.
func (h *BookingHandler) Submit(c echo.Context) error {
	flow, ok := h.Sessions.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found or expired"})
	}
	var req SubmitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	customer := booking.CustomerInfo{
		Name:  req.CustomerName,
		Email: req.CustomerEmail,
		Phone: req.CustomerPhone,
	}
	conf, err := h.Submitter.Submit(c.Request().Context(), flow, req.Ticket, customer, req.PaymentMethod)
	if err != nil {
		var fe booking.FieldErrors
		switch {
		case errors.As(err, &fe):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fe})
		case errors.Is(err, booking.ErrTicketExpired):
			return c.JSON(http.StatusConflict, echo.Map{"error": "submission ticket expired; confirm the order again"})
		case errors.Is(err, booking.ErrTicketInvalid):
			return c.JSON(http.StatusConflict, echo.Map{"error": "submission ticket not valid for this order"})
		case errors.Is(err, booking.ErrSubmissionInFlight):
			return c.JSON(http.StatusConflict, echo.Map{"error": "a submission is already in progress"})
		case errors.Is(err, booking.ErrOrderCompleted):
			return c.JSON(http.StatusConflict, echo.Map{"error": "order already completed"})
		case errors.Is(err, booking.ErrWrongStep), errors.Is(err, booking.ErrNoPendingOrder):
			return c.JSON(http.StatusConflict, echo.Map{"error": "no committed order to submit"})
		case errors.Is(err, booking.ErrSubmissionFailed):
			// Generic retryable failure: the pending order is retained
			// and the flow sits on the confirmation step again.
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment could not be completed, please try again", "retryable": true})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "submission failed"})
	}
	return c.JSON(http.StatusCreated, conf)
}

// BookingResponse is a persisted booking as exposed over the API.
type BookingResponse struct {
	ID            string   `json:"id"`
	ShowtimeID    string   `json:"showtimeId"`
	MovieTitle    string   `json:"movieTitle"`
	Seats         []string `json:"selectedSeats"`
	TotalPrice    int64    `json:"totalPrice"`
	CustomerName  string   `json:"customerName"`
	PaymentMethod string   `json:"paymentMethod"`
	BookingTime   string   `json:"bookingTime"`
}

// GetBooking handles GET /v1/bookings/:id.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	b, err := h.Bookings.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": BookingResponse{
		ID:            b.ID,
		ShowtimeID:    b.ShowtimeID,
		MovieTitle:    b.MovieTitle,
		Seats:         b.Seats,
		TotalPrice:    b.TotalPrice,
		CustomerName:  b.CustomerName,
		PaymentMethod: b.PaymentMethod,
		BookingTime:   b.BookingTime.UTC().Format(time.RFC3339),
	}})
}
