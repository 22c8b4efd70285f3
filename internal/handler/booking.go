package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	queue_publisher "github.com/iliyamo/hotel-reservation/internal/service"
)

// BookingHandler serves room availability, booking and the caller's booking
// history.  JWT authentication has already run; the customer identity comes
// from the session, never from request input.
type BookingHandler struct {
	Rooms    *repository.RoomRepo
	Bookings *repository.BookingRepo
}

func NewBookingHandler(rooms *repository.RoomRepo, bookings *repository.BookingRepo) *BookingHandler {
	if rooms == nil || bookings == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{Rooms: rooms, Bookings: bookings}
}

type bookReq struct {
	HotelID    uint64 `json:"hotel_id"`
	RoomNumber uint64 `json:"room_number"`
	Date       string `json:"date"`
}

// parseDate validates a YYYY-MM-DD calendar date and returns it normalized.
func parseDate(raw string) (string, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return "", err
	}
	return t.Format("2006-01-02"), nil
}

// ListAvailableRooms handles GET /v1/hotels/:id/rooms?date=YYYY-MM-DD.  A
// room is available on the date iff no booking exists for its slot.
func (h *BookingHandler) ListAvailableRooms(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rooms, err := h.Rooms.ListAvailable(ctx, hotelID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"rooms": rooms,
		"count": len(rooms),
	})
}

// Book handles POST /v1/bookings.  The availability re-check and the insert
// run in one transaction inside the repository; a taken slot answers 409
// with no mutation.  On success the response carries the room's current
// price and a booking.created event is published.
func (h *BookingHandler) Book(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.HotelID == 0 || req.RoomNumber == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hotel_id/room_number required"})
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.Book(ctx, userID, req.HotelID, req.RoomNumber, date)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "room is not available on this date"})
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
		}
	}

	// Best effort: a failed publish never fails the booking.
	go func(ev queue.BookingCreatedEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishBookingCreated(ctx, ev)
	}(queue.BookingCreatedEvent{
		BookingID:   b.ID,
		CustomerID:  b.CustomerID,
		HotelID:     b.HotelID,
		RoomNumber:  b.RoomNumber,
		BookingDate: b.BookingDate,
		Price:       b.Price,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, b)
}

// MyBookings handles GET /v1/my-bookings: the caller's last five bookings,
// ordered by room number descending.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bookings, err := h.Bookings.RecentByCustomer(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"bookings": bookings,
		"count":    len(bookings),
	})
}
