package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
)

// RegisterCustomer registers the booking endpoints under /v1.  All routes
// require a valid JWT; managers may also book rooms, so both roles are
// accepted here.
func RegisterCustomer(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "MANAGER"),
	)
	// Note: GET /v1/hotels is registered on the public router so guests can
	// browse hotels near them before creating an account.
	g.GET("/hotels/:id/rooms", b.ListAvailableRooms)
	g.POST("/bookings", b.Book)
	g.GET("/my-bookings", b.MyBookings)
}
