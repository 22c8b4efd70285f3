package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
)

// RegisterManager registers MANAGER-scoped endpoints under /v1.
// All routes require a valid JWT and the MANAGER role; the hotel-scoped
// handlers additionally verify that the caller manages the targeted hotel.
func RegisterManager(e *echo.Echo, m *handler.ManagerHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("MANAGER"),
	)

	// ---- Rooms ----
	g.PATCH("/hotels/:id/rooms/:room", m.UpdateRoom)
	g.GET("/hotels/:id/room-updates", m.RecentRoomUpdates)

	// ---- Reports ----
	g.GET("/hotels/:id/bookings", m.BookingHistory)
	g.GET("/customers/top", m.TopCustomers)

	// ---- Repairs ----
	g.POST("/hotels/:id/rooms/:room/repairs", m.PlaceRepairRequest)
	g.GET("/repairs", m.RepairHistory)
}
