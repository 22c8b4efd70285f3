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

// ManagerHandler groups the manager-only operations: room edits with audit
// logging, the hotel reports and repair requests.  The RequireRole
// middleware guarantees the MANAGER role; each hotel-scoped operation
// additionally verifies that the caller manages the targeted hotel and
// aborts with 403 before touching any data.
type ManagerHandler struct {
	Hotels   *repository.HotelRepo
	Rooms    *repository.RoomRepo
	Bookings *repository.BookingRepo
	Repairs  *repository.RepairRepo
}

func NewManagerHandler(hotels *repository.HotelRepo, rooms *repository.RoomRepo, bookings *repository.BookingRepo, repairs *repository.RepairRepo) *ManagerHandler {
	if hotels == nil || rooms == nil || bookings == nil || repairs == nil {
		panic("nil repository passed to NewManagerHandler")
	}
	return &ManagerHandler{Hotels: hotels, Rooms: rooms, Bookings: bookings, Repairs: repairs}
}

type updateRoomReq struct {
	Price    *float64 `json:"price"`
	ImageURL *string  `json:"image_url"`
}

type repairReq struct {
	CompanyID uint64 `json:"company_id"`
}

// authorize resolves the session's manager id and checks the manages-hotel
// relation.  When the returned error is non-nil the response has already
// been written and the handler must return it as-is.
func (h *ManagerHandler) authorize(c echo.Context, ctx context.Context, hotelID uint64) (uint64, error) {
	managerID, err := getUserID(c)
	if err != nil {
		return 0, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Hotels.AuthorizeManager(ctx, hotelID, managerID); err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return 0, c.JSON(http.StatusForbidden, echo.Map{"error": "you do not manage this hotel"})
		}
		return 0, c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return managerID, nil
}

// UpdateRoom handles PATCH /v1/hotels/:id/rooms/:room.  Price and image can
// be changed independently; every applied change appends a
// room_updates_log entry.
func (h *ManagerHandler) UpdateRoom(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	roomNumber, err := pathID(c, "room")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room number"})
	}
	var req updateRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Price == nil && req.ImageURL == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price or image_url required"})
	}
	if req.Price != nil && *req.Price <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	managerID, aerr := h.authorize(c, ctx, hotelID)
	if aerr != nil {
		return aerr
	}

	if req.Price != nil {
		if err := h.Rooms.UpdatePrice(ctx, hotelID, roomNumber, *req.Price, managerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	if req.ImageURL != nil {
		if err := h.Rooms.UpdateImage(ctx, hotelID, roomNumber, *req.ImageURL, managerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// RecentRoomUpdates handles GET /v1/hotels/:id/room-updates: the hotel's
// last five room edits, newest first, with current room data.
func (h *ManagerHandler) RecentRoomUpdates(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, aerr := h.authorize(c, ctx, hotelID); aerr != nil {
		return aerr
	}

	updates, err := h.Rooms.RecentUpdates(ctx, hotelID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"updates": updates,
		"count":   len(updates),
	})
}

// BookingHistory handles GET /v1/hotels/:id/bookings[?start=&end=].  Both
// bounds must be given together and form an inclusive calendar-date window.
func (h *ManagerHandler) BookingHistory(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	start, end := c.QueryParam("start"), c.QueryParam("end")
	if (start == "") != (end == "") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start and end must be given together"})
	}
	if start != "" {
		if start, err = parseDate(start); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "start must be YYYY-MM-DD"})
		}
		if end, err = parseDate(end); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "end must be YYYY-MM-DD"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, aerr := h.authorize(c, ctx, hotelID); aerr != nil {
		return aerr
	}

	rows, err := h.Bookings.HistoryForHotel(ctx, hotelID, start, end)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"bookings": rows,
		"count":    len(rows),
	})
}

// TopCustomers handles GET /v1/customers/top: the five customers with the
// most bookings across all hotels.
func (h *ManagerHandler) TopCustomers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	customers, err := h.Bookings.TopCustomers(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"customers": customers,
		"count":     len(customers),
	})
}

// PlaceRepairRequest handles POST /v1/hotels/:id/rooms/:room/repairs.  The
// repair row and the request row referencing it are written in one
// transaction; the repair id is taken from the insert itself.
func (h *ManagerHandler) PlaceRepairRequest(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	roomNumber, err := pathID(c, "room")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room number"})
	}
	var req repairReq
	if err := c.Bind(&req); err != nil || req.CompanyID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "company_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	managerID, aerr := h.authorize(c, ctx, hotelID)
	if aerr != nil {
		return aerr
	}

	repairID, err := h.Repairs.CreateRequest(ctx, managerID, hotelID, roomNumber, req.CompanyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "repair request failed"})
	}

	go func(ev queue.RepairRequestedEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishRepairRequested(ctx, ev)
	}(queue.RepairRequestedEvent{
		RepairID:    repairID,
		ManagerID:   managerID,
		CompanyID:   req.CompanyID,
		HotelID:     hotelID,
		RoomNumber:  roomNumber,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{"repair_id": repairID})
}

// RepairHistory handles GET /v1/repairs: every repair the calling manager
// has requested.
func (h *ManagerHandler) RepairHistory(c echo.Context) error {
	managerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	repairs, err := h.Repairs.HistoryForManager(ctx, managerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"repairs": repairs,
		"count":   len(repairs),
	})
}
