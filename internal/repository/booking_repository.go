package repository

import (
	"context"
	"database/sql"
)

// BookingRepo creates bookings and serves the booking reports.  A slot is a
// (hotel, room, date) triple; at most one booking may exist per slot.
type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

// Booking is the result of a successful Book call.
type Booking struct {
	ID          uint64  `json:"id"`
	CustomerID  uint64  `json:"customer_id"`
	HotelID     uint64  `json:"hotel_id"`
	RoomNumber  uint64  `json:"room_number"`
	BookingDate string  `json:"booking_date"`
	Price       float64 `json:"price"`
}

// RecentBooking is one row of a customer's booking history.
type RecentBooking struct {
	HotelID     uint64  `json:"hotel_id"`
	RoomNumber  uint64  `json:"room_number"`
	Price       float64 `json:"price"`
	BookingDate string  `json:"booking_date"`
}

// HistoryRow is one row of a hotel's booking history as seen by its manager.
type HistoryRow struct {
	BookingID    uint64 `json:"booking_id"`
	CustomerName string `json:"customer_name"`
	HotelID      uint64 `json:"hotel_id"`
	RoomNumber   uint64 `json:"room_number"`
	BookingDate  string `json:"booking_date"`
}

// TopCustomer is one row of the top-customers report.
type TopCustomer struct {
	CustomerID uint64 `json:"customer_id"`
	Name       string `json:"name"`
	Bookings   uint64 `json:"bookings"`
}

// Book creates a booking for a slot and returns it together with the room's
// current price.  The availability check, the insert and the price lookup
// run in a single transaction so a concurrent booking for the same slot
// cannot interleave between check and insert.  Returns ErrConflict when the
// slot already has a booking (no mutation) and sql.ErrNoRows when the room
// does not exist.  date must be YYYY-MM-DD.
func (r *BookingRepo) Book(ctx context.Context, customerID, hotelID, roomNumber uint64, date string) (Booking, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Booking{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var price float64
	err = tx.QueryRowContext(ctx,
		"SELECT price FROM rooms WHERE hotel_id=? AND room_number=?",
		hotelID, roomNumber).Scan(&price)
	if err != nil {
		return Booking{}, err
	}

	var taken int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM room_bookings WHERE hotel_id=? AND room_number=? AND booking_date=?",
		hotelID, roomNumber, date).Scan(&taken)
	if err != nil {
		return Booking{}, err
	}
	if taken > 0 {
		return Booking{}, ErrConflict
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO room_bookings (customer_id, hotel_id, room_number, booking_date) VALUES (?,?,?,?)",
		customerID, hotelID, roomNumber, date)
	if err != nil {
		return Booking{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Booking{}, err
	}
	if err := tx.Commit(); err != nil {
		return Booking{}, err
	}
	return Booking{
		ID:          uint64(id),
		CustomerID:  customerID,
		HotelID:     hotelID,
		RoomNumber:  roomNumber,
		BookingDate: date,
		Price:       price,
	}, nil
}

// RecentByCustomer returns up to five bookings of a customer with room
// prices, ordered by room number descending.
func (r *BookingRepo) RecentByCustomer(ctx context.Context, customerID uint64) ([]RecentBooking, error) {
	const q = `SELECT b.hotel_id, b.room_number, r.price, b.booking_date
	           FROM room_bookings b
	           JOIN rooms r ON r.hotel_id = b.hotel_id AND r.room_number = b.room_number
	           WHERE b.customer_id = ?
	           ORDER BY b.room_number DESC
	           LIMIT 5`
	rows, err := r.DB.QueryContext(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]RecentBooking, 0, 5)
	for rows.Next() {
		var b RecentBooking
		if err := rows.Scan(&b.HotelID, &b.RoomNumber, &b.Price, &b.BookingDate); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// HistoryForHotel returns the bookings of a hotel with customer names,
// optionally restricted to the inclusive [start, end] calendar-date window.
// booking_date carries no time component, so BETWEEN start AND end covers
// the full [start 00:00:00, end 23:59:59] window.  Ordered by booking id
// ascending (insertion order) to keep the report deterministic.
func (r *BookingRepo) HistoryForHotel(ctx context.Context, hotelID uint64, start, end string) ([]HistoryRow, error) {
	q := `SELECT b.id, u.name, b.hotel_id, b.room_number, b.booking_date
	      FROM room_bookings b
	      JOIN users u ON u.id = b.customer_id
	      WHERE b.hotel_id = ?`
	args := []any{hotelID}
	if start != "" && end != "" {
		q += " AND b.booking_date BETWEEN ? AND ?"
		args = append(args, start, end)
	}
	q += " ORDER BY b.id"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]HistoryRow, 0)
	for rows.Next() {
		var h HistoryRow
		if err := rows.Scan(&h.BookingID, &h.CustomerName, &h.HotelID, &h.RoomNumber, &h.BookingDate); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// TopCustomers returns the five customers with the most bookings across all
// hotels, descending by count; ties break by customer id ascending.
func (r *BookingRepo) TopCustomers(ctx context.Context) ([]TopCustomer, error) {
	const q = `SELECT b.customer_id, u.name, COUNT(*) AS bookings
	           FROM room_bookings b
	           JOIN users u ON u.id = b.customer_id
	           GROUP BY b.customer_id, u.name
	           ORDER BY bookings DESC, b.customer_id
	           LIMIT 5`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]TopCustomer, 0, 5)
	for rows.Next() {
		var t TopCustomer
		if err := rows.Scan(&t.CustomerID, &t.Name, &t.Bookings); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
