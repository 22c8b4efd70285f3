package repository

import (
	"context"
	"database/sql"
)

// Room mirrors the 'rooms' table.  Rooms are keyed by (hotel_id,
// room_number); there is no surrogate id.
type Room struct {
	HotelID    uint64  `json:"hotel_id"`
	RoomNumber uint64  `json:"room_number"`
	Price      float64 `json:"price"`
	ImageURL   string  `json:"image_url"`
}

// RoomUpdate is one row of the append-only room_updates_log joined with the
// room's current data.  UpdatedOn keeps the database formatting
// (YYYY-MM-DD HH:MM:SS).
type RoomUpdate struct {
	ID         uint64  `json:"id"`
	ManagerID  uint64  `json:"manager_id"`
	HotelID    uint64  `json:"hotel_id"`
	HotelName  string  `json:"hotel_name"`
	RoomNumber uint64  `json:"room_number"`
	Price      float64 `json:"price"`
	ImageURL   string  `json:"image_url"`
	UpdatedOn  string  `json:"updated_on"`
}

type RoomRepo struct{ DB *sql.DB }

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{DB: db} }

// ListAvailable returns the rooms of a hotel that have no booking on the
// given date: all rooms of the hotel minus rooms referenced by same-date
// bookings.  date must be YYYY-MM-DD.  Ordered by room number ascending.
func (r *RoomRepo) ListAvailable(ctx context.Context, hotelID uint64, date string) ([]Room, error) {
	const q = `SELECT r.hotel_id, r.room_number, r.price, r.image_url
	           FROM rooms r
	           WHERE r.hotel_id = ?
	             AND r.room_number NOT IN (
	                 SELECT b.room_number FROM room_bookings b
	                 WHERE b.hotel_id = ? AND b.booking_date = ?)
	           ORDER BY r.room_number`
	rows, err := r.DB.QueryContext(ctx, q, hotelID, hotelID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Room, 0)
	for rows.Next() {
		var rm Room
		if err := rows.Scan(&rm.HotelID, &rm.RoomNumber, &rm.Price, &rm.ImageURL); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// UpdatePrice sets a room's price and appends a room_updates_log entry, both
// inside one transaction so the audit row never exists without the update.
// Returns sql.ErrNoRows when the room does not exist.
func (r *RoomRepo) UpdatePrice(ctx context.Context, hotelID, roomNumber uint64, price float64, managerID uint64) error {
	return r.updateWithLog(ctx, hotelID, roomNumber, managerID,
		"UPDATE rooms SET price=? WHERE hotel_id=? AND room_number=?", price)
}

// UpdateImage sets a room's image URL and appends a room_updates_log entry.
// Returns sql.ErrNoRows when the room does not exist.
func (r *RoomRepo) UpdateImage(ctx context.Context, hotelID, roomNumber uint64, imageURL string, managerID uint64) error {
	return r.updateWithLog(ctx, hotelID, roomNumber, managerID,
		"UPDATE rooms SET image_url=? WHERE hotel_id=? AND room_number=?", imageURL)
}

func (r *RoomRepo) updateWithLog(ctx context.Context, hotelID, roomNumber, managerID uint64, query string, value any) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Existence check first: RowsAffected cannot distinguish a missing room
	// from an update that left the value unchanged.
	var n int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM rooms WHERE hotel_id=? AND room_number=?",
		hotelID, roomNumber).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	if _, err := tx.ExecContext(ctx, query, value, hotelID, roomNumber); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO room_updates_log (manager_id, hotel_id, room_number, updated_on) VALUES (?,?,?,CURRENT_TIMESTAMP)",
		managerID, hotelID, roomNumber); err != nil {
		return err
	}
	return tx.Commit()
}

// RecentUpdates returns the last five room_updates_log entries for a hotel,
// newest first, joined with the room's current price/image and the hotel
// name.  Ties on the second-resolution timestamp break by id descending.
func (r *RoomRepo) RecentUpdates(ctx context.Context, hotelID uint64) ([]RoomUpdate, error) {
	const q = `SELECT l.id, l.manager_id, l.hotel_id, h.name, l.room_number, r.price, r.image_url, l.updated_on
	           FROM room_updates_log l
	           JOIN rooms r  ON r.hotel_id = l.hotel_id AND r.room_number = l.room_number
	           JOIN hotels h ON h.id = l.hotel_id
	           WHERE l.hotel_id = ?
	           ORDER BY l.updated_on DESC, l.id DESC
	           LIMIT 5`
	rows, err := r.DB.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]RoomUpdate, 0, 5)
	for rows.Next() {
		var u RoomUpdate
		if err := rows.Scan(&u.ID, &u.ManagerID, &u.HotelID, &u.HotelName, &u.RoomNumber, &u.Price, &u.ImageURL, &u.UpdatedOn); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
