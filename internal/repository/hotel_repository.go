package repository

import (
	"context"
	"database/sql"
)

// DefaultSearchRadius is the straight-line distance within which hotels are
// considered "near" a coordinate when the caller does not ask for a
// different radius.
const DefaultSearchRadius = 30.0

// Hotel mirrors the 'hotels' table.  ManagerID references the user that
// manages the hotel and gates every manager operation.
type Hotel struct {
	ID        uint64  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	ManagerID uint64  `json:"-"`
}

type HotelRepo struct{ DB *sql.DB }

func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{DB: db} }

// ListWithinDistance returns every hotel whose Euclidean distance to
// (lat, lon) is at most radius, boundary included.  The predicate compares
// squared distances so the database needs nothing beyond arithmetic; it is
// exactly equivalent to sqrt((Δlat)²+(Δlon)²) <= radius for radius >= 0.
// Results are ordered by hotel id ascending to keep the output
// deterministic.
func (r *HotelRepo) ListWithinDistance(ctx context.Context, lat, lon, radius float64) ([]Hotel, error) {
	const q = `SELECT id, name, latitude, longitude, manager_id
	           FROM hotels
	           WHERE (latitude - ?) * (latitude - ?) + (longitude - ?) * (longitude - ?) <= ? * ?
	           ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, q, lat, lat, lon, lon, radius, radius)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Hotel, 0)
	for rows.Next() {
		var h Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.Latitude, &h.Longitude, &h.ManagerID); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Manages reports whether the given user manages the given hotel.  Every
// manager operation checks this before touching data.
func (r *HotelRepo) Manages(ctx context.Context, hotelID, managerID uint64) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM hotels WHERE id=? AND manager_id=?",
		hotelID, managerID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AuthorizeManager returns ErrForbidden unless the user manages the hotel.
func (r *HotelRepo) AuthorizeManager(ctx context.Context, hotelID, managerID uint64) error {
	ok, err := r.Manages(ctx, hotelID, managerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}
