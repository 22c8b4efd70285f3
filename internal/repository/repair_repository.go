package repository

import (
	"context"
	"database/sql"
)

// RepairRepo records repair requests placed by managers with maintenance
// companies.  Both room_repairs and room_repair_requests are append-only.
type RepairRepo struct{ DB *sql.DB }

func NewRepairRepo(db *sql.DB) *RepairRepo { return &RepairRepo{DB: db} }

// Repair is one row of a manager's repair request history.  RepairDate
// keeps the database formatting.
type Repair struct {
	CompanyID  uint64 `json:"company_id"`
	HotelID    uint64 `json:"hotel_id"`
	RoomNumber uint64 `json:"room_number"`
	RepairDate string `json:"repair_date"`
}

// CreateRequest inserts a room_repairs row timestamped now and the
// room_repair_requests row referencing it, in one transaction.  The repair
// id comes straight from the insert instead of a separate "most recent
// repair" scan, so concurrent requests cannot cross-link.  Returns the new
// repair id.
func (r *RepairRepo) CreateRequest(ctx context.Context, managerID, hotelID, roomNumber, companyID uint64) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO room_repairs (company_id, hotel_id, room_number, repair_date) VALUES (?,?,?,CURRENT_TIMESTAMP)",
		companyID, hotelID, roomNumber)
	if err != nil {
		return 0, err
	}
	repairID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO room_repair_requests (manager_id, repair_id) VALUES (?,?)",
		managerID, repairID); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(repairID), nil
}

// HistoryForManager returns every repair the manager has requested, oldest
// first.
func (r *RepairRepo) HistoryForManager(ctx context.Context, managerID uint64) ([]Repair, error) {
	const q = `SELECT p.company_id, p.hotel_id, p.room_number, p.repair_date
	           FROM room_repairs p
	           JOIN room_repair_requests q ON q.repair_id = p.id
	           WHERE q.manager_id = ?
	           ORDER BY p.id`
	rows, err := r.DB.QueryContext(ctx, q, managerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Repair, 0)
	for rows.Next() {
		var rp Repair
		if err := rows.Scan(&rp.CompanyID, &rp.HotelID, &rp.RoomNumber, &rp.RepairDate); err != nil {
			return nil, err
		}
		out = append(out, rp)
	}
	return out, rows.Err()
}
