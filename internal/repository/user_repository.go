package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/utils"
)

// Role values stored in users.role.
const (
	RoleCustomer = "CUSTOMER"
	RoleManager  = "MANAGER"
)

// User mirrors the 'users' table.
type User struct {
	ID           uint64
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns its generated ID.  Registration always
// produces a CUSTOMER; manager accounts are provisioned out-of-band.  Names
// are not unique, duplicates are allowed.
func (r *UserRepo) Create(ctx context.Context, name, password, role string, cost int) (uint64, error) {
	name = strings.TrimSpace(name)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, password_hash, role) VALUES (?,?,?)",
		name, hash, role)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a user by id.  Login is id + password; the caller verifies
// the password against PasswordHash and must treat sql.ErrNoRows the same as
// a password mismatch.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,password_hash,role,created_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}
