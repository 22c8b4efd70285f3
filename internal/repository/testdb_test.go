package repository

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// testSchema mirrors schema.sql in SQLite dialect.  Date-valued columns that
// the repositories scan as strings are declared TEXT so the driver does not
// convert them to time.Time.
const testSchema = `
CREATE TABLE users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    name          TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE hotels (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    name       TEXT NOT NULL,
    latitude   REAL NOT NULL,
    longitude  REAL NOT NULL,
    manager_id INTEGER NOT NULL REFERENCES users(id)
);
CREATE TABLE rooms (
    hotel_id    INTEGER NOT NULL REFERENCES hotels(id),
    room_number INTEGER NOT NULL,
    price       REAL NOT NULL,
    image_url   TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (hotel_id, room_number)
);
CREATE TABLE room_bookings (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    customer_id  INTEGER NOT NULL REFERENCES users(id),
    hotel_id     INTEGER NOT NULL,
    room_number  INTEGER NOT NULL,
    booking_date TEXT NOT NULL
);
CREATE TABLE room_updates_log (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    manager_id  INTEGER NOT NULL,
    hotel_id    INTEGER NOT NULL,
    room_number INTEGER NOT NULL,
    updated_on  TEXT NOT NULL
);
CREATE TABLE room_repairs (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    company_id  INTEGER NOT NULL,
    hotel_id    INTEGER NOT NULL,
    room_number INTEGER NOT NULL,
    repair_date TEXT NOT NULL
);
CREATE TABLE room_repair_requests (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    manager_id INTEGER NOT NULL,
    repair_id  INTEGER NOT NULL REFERENCES room_repairs(id)
);
CREATE TABLE refresh_tokens (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id    INTEGER NOT NULL,
    token_hash TEXT NOT NULL UNIQUE,
    expires_at DATETIME NOT NULL,
    revoked_at DATETIME
);
`

// newTestDB opens an in-memory SQLite database with the application schema.
// Connections are capped at one because each in-memory connection would
// otherwise see its own empty database.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// seedUser inserts a user row directly and returns its id.
func seedUser(t *testing.T, db *sql.DB, name, role string) uint64 {
	t.Helper()
	res, err := db.Exec(
		"INSERT INTO users (name, password_hash, role) VALUES (?,?,?)",
		name, "x", role)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return uint64(id)
}

// seedHotel inserts a hotel row and returns its id.
func seedHotel(t *testing.T, db *sql.DB, name string, lat, lon float64, managerID uint64) uint64 {
	t.Helper()
	res, err := db.Exec(
		"INSERT INTO hotels (name, latitude, longitude, manager_id) VALUES (?,?,?,?)",
		name, lat, lon, managerID)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return uint64(id)
}

// seedRoom inserts a room row.
func seedRoom(t *testing.T, db *sql.DB, hotelID, roomNumber uint64, price float64, imageURL string) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO rooms (hotel_id, room_number, price, image_url) VALUES (?,?,?,?)",
		hotelID, roomNumber, price, imageURL)
	require.NoError(t, err)
}
