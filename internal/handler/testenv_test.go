package handler

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/utils"
)

const testSecret = "test-secret"

const handlerTestSchema = `
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
    manager_id INTEGER NOT NULL
);
CREATE TABLE rooms (
    hotel_id    INTEGER NOT NULL,
    room_number INTEGER NOT NULL,
    price       REAL NOT NULL,
    image_url   TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (hotel_id, room_number)
);
CREATE TABLE room_bookings (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    customer_id  INTEGER NOT NULL,
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
    repair_id  INTEGER NOT NULL
);
CREATE TABLE refresh_tokens (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id    INTEGER NOT NULL,
    token_hash TEXT NOT NULL UNIQUE,
    expires_at DATETIME NOT NULL,
    revoked_at DATETIME
);
`

// testEnv wires the full handler stack against an in-memory SQLite database,
// with routes registered the same way the server does.
type testEnv struct {
	e  *echo.Echo
	db *sql.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	_, err = db.Exec(handlerTestSchema)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{
		JWTSecret:      testSecret,
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     bcrypt.MinCost,
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	hotels := repository.NewHotelRepo(db)
	rooms := repository.NewRoomRepo(db)
	bookings := repository.NewBookingRepo(db)
	repairs := repository.NewRepairRepo(db)

	authH := NewAuthHandler(cfg, users, tokens)
	publicH := NewPublicHandler(hotels)
	bookingH := NewBookingHandler(rooms, bookings)
	managerH := NewManagerHandler(hotels, rooms, bookings, repairs)

	e := echo.New()
	e.GET("/v1/hotels", publicH.SearchHotels)

	ag := e.Group("/v1/auth")
	ag.POST("/register", authH.Register)
	ag.POST("/login", authH.Login)
	ag.POST("/refresh", authH.Refresh)
	ag.POST("/logout", authH.Logout)
	e.GET("/v1/me", authH.Me, middleware.JWTAuth(testSecret))

	cg := e.Group("/v1", middleware.JWTAuth(testSecret), middleware.RequireRole("CUSTOMER", "MANAGER"))
	cg.GET("/hotels/:id/rooms", bookingH.ListAvailableRooms)
	cg.POST("/bookings", bookingH.Book)
	cg.GET("/my-bookings", bookingH.MyBookings)

	mg := e.Group("/v1", middleware.JWTAuth(testSecret), middleware.RequireRole("MANAGER"))
	mg.PATCH("/hotels/:id/rooms/:room", managerH.UpdateRoom)
	mg.GET("/hotels/:id/room-updates", managerH.RecentRoomUpdates)
	mg.GET("/hotels/:id/bookings", managerH.BookingHistory)
	mg.GET("/customers/top", managerH.TopCustomers)
	mg.POST("/hotels/:id/rooms/:room/repairs", managerH.PlaceRepairRequest)
	mg.GET("/repairs", managerH.RepairHistory)

	return &testEnv{e: e, db: db}
}

// do performs a request against the in-memory server and decodes the JSON
// response body into out when it is non-nil.
func (env *testEnv) do(t *testing.T, method, target, token string, body string, out any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	if out != nil && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

// seedManager inserts a MANAGER user and returns its id plus a valid access
// token.  Manager accounts are provisioned out-of-band, so tests write the
// row directly.
func (env *testEnv) seedManager(t *testing.T, name string) (uint64, string) {
	t.Helper()
	hash, err := utils.HashPassword("pw", bcrypt.MinCost)
	require.NoError(t, err)
	res, err := env.db.Exec(
		"INSERT INTO users (name, password_hash, role) VALUES (?,?,?)",
		name, hash, repository.RoleManager)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	tok, err := utils.NewAccessToken(testSecret, uint64(id), repository.RoleManager, 15)
	require.NoError(t, err)
	return uint64(id), tok.Token
}

// registerCustomer goes through the real register endpoint and returns the
// user id and access token from the response.
func (env *testEnv) registerCustomer(t *testing.T, name string) (uint64, string) {
	t.Helper()
	var resp struct {
		User struct {
			ID uint64 `json:"id"`
		} `json:"user"`
		Access struct {
			Token string `json:"token"`
		} `json:"access"`
	}
	rec := env.do(t, http.MethodPost, "/v1/auth/register", "",
		`{"name":"`+name+`","password":"pw"}`, &resp)
	require.Equal(t, http.StatusCreated, rec.Code)
	return resp.User.ID, resp.Access.Token
}

// seedHotel inserts a hotel row and returns its id.
func (env *testEnv) seedHotel(t *testing.T, name string, lat, lon float64, managerID uint64) uint64 {
	t.Helper()
	res, err := env.db.Exec(
		"INSERT INTO hotels (name, latitude, longitude, manager_id) VALUES (?,?,?,?)",
		name, lat, lon, managerID)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return uint64(id)
}

// seedRoom inserts a room row.
func (env *testEnv) seedRoom(t *testing.T, hotelID, roomNumber uint64, price float64) {
	t.Helper()
	_, err := env.db.Exec(
		"INSERT INTO rooms (hotel_id, room_number, price, image_url) VALUES (?,?,?,?)",
		hotelID, roomNumber, price, "")
	require.NoError(t, err)
}
