// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published when a booking is successfully created.
// It contains enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database.
type BookingCreatedEvent struct {
	BookingID   uint64  `json:"booking_id"`
	CustomerID  uint64  `json:"customer_id"`
	HotelID     uint64  `json:"hotel_id"`
	RoomNumber  uint64  `json:"room_number"`
	BookingDate string  `json:"booking_date"`
	Price       float64 `json:"price"`
	CreatedAt   string  `json:"created_at"`
}

// RepairRequestedEvent is published when a manager places a repair request
// with a maintenance company, so the company side can be notified without
// polling the database.
type RepairRequestedEvent struct {
	RepairID    uint64 `json:"repair_id"`
	ManagerID   uint64 `json:"manager_id"`
	CompanyID   uint64 `json:"company_id"`
	HotelID     uint64 `json:"hotel_id"`
	RoomNumber  uint64 `json:"room_number"`
	RequestedAt string `json:"requested_at"`
}
