package models

import "time"

type ReservationUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Reservation mirrors the server representation. ID and CreatedAt are
// assigned by the server.
type Reservation struct {
	ID        int64           `json:"id"`
	User      ReservationUser `json:"user"`
	Room      Room            `json:"room"`
	StartTime time.Time       `json:"start_time"`
	EndTime   time.Time       `json:"end_time"`
	CreatedAt time.Time       `json:"created_at"`
}

// ReservationRequest is the creation payload sent to the reservations endpoint.
type ReservationRequest struct {
	RoomID    int64     `json:"room_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// ReservationDraft holds raw form input before composition.
type ReservationDraft struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	StartTime string `json:"start_time"` // HH:MM
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
	EndTime   string `json:"end_time"`   // HH:MM
}
