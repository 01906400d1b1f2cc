package booking

import "time"

type BookingRequest struct {
	RoomID     int64     `json:"room_id" binding:"required"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
	Recurrence string    `json:"recurrence"`
	Count      int       `json:"count"`
	EventID    *int64    `json:"event_id,omitempty"`
}

type BookingView struct {
	ID        int64     `json:"id"`
	RoomID    int64     `json:"room_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Price     float64   `json:"price"`
	Status    string    `json:"status"`
}

// Confirmation is the committed result of a booking request.
type Confirmation struct {
	BatchID    string        `json:"batch_id"`
	RoomID     int64         `json:"room_id"`
	TotalPrice float64       `json:"total_price"`
	Bookings   []BookingView `json:"bookings"`
}
