package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking is one committed occurrence of a reservation. Occurrences produced
// by a recurrence expansion share a BatchID but are otherwise independent:
// cancelling one does not touch its siblings.
type Booking struct {
	ID          int64         `json:"id"`
	RoomID      int64         `json:"room_id" validate:"required"`
	OwnerID     int64         `json:"owner_id" validate:"required"`
	BatchID     string        `json:"batch_id"`
	EventID     *int64        `json:"event_id,omitempty"`
	StartTime   time.Time     `json:"start_time" validate:"required"`
	EndTime     time.Time     `json:"end_time" validate:"required"`
	Price       float64       `json:"price" validate:"gte=0"`
	Status      BookingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	CancelledAt *time.Time    `json:"cancelled_at,omitempty"`
}

// Active reports whether the booking still occupies its window.
func (b *Booking) Active() bool {
	return b.Status != BookingCancelled
}
