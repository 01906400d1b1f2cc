package domain

import "time"

type EventStatus string

const (
	EventPending   EventStatus = "pending"
	EventConfirmed EventStatus = "confirmed"
	EventCancelled EventStatus = "cancelled"
)

type AttendeeStatus string

const (
	AttendeePending   AttendeeStatus = "pending"
	AttendeeConfirmed AttendeeStatus = "confirmed"
	AttendeeCancelled AttendeeStatus = "cancelled"
)

type Event struct {
	ID             int64       `json:"id"`
	Title          string      `json:"title" validate:"required"`
	Description    string      `json:"description,omitempty"`
	RoomID         int64       `json:"room_id" validate:"required"`
	OrganizerID    int64       `json:"organizer_id"`
	OrganizationID int64       `json:"organization_id"`
	StartTime      time.Time   `json:"start_time" validate:"required"`
	EndTime        time.Time   `json:"end_time" validate:"required"`
	IsPublic       bool        `json:"is_public"`
	MaxAttendees   int         `json:"max_attendees,omitempty"`
	Price          float64     `json:"price"`
	Status         EventStatus `json:"status"`
	PublicLink     string      `json:"public_link,omitempty"`
	BatchID        string      `json:"batch_id,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`

	Attendees []Attendee `json:"attendees,omitempty" gorm:"foreignKey:EventID"`
}

type Attendee struct {
	ID        int64          `json:"id"`
	EventID   int64          `json:"event_id"`
	UserID    *int64         `json:"user_id,omitempty"`
	Name      string         `json:"name" validate:"required"`
	Email     string         `json:"email" validate:"required,email"`
	Status    AttendeeStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}
