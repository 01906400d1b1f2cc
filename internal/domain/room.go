package domain

import "time"

// Availability is a room's recurring open-hours policy: the weekdays the room
// operates on plus the daily opening and closing time ("HH:MM", closing
// inclusive as a booking end boundary).
type Availability struct {
	Days      []int  `json:"days"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type Room struct {
	ID             int64        `json:"id"`
	OrganizationID int64        `json:"organization_id" validate:"required"`
	Name           string       `json:"name" validate:"required"`
	Description    string       `json:"description,omitempty"`
	Capacity       int          `json:"capacity" validate:"required,gt=0"`
	Location       string       `json:"location,omitempty"`
	Equipment      []string     `json:"equipment,omitempty" gorm:"serializer:json"`
	Availability   Availability `json:"availability" gorm:"serializer:json"`
	PricePerHour   float64      `json:"price_per_hour" validate:"gte=0"`
	IsActive       bool         `json:"is_active"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}
