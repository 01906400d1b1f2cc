package events

import "time"

type CreateEventRequest struct {
	Title        string    `json:"title" binding:"required"`
	Description  string    `json:"description"`
	RoomID       int64     `json:"room_id" binding:"required"`
	StartTime    time.Time `json:"start_time" binding:"required"`
	EndTime      time.Time `json:"end_time" binding:"required"`
	IsPublic     bool      `json:"is_public"`
	MaxAttendees int       `json:"max_attendees"`
}

type RegisterRequest struct {
	UserID *int64 `json:"user_id,omitempty"`
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
}
