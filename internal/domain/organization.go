package domain

import "time"

type Organization struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required"`
	Slug        string    `json:"slug" gorm:"uniqueIndex"`
	Description string    `json:"description,omitempty"`
	Address     string    `json:"address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
