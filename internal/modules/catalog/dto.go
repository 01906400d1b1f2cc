package catalog

import "reservas/internal/domain"

type CreateRoomRequest struct {
	Name         string              `json:"name" binding:"required"`
	Description  string              `json:"description"`
	Capacity     int                 `json:"capacity" binding:"required,gt=0"`
	Location     string              `json:"location"`
	Equipment    []string            `json:"equipment"`
	Availability domain.Availability `json:"availability" binding:"required"`
	PricePerHour float64             `json:"price_per_hour" binding:"gte=0"`
}
