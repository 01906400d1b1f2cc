package notification

import (
	"context"
	"time"
)

type bookingEvent struct {
	Type      string    `json:"type"`
	BatchID   string    `json:"batch_id,omitempty"`
	BookingID int64     `json:"booking_id,omitempty"`
	RoomID    int64     `json:"room_id"`
	Count     int       `json:"count,omitempty"`
	At        time.Time `json:"at"`
}

// Sender pushes booking lifecycle events through the hub. It satisfies the
// booking module's NotificationSender interface.
type Sender struct {
	hub *Hub
}

func NewSender(hub *Hub) *Sender {
	return &Sender{hub: hub}
}

func (s *Sender) NotifyBookingCommitted(_ context.Context, ownerID int64, batchID string, roomID int64, count int) error {
	s.hub.SendToUser(ownerID, bookingEvent{
		Type:    "booking_committed",
		BatchID: batchID,
		RoomID:  roomID,
		Count:   count,
		At:      time.Now(),
	})
	return nil
}

func (s *Sender) NotifyBookingCancelled(_ context.Context, ownerID int64, bookingID int64, roomID int64) error {
	s.hub.SendToUser(ownerID, bookingEvent{
		Type:      "booking_cancelled",
		BookingID: bookingID,
		RoomID:    roomID,
		At:        time.Now(),
	})
	return nil
}
