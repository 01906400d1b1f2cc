package booking

import (
	"context"

	"reservas/internal/domain"
	"reservas/internal/repository"
	"reservas/internal/schedule"
)

// RoomDirectory is the read-only room lookup the orchestrator validates
// against.
type RoomDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}

// Ledger guards the no-double-booking invariant for committed bookings.
type Ledger interface {
	FindConflicts(ctx context.Context, roomID int64, w schedule.Window) ([]domain.Booking, error)
	Reserve(ctx context.Context, roomID, ownerID int64, windows []schedule.Window, prices []float64, batchID string, eventID *int64) ([]*domain.Booking, error)
	Confirm(ctx context.Context, bookingID int64) (*domain.Booking, error)
	Cancel(ctx context.Context, bookingID int64) (*domain.Booking, error)
}

// BookingReader serves listings that do not go through the ledger.
type BookingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]repository.OwnerBookingDetails, error)
}

// NotificationSender pushes booking lifecycle events; a nil sender is valid.
type NotificationSender interface {
	NotifyBookingCommitted(ctx context.Context, ownerID int64, batchID string, roomID int64, count int) error
	NotifyBookingCancelled(ctx context.Context, ownerID int64, bookingID int64, roomID int64) error
}
