package booking

import (
	"context"
	"errors"
	"fmt"

	"reservas/internal/domain"
	"reservas/internal/ledger"
	"reservas/internal/repository"
	"reservas/internal/schedule"

	"github.com/google/uuid"
)

// Service orchestrates a booking request end to end: recurrence expansion,
// availability and conflict validation, pricing, then the ledger's atomic
// commit. It returns either a Confirmation or a *Rejection; validation runs
// without the room lock, the ledger re-checks at commit time.
type Service struct {
	rooms    RoomDirectory
	ledger   Ledger
	bookings BookingReader
	notifs   NotificationSender
}

func NewService(rooms RoomDirectory, l Ledger, bookings BookingReader, notifs NotificationSender) *Service {
	return &Service{rooms: rooms, ledger: l, bookings: bookings, notifs: notifs}
}

func (s *Service) RequestBooking(ctx context.Context, ownerID int64, req BookingRequest) (*Confirmation, error) {
	first, err := schedule.NewWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, reject(ReasonInvalidWindow, err.Error())
	}

	freq, err := schedule.ParseFrequency(req.Recurrence)
	if err != nil {
		return nil, reject(ReasonInvalidRecurrence, err.Error())
	}
	windows, err := schedule.Expand(first, schedule.Policy{Frequency: freq, Count: req.Count})
	if err != nil {
		return nil, reject(ReasonInvalidRecurrence, err.Error())
	}

	room, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	rule, err := schedule.NewRule(room.Availability.Days, room.Availability.StartTime, room.Availability.EndTime)
	if err != nil {
		return nil, fmt.Errorf("room %d has a malformed availability rule: %w", room.ID, err)
	}

	// Advisory pass: collect every failing window so the caller sees the full
	// picture, not just the first offender.
	var (
		midnight    []schedule.Window
		outside     []schedule.Window
		conflicting []schedule.Window
		conflictIDs []int64
	)
	for _, w := range windows {
		if err := rule.Check(w); err != nil {
			if errors.Is(err, schedule.ErrCrossesMidnight) {
				midnight = append(midnight, w)
			} else {
				outside = append(outside, w)
			}
			continue
		}
		hits, err := s.ledger.FindConflicts(ctx, room.ID, w)
		if err != nil {
			return nil, err
		}
		if len(hits) > 0 {
			conflicting = append(conflicting, w)
			for _, b := range hits {
				conflictIDs = append(conflictIDs, b.ID)
			}
		}
	}
	if len(midnight) > 0 && len(outside) == 0 {
		r := reject(ReasonCrossesMidnight, "window spans a day boundary outside the room's hours")
		r.Windows = midnight
		return nil, r
	}
	if len(midnight)+len(outside) > 0 {
		r := reject(ReasonAvailabilityViolated, "window(s) fall outside the room's operating hours")
		r.Windows = append(outside, midnight...)
		return nil, r
	}
	if len(conflicting) > 0 {
		r := reject(ReasonSchedulingConflict, "window(s) overlap existing bookings")
		r.Windows = conflicting
		r.ConflictIDs = conflictIDs
		return nil, r
	}

	prices := make([]float64, len(windows))
	for i, w := range windows {
		prices[i] = schedule.Price(w, room.PricePerHour)
	}
	total := schedule.PriceBatch(windows, room.PricePerHour)

	batchID := uuid.NewString()
	committed, err := s.ledger.Reserve(ctx, room.ID, ownerID, windows, prices, batchID, req.EventID)
	if err != nil {
		var conflict *ledger.ConflictError
		if errors.As(err, &conflict) {
			// Lost the race between validation and commit.
			r := reject(ReasonSchedulingConflict, conflict.Error())
			r.Windows = conflict.Windows
			r.ConflictIDs = conflict.BookingIDs
			return nil, r
		}
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyBookingCommitted(ctx, ownerID, batchID, room.ID, len(committed))
	}

	views := make([]BookingView, 0, len(committed))
	for _, b := range committed {
		views = append(views, BookingView{
			ID:        b.ID,
			RoomID:    b.RoomID,
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
			Price:     b.Price,
			Status:    string(b.Status),
		})
	}
	return &Confirmation{
		BatchID:    batchID,
		RoomID:     room.ID,
		TotalPrice: total,
		Bookings:   views,
	}, nil
}

// ConfirmBooking transitions a pending booking to confirmed. Only the booking
// owner or an admin may confirm.
func (s *Service) ConfirmBooking(ctx context.Context, actorID int64, actorRole domain.Role, bookingID int64) (*domain.Booking, error) {
	if err := s.authorize(ctx, actorID, actorRole, bookingID); err != nil {
		return nil, err
	}
	return s.ledger.Confirm(ctx, bookingID)
}

// CancelBooking cancels a single occurrence. Other bookings of the same batch
// are untouched.
func (s *Service) CancelBooking(ctx context.Context, actorID int64, actorRole domain.Role, bookingID int64) (*domain.Booking, error) {
	if err := s.authorize(ctx, actorID, actorRole, bookingID); err != nil {
		return nil, err
	}
	b, err := s.ledger.Cancel(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if s.notifs != nil {
		_ = s.notifs.NotifyBookingCancelled(ctx, b.OwnerID, b.ID, b.RoomID)
	}
	return b, nil
}

func (s *Service) authorize(ctx context.Context, actorID int64, actorRole domain.Role, bookingID int64) error {
	if actorRole == domain.RoleAdmin {
		return nil
	}
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.OwnerID != actorID {
		return ErrForbidden
	}
	return nil
}

func (s *Service) MyBookings(ctx context.Context, ownerID int64, limit, offset int) ([]repository.OwnerBookingDetails, error) {
	return s.bookings.ListByOwner(ctx, ownerID, limit, offset)
}
