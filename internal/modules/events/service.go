package events

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"reservas/internal/domain"
	"reservas/internal/modules/booking"
	"reservas/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrValidation    = errors.New("events: validation error")
	ErrEventNotFound = errors.New("events: event not found")
	ErrEventFull     = errors.New("events: event is full")
	ErrDuplicate     = errors.New("events: already registered")
)

type EventRepository interface {
	Create(ctx context.Context, e *domain.Event) error
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
	GetByPublicLink(ctx context.Context, link string) (*domain.Event, error)
	ListPublic(ctx context.Context, organizationID int64) ([]domain.Event, error)
	ListByOrganizer(ctx context.Context, organizerID int64) ([]domain.Event, error)
	UpdateStatus(ctx context.Context, id int64, status domain.EventStatus) error
	AddAttendee(ctx context.Context, eventID int64, a *domain.Attendee) error
	ListRegistrations(ctx context.Context, userID int64) ([]domain.Attendee, error)
}

// Booker is the slice of the booking orchestrator events depend on: creating
// an event reserves its room through the same ledger as any other booking.
type Booker interface {
	RequestBooking(ctx context.Context, ownerID int64, req booking.BookingRequest) (*booking.Confirmation, error)
	CancelBooking(ctx context.Context, actorID int64, actorRole domain.Role, bookingID int64) (*domain.Booking, error)
}

type Service struct {
	events EventRepository
	booker Booker
}

func NewService(events EventRepository, booker Booker) *Service {
	return &Service{events: events, booker: booker}
}

// CreateEvent reserves the room and materializes the event. The booking
// rejection, if any, is returned unwrapped so the handler can report the
// offending windows.
func (s *Service) CreateEvent(ctx context.Context, organizerID int64, organizerRole domain.Role, organizationID int64, req CreateEventRequest) (*domain.Event, *booking.Confirmation, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, nil, ErrValidation
	}

	conf, err := s.booker.RequestBooking(ctx, organizerID, booking.BookingRequest{
		RoomID:    req.RoomID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		return nil, nil, err
	}

	e := &domain.Event{
		Title:          req.Title,
		Description:    req.Description,
		RoomID:         req.RoomID,
		OrganizerID:    organizerID,
		OrganizationID: organizationID,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		IsPublic:       req.IsPublic,
		MaxAttendees:   req.MaxAttendees,
		Price:          conf.TotalPrice,
		Status:         domain.EventConfirmed,
		BatchID:        conf.BatchID,
	}
	if req.IsPublic {
		e.PublicLink = publicLink(req.Title)
	}
	if err := s.events.Create(ctx, e); err != nil {
		// the batch must not keep the room when the event row never landed
		for _, b := range conf.Bookings {
			if _, cerr := s.booker.CancelBooking(ctx, organizerID, organizerRole, b.ID); cerr != nil {
				log.Printf("events: failed to release booking id=%d batch=%s: %v", b.ID, conf.BatchID, cerr)
			}
		}
		return nil, nil, err
	}
	return e, conf, nil
}

func publicLink(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-':
			return '-'
		default:
			return -1
		}
	}, slug)
	return fmt.Sprintf("%s-%s", strings.Trim(slug, "-"), uuid.NewString()[:8])
}

func (s *Service) ListPublic(ctx context.Context, organizationID int64) ([]domain.Event, error) {
	return s.events.ListPublic(ctx, organizationID)
}

func (s *Service) GetByPublicLink(ctx context.Context, link string) (*domain.Event, error) {
	e, err := s.events.GetByPublicLink(ctx, link)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *Service) MyEvents(ctx context.Context, organizerID int64) ([]domain.Event, error) {
	return s.events.ListByOrganizer(ctx, organizerID)
}

func (s *Service) MyRegistrations(ctx context.Context, userID int64) ([]domain.Attendee, error) {
	return s.events.ListRegistrations(ctx, userID)
}

// Register adds an attendee to a public confirmed event.
func (s *Service) Register(ctx context.Context, eventID int64, req RegisterRequest) (*domain.Attendee, error) {
	e, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if !e.IsPublic || e.Status != domain.EventConfirmed {
		return nil, ErrEventNotFound
	}

	a := &domain.Attendee{
		UserID: req.UserID,
		Name:   req.Name,
		Email:  strings.ToLower(strings.TrimSpace(req.Email)),
		Status: domain.AttendeePending,
	}
	if a.Name == "" || a.Email == "" {
		return nil, ErrValidation
	}

	if err := s.events.AddAttendee(ctx, eventID, a); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyAttending):
			return nil, ErrDuplicate
		case errors.Is(err, repository.ErrEventFull):
			return nil, ErrEventFull
		case errors.Is(err, repository.ErrEventNotFound):
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return a, nil
}
