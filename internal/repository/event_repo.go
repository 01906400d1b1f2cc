package repository

import (
	"context"
	"errors"

	"reservas/internal/domain"

	"gorm.io/gorm"
)

var (
	ErrEventNotFound    = errors.New("repository: event not found")
	ErrAlreadyAttending = errors.New("repository: attendee already registered")
	ErrEventFull        = errors.New("repository: event is full")
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, e *domain.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	var e domain.Event
	tx := r.db.WithContext(ctx).Preload("Attendees").First(&e, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, tx.Error
	}
	return &e, nil
}

func (r *EventRepository) GetByPublicLink(ctx context.Context, link string) (*domain.Event, error) {
	var e domain.Event
	tx := r.db.WithContext(ctx).Preload("Attendees").Where("public_link = ?", link).First(&e)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, tx.Error
	}
	return &e, nil
}

// ListPublic returns confirmed public events, soonest first.
func (r *EventRepository) ListPublic(ctx context.Context, organizationID int64) ([]domain.Event, error) {
	var events []domain.Event
	q := r.db.WithContext(ctx).
		Where("is_public = ? AND status = ?", true, string(domain.EventConfirmed))
	if organizationID > 0 {
		q = q.Where("organization_id = ?", organizationID)
	}
	tx := q.Order("start_time ASC").Find(&events)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return events, nil
}

func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID int64) ([]domain.Event, error) {
	var events []domain.Event
	tx := r.db.WithContext(ctx).
		Where("organizer_id = ?", organizerID).
		Order("start_time DESC").
		Find(&events)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return events, nil
}

func (r *EventRepository) UpdateStatus(ctx context.Context, id int64, status domain.EventStatus) error {
	tx := r.db.WithContext(ctx).Model(&domain.Event{}).Where("id = ?", id).
		Update("status", string(status))
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

// AddAttendee registers one attendee, guarding the max-attendee cap and the
// duplicate email inside a single transaction.
func (r *EventRepository) AddAttendee(ctx context.Context, eventID int64, a *domain.Attendee) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e domain.Event
		if err := tx.First(&e, eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		var existing int64
		if err := tx.Model(&domain.Attendee{}).
			Where("event_id = ? AND email = ? AND status <> ?", eventID, a.Email, string(domain.AttendeeCancelled)).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyAttending
		}

		if e.MaxAttendees > 0 {
			var count int64
			if err := tx.Model(&domain.Attendee{}).
				Where("event_id = ? AND status <> ?", eventID, string(domain.AttendeeCancelled)).
				Count(&count).Error; err != nil {
				return err
			}
			if count >= int64(e.MaxAttendees) {
				return ErrEventFull
			}
		}

		a.EventID = eventID
		return tx.Create(a).Error
	})
}

func (r *EventRepository) ListRegistrations(ctx context.Context, userID int64) ([]domain.Attendee, error) {
	var rows []domain.Attendee
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}
