package repository

import (
	"context"
	"errors"
	"time"

	"reservas/internal/domain"
	"reservas/internal/ledger"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID          int64      `gorm:"column:id;primaryKey"`
	RoomID      int64      `gorm:"column:room_id;index"`
	OwnerID     int64      `gorm:"column:owner_id;index"`
	BatchID     string     `gorm:"column:batch_id;index"`
	EventID     *int64     `gorm:"column:event_id"`
	StartTime   time.Time  `gorm:"column:start_time;index"`
	EndTime     time.Time  `gorm:"column:end_time"`
	Price       float64    `gorm:"column:price"`
	Status      string     `gorm:"column:status"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
	CancelledAt *time.Time `gorm:"column:cancelled_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) domain.Booking {
	return domain.Booking{
		ID:          m.ID,
		RoomID:      m.RoomID,
		OwnerID:     m.OwnerID,
		BatchID:     m.BatchID,
		EventID:     m.EventID,
		StartTime:   m.StartTime,
		EndTime:     m.EndTime,
		Price:       m.Price,
		Status:      domain.BookingStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		CancelledAt: m.CancelledAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:          b.ID,
		RoomID:      b.RoomID,
		OwnerID:     b.OwnerID,
		BatchID:     b.BatchID,
		EventID:     b.EventID,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Price:       b.Price,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		CancelledAt: b.CancelledAt,
	}
}

// LoadActive returns non-cancelled bookings for the room ordered by start
// time, the order the ledger's conflict scan relies on.
func (r *BookingRepository) LoadActive(ctx context.Context, roomID int64) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("room_id = ? AND status <> ?", roomID, string(domain.BookingCancelled)).
		Order("start_time ASC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainBooking(m))
	}
	return out, nil
}

// CommitBatch inserts the whole batch inside one transaction.
func (r *BookingRepository) CommitBatch(ctx context.Context, bookings []*domain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, b := range bookings {
			m := toBookingModel(b)
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
			*b = toDomainBooking(m)
		}
		return nil
	})
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrBookingNotFound
		}
		return nil, tx.Error
	}
	b := toDomainBooking(m)
	return &b, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, cancelledAt *time.Time) error {
	updates := map[string]any{
		"status":     string(status),
		"updated_at": time.Now(),
	}
	if cancelledAt != nil {
		updates["cancelled_at"] = *cancelledAt
	}
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ledger.ErrBookingNotFound
	}
	return nil
}

// OwnerBookingDetails joins the room name onto a booking row for listings.
type OwnerBookingDetails struct {
	ID        int64     `gorm:"column:id"`
	RoomID    int64     `gorm:"column:room_id"`
	RoomName  string    `gorm:"column:room_name"`
	BatchID   string    `gorm:"column:batch_id"`
	StartTime time.Time `gorm:"column:start_time"`
	EndTime   time.Time `gorm:"column:end_time"`
	Price     float64   `gorm:"column:price"`
	Status    string    `gorm:"column:status"`
}

func (r *BookingRepository) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]OwnerBookingDetails, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var rows []OwnerBookingDetails
	tx := r.db.WithContext(ctx).
		Table("bookings b").
		Select("b.id, b.room_id, r.name AS room_name, b.batch_id, b.start_time, b.end_time, b.price, b.status").
		Joins("JOIN rooms r ON r.id = b.room_id").
		Where("b.owner_id = ?", ownerID).
		Order("b.start_time DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

// BusySlot is an occupied interval used by the catalog's free-slot preview.
type BusySlot struct {
	Start time.Time `gorm:"column:start_time"`
	End   time.Time `gorm:"column:end_time"`
}

func (r *BookingRepository) BusySlots(ctx context.Context, roomID int64, from, to time.Time) ([]BusySlot, error) {
	var rows []BusySlot
	tx := r.db.WithContext(ctx).
		Table("bookings").
		Select("start_time, end_time").
		Where("room_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
			roomID, string(domain.BookingCancelled), to, from).
		Order("start_time ASC").
		Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}
