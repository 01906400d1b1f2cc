package catalog

import (
	"context"
	"errors"
	"sort"
	"time"

	"reservas/internal/domain"
	"reservas/internal/pkg/validator"
	"reservas/internal/repository"
	"reservas/internal/schedule"
)

var (
	ErrValidation   = errors.New("catalog: validation error")
	ErrRoomNotFound = errors.New("catalog: room not found")
)

type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	ListByOrganization(ctx context.Context, organizationID int64) ([]domain.Room, error)
	Create(ctx context.Context, room *domain.Room) error
	Update(ctx context.Context, room *domain.Room) error
}

type BusySlotSource interface {
	BusySlots(ctx context.Context, roomID int64, from, to time.Time) ([]repository.BusySlot, error)
}

type Service struct {
	rooms RoomRepository
	busy  BusySlotSource
}

func NewService(rooms RoomRepository, busy BusySlotSource) *Service {
	return &Service{rooms: rooms, busy: busy}
}

func (s *Service) ListRooms(ctx context.Context, organizationID int64) ([]domain.Room, error) {
	return s.rooms.ListByOrganization(ctx, organizationID)
}

func (s *Service) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

func (s *Service) CreateRoom(ctx context.Context, room *domain.Room) error {
	if errs := validator.Validate(room); errs != nil {
		return ErrValidation
	}
	// Reject rooms whose availability would be unusable for booking requests.
	if _, err := schedule.NewRule(room.Availability.Days, room.Availability.StartTime, room.Availability.EndTime); err != nil {
		return ErrValidation
	}
	room.IsActive = true
	return s.rooms.Create(ctx, room)
}

// TimeSlot is a free interval within a room's operating hours.
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// FreeSlots returns the unbooked intervals of a room on the given date
// ("2006-01-02"). The room's daily rule window minus its busy slots.
func (s *Service) FreeSlots(ctx context.Context, roomID int64, dateStr string) ([]TimeSlot, error) {
	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, ErrValidation
	}

	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	open, close, ok := openCloseFor(room.Availability, day)
	if !ok {
		return []TimeSlot{}, nil
	}

	busyRows, err := s.busy.BusySlots(ctx, roomID, open, close)
	if err != nil {
		return nil, err
	}
	busy := make([]TimeSlot, 0, len(busyRows))
	for _, b := range busyRows {
		busy = append(busy, TimeSlot{Start: b.Start, End: b.End})
	}
	return subtractBusy(open, close, busy), nil
}

func openCloseFor(av domain.Availability, day time.Time) (time.Time, time.Time, bool) {
	allowed := false
	for _, d := range av.Days {
		if time.Weekday(d) == day.Weekday() {
			allowed = true
			break
		}
	}
	if !allowed {
		return time.Time{}, time.Time{}, false
	}

	open, err := atTimeOfDay(day, av.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	close, err := atTimeOfDay(day, av.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	if !close.After(open) {
		return time.Time{}, time.Time{}, false
	}
	return open, close, true
}

func atTimeOfDay(day time.Time, hhmm string) (time.Time, error) {
	if hhmm == "24:00" {
		return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1), nil
	}
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

// subtractBusy merges the busy intervals and returns the gaps inside
// [open, close).
func subtractBusy(open, close time.Time, busy []TimeSlot) []TimeSlot {
	if len(busy) == 0 {
		return []TimeSlot{{Start: open, End: close}}
	}

	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })

	merged := make([]TimeSlot, 0, len(busy))
	for _, b := range busy {
		if b.End.Before(open) || !b.Start.Before(close) {
			continue
		}
		if b.Start.Before(open) {
			b.Start = open
		}
		if b.End.After(close) {
			b.End = close
		}
		if !b.End.After(b.Start) {
			continue
		}
		if len(merged) == 0 {
			merged = append(merged, b)
			continue
		}
		last := merged[len(merged)-1]
		if !b.Start.After(last.End) {
			if b.End.After(last.End) {
				last.End = b.End
				merged[len(merged)-1] = last
			}
		} else {
			merged = append(merged, b)
		}
	}

	cur := open
	out := make([]TimeSlot, 0)
	for _, b := range merged {
		if b.Start.After(cur) {
			out = append(out, TimeSlot{Start: cur, End: b.Start})
		}
		if b.End.After(cur) {
			cur = b.End
		}
		if !cur.Before(close) {
			break
		}
	}
	if cur.Before(close) {
		out = append(out, TimeSlot{Start: cur, End: close})
	}
	return out
}
