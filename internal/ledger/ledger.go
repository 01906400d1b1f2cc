package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"reservas/internal/domain"
	"reservas/internal/schedule"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrBookingNotFound   = errors.New("ledger: booking not found")
	ErrInvalidTransition = errors.New("ledger: invalid status transition")
)

// ConflictError reports the windows that could not be reserved and the active
// bookings they collide with. A timed-out lock acquisition is reported the
// same way: contention is a retryable conflict, not a crash.
type ConflictError struct {
	Windows    []schedule.Window
	BookingIDs []int64
	LockWait   bool
}

func (e *ConflictError) Error() string {
	if e.LockWait {
		return "ledger: room lock wait timed out"
	}
	return fmt.Sprintf("ledger: %d window(s) conflict with bookings %v", len(e.Windows), e.BookingIDs)
}

// Store is the persistence boundary for booking rows. LoadActive must return
// non-cancelled bookings ordered by start time; CommitBatch must persist the
// whole batch in a single transaction or none of it; GetByID reports unknown
// ids as ErrBookingNotFound.
type Store interface {
	LoadActive(ctx context.Context, roomID int64) ([]domain.Booking, error)
	CommitBatch(ctx context.Context, bookings []*domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, cancelledAt *time.Time) error
}

// Ledger is the authoritative record of active bookings per room and the only
// writer of booking rows. Reserve serializes per room: concurrent requests for
// different rooms never block each other.
type Ledger struct {
	store    Store
	lockWait time.Duration

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

const defaultLockWait = 2 * time.Second

func New(store Store, lockWait time.Duration) *Ledger {
	if lockWait <= 0 {
		lockWait = defaultLockWait
	}
	return &Ledger{
		store:    store,
		lockWait: lockWait,
		locks:    make(map[int64]*sync.Mutex),
	}
}

func (l *Ledger) roomLock(roomID int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	mu, ok := l.locks[roomID]
	if !ok {
		mu = &sync.Mutex{}
		l.locks[roomID] = mu
	}
	return mu
}

// acquire takes the per-room lock with a bounded wait.
func (l *Ledger) acquire(ctx context.Context, roomID int64) (func(), error) {
	mu := l.roomLock(roomID)
	deadline := time.Now().Add(l.lockWait)
	for {
		if mu.TryLock() {
			return mu.Unlock, nil
		}
		if time.Now().After(deadline) {
			return nil, &ConflictError{LockWait: true}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
	}
}

// FindConflicts returns the active bookings whose window overlaps the given
// one. The store hands rows back ordered by start, so the scan stops once a
// candidate starts at or after the window's end.
func (l *Ledger) FindConflicts(ctx context.Context, roomID int64, w schedule.Window) ([]domain.Booking, error) {
	active, err := l.store.LoadActive(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return overlapping(active, w), nil
}

// selfOverlap returns the first pair of windows within a batch that overlap
// each other, or nil. A batch must not conflict with itself any more than with
// stored bookings.
func selfOverlap(windows []schedule.Window) []schedule.Window {
	sorted := make([]schedule.Window, len(windows))
	copy(sorted, windows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Start.Before(sorted[i-1].End) {
			return []schedule.Window{sorted[i-1], sorted[i]}
		}
	}
	return nil
}

func overlapping(sorted []domain.Booking, w schedule.Window) []domain.Booking {
	var out []domain.Booking
	for _, b := range sorted {
		if !b.StartTime.Before(w.End) {
			break
		}
		if w.Start.Before(b.EndTime) {
			out = append(out, b)
		}
	}
	return out
}

// Reserve commits one booking per window, all or nothing. Conflicts are
// re-checked under the per-room lock, closing the race between an advisory
// validation pass and commit. Every booking in the batch shares batchID and
// starts out pending.
func (l *Ledger) Reserve(ctx context.Context, roomID, ownerID int64, windows []schedule.Window, prices []float64, batchID string, eventID *int64) ([]*domain.Booking, error) {
	if len(windows) == 0 || len(windows) != len(prices) {
		return nil, fmt.Errorf("ledger: window/price count mismatch")
	}
	if pair := selfOverlap(windows); pair != nil {
		return nil, &ConflictError{Windows: pair}
	}

	release, err := l.acquire(ctx, roomID)
	if err != nil {
		return nil, err
	}
	defer release()

	active, err := l.store.LoadActive(ctx, roomID)
	if err != nil {
		return nil, err
	}

	conflict := &ConflictError{}
	for _, w := range windows {
		hits := overlapping(active, w)
		if len(hits) > 0 {
			conflict.Windows = append(conflict.Windows, w)
			for _, b := range hits {
				conflict.BookingIDs = append(conflict.BookingIDs, b.ID)
			}
		}
	}
	if len(conflict.Windows) > 0 {
		return nil, conflict
	}

	batch := make([]*domain.Booking, 0, len(windows))
	for i, w := range windows {
		batch = append(batch, &domain.Booking{
			RoomID:    roomID,
			OwnerID:   ownerID,
			BatchID:   batchID,
			EventID:   eventID,
			StartTime: w.Start,
			EndTime:   w.End,
			Price:     prices[i],
			Status:    domain.BookingPending,
		})
	}

	if err := l.store.CommitBatch(ctx, batch); err != nil {
		// Postgres backstop: the no-overbooking exclusion constraint turns a
		// lost race at the database into a retryable conflict.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && (pgErr.Code == "23P01" || pgErr.Code == "23505") {
			return nil, &ConflictError{Windows: windows}
		}
		return nil, err
	}
	return batch, nil
}

// Confirm transitions a pending booking to confirmed.
func (l *Ledger) Confirm(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	b, err := l.store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	release, err := l.acquire(ctx, b.RoomID)
	if err != nil {
		return nil, err
	}
	defer release()

	// the status may have moved between the lookup and the lock
	b, err = l.store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BookingPending {
		return nil, ErrInvalidTransition
	}
	if err := l.store.UpdateStatus(ctx, bookingID, domain.BookingConfirmed, nil); err != nil {
		return nil, err
	}
	return l.store.GetByID(ctx, bookingID)
}

// Cancel soft-deletes a booking: the row stays for history but no longer
// occupies its window. It takes the same per-room lock as Reserve, so a
// cancel racing a reserve resolves by commit order.
func (l *Ledger) Cancel(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	b, err := l.store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	release, err := l.acquire(ctx, b.RoomID)
	if err != nil {
		return nil, err
	}
	defer release()

	b, err = l.store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status == domain.BookingCancelled {
		return nil, ErrInvalidTransition
	}
	now := time.Now()
	if err := l.store.UpdateStatus(ctx, bookingID, domain.BookingCancelled, &now); err != nil {
		return nil, err
	}
	return l.store.GetByID(ctx, bookingID)
}
