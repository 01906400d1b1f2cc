package booking

import (
	"errors"
	"fmt"

	"reservas/internal/schedule"
)

var (
	ErrRoomNotFound = errors.New("booking: room not found")
	ErrForbidden    = errors.New("booking: operation not permitted")
)

// Reason classifies why a booking request was rejected.
type Reason string

const (
	ReasonInvalidWindow        Reason = "invalid_window"
	ReasonCrossesMidnight      Reason = "crosses_midnight"
	ReasonInvalidRecurrence    Reason = "invalid_recurrence"
	ReasonAvailabilityViolated Reason = "availability_violation"
	ReasonSchedulingConflict   Reason = "scheduling_conflict"
)

// Rejection is the structured failure result of a booking request. Windows
// lists every offending window, not just the first, so the caller can reshape
// the request in one round trip. Retryable is set only for scheduling
// conflicts; every other reason needs a corrected request.
type Rejection struct {
	Reason      Reason            `json:"reason"`
	Message     string            `json:"message"`
	Windows     []schedule.Window `json:"windows,omitempty"`
	ConflictIDs []int64           `json:"conflicting_booking_ids,omitempty"`
	Retryable   bool              `json:"retryable"`
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("booking rejected (%s): %s", r.Reason, r.Message)
}

func reject(reason Reason, msg string) *Rejection {
	return &Rejection{
		Reason:    reason,
		Message:   msg,
		Retryable: reason == ReasonSchedulingConflict,
	}
}
