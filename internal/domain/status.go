package domain

import (
	"fmt"
	"strings"
)

// Status is the appointment lifecycle state. Transitions:
// book creates PENDING; admin moves PENDING to APPROVED or REJECTED; the
// owner may cancel to REJECTED; reschedule resets to PENDING; once the
// slot window has elapsed an active appointment reads as COMPLETED.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCompleted Status = "COMPLETED"

	// statusLegacyCancelled survives in rows written before the enum
	// dropped CANCELLED. It is migrated at startup and normalized on
	// read, never written again.
	statusLegacyCancelled Status = "CANCELLED"
)

// Normalize maps the legacy CANCELLED value onto REJECTED and returns
// every current value unchanged.
func (s Status) Normalize() Status {
	if s == statusLegacyCancelled {
		return StatusRejected
	}
	return s
}

// Active reports whether the appointment currently occupies its slot.
func (s Status) Active() bool {
	n := s.Normalize()
	return n == StatusPending || n == StatusApproved
}

// Closed reports whether the appointment can no longer be rescheduled.
func (s Status) Closed() bool {
	n := s.Normalize()
	return n == StatusRejected || n == StatusCompleted
}

// ActiveStatuses are the states under which an appointment counts as the
// occupant of its slot.
func ActiveStatuses() []Status {
	return []Status{StatusPending, StatusApproved}
}

// ParseAdminStatus decodes an admin status-update value. Only APPROVED and
// REJECTED are admissible; matching is case-insensitive at this boundary
// and nothing else reaches the state machine.
func ParseAdminStatus(raw string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusApproved:
		return StatusApproved, nil
	case StatusRejected:
		return StatusRejected, nil
	default:
		return "", fmt.Errorf("%w: status must be APPROVED or REJECTED", ErrBadRequest)
	}
}
