package service

import (
	"time"

	"github.com/careslot/appointment-booking-service/internal/domain"
)

// ResolveStatus projects the effective status of an appointment at read
// time. An active appointment whose slot window has fully elapsed reads as
// COMPLETED; the second return value asks the caller to persist that
// transition. Pure function of its inputs, idempotent on anything already
// terminal, and the legacy CANCELLED value normalizes to REJECTED here.
func ResolveStatus(status domain.Status, slotDate, endTime string, now time.Time) (domain.Status, bool) {
	normalized := status.Normalize()
	if !normalized.Active() {
		return normalized, false
	}
	end, err := time.ParseInLocation(dateLayout+" "+timeLayout, slotDate+" "+endTime, now.Location())
	if err != nil {
		// Unparseable slot times never force a transition.
		return normalized, false
	}
	if end.Before(now) {
		return domain.StatusCompleted, true
	}
	return normalized, false
}
