package service

import (
	"testing"
	"time"

	"github.com/careslot/appointment-booking-service/internal/domain"
)

func TestResolveStatus(t *testing.T) {
	now := time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		status      domain.Status
		slotDate    string
		endTime     string
		want        domain.Status
		wantPersist bool
	}{
		{"pending past day", domain.StatusPending, "2030-06-14", "10:30", domain.StatusCompleted, true},
		{"approved past day", domain.StatusApproved, "2030-06-14", "10:30", domain.StatusCompleted, true},
		{"pending earlier today", domain.StatusPending, "2030-06-15", "11:30", domain.StatusCompleted, true},
		{"pending later today", domain.StatusPending, "2030-06-15", "14:30", domain.StatusPending, false},
		{"approved future day", domain.StatusApproved, "2030-06-16", "09:30", domain.StatusApproved, false},
		{"rejected past stays rejected", domain.StatusRejected, "2030-06-14", "10:30", domain.StatusRejected, false},
		{"completed is a no-op", domain.StatusCompleted, "2030-06-14", "10:30", domain.StatusCompleted, false},
		{"legacy cancelled reads as rejected", domain.Status("CANCELLED"), "2030-06-14", "10:30", domain.StatusRejected, false},
		{"garbage slot times never transition", domain.StatusPending, "not-a-date", "10:30", domain.StatusPending, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, persist := ResolveStatus(tt.status, tt.slotDate, tt.endTime, now)
			if got != tt.want || persist != tt.wantPersist {
				t.Errorf("ResolveStatus(%s, %s, %s) = (%s, %v), want (%s, %v)",
					tt.status, tt.slotDate, tt.endTime, got, persist, tt.want, tt.wantPersist)
			}
		})
	}
}

func TestResolveStatusIdempotent(t *testing.T) {
	now := time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)

	first, persist := ResolveStatus(domain.StatusApproved, "2030-06-10", "09:30", now)
	if first != domain.StatusCompleted || !persist {
		t.Fatalf("first resolve = (%s, %v), want (COMPLETED, true)", first, persist)
	}
	second, persist := ResolveStatus(first, "2030-06-10", "09:30", now)
	if second != domain.StatusCompleted || persist {
		t.Fatalf("second resolve = (%s, %v), want (COMPLETED, false)", second, persist)
	}
}
