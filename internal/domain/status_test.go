package domain

import (
	"errors"
	"testing"
)

func TestStatusNormalize(t *testing.T) {
	tests := []struct {
		in   Status
		want Status
	}{
		{StatusPending, StatusPending},
		{StatusApproved, StatusApproved},
		{StatusRejected, StatusRejected},
		{StatusCompleted, StatusCompleted},
		{Status("CANCELLED"), StatusRejected},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("Normalize(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestStatusActive(t *testing.T) {
	tests := []struct {
		in   Status
		want bool
	}{
		{StatusPending, true},
		{StatusApproved, true},
		{StatusRejected, false},
		{StatusCompleted, false},
		{Status("CANCELLED"), false},
	}
	for _, tt := range tests {
		if got := tt.in.Active(); got != tt.want {
			t.Errorf("Active(%s) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStatusClosed(t *testing.T) {
	tests := []struct {
		in   Status
		want bool
	}{
		{StatusPending, false},
		{StatusApproved, false},
		{StatusRejected, true},
		{StatusCompleted, true},
		{Status("CANCELLED"), true},
	}
	for _, tt := range tests {
		if got := tt.in.Closed(); got != tt.want {
			t.Errorf("Closed(%s) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseAdminStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    Status
		wantErr bool
	}{
		{"APPROVED", StatusApproved, false},
		{"approved", StatusApproved, false},
		{" Rejected ", StatusRejected, false},
		{"PENDING", "", true},
		{"COMPLETED", "", true},
		{"CANCELLED", "", true},
		{"", "", true},
		{"nonsense", "", true},
	}
	for _, tt := range tests {
		got, err := ParseAdminStatus(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAdminStatus(%q) expected error", tt.raw)
			} else if !errors.Is(err, ErrBadRequest) {
				t.Errorf("ParseAdminStatus(%q) error = %v, want ErrBadRequest", tt.raw, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAdminStatus(%q) unexpected error: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAdminStatus(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}
