package models

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestValidateNewGroup(t *testing.T) {
	tests := []struct {
		name    string
		in      NewGroup
		wantErr string
	}{
		{name: "ok", in: NewGroup{Name: "Bible Study", CreatedBy: "u1"}},
		{name: "with image", in: NewGroup{Name: "Bible Study", CreatedBy: "u1", ImageURL: "https://example.com/a.png"}},
		{name: "missing name", in: NewGroup{CreatedBy: "u1"}, wantErr: "Name is required"},
		{name: "bad image", in: NewGroup{Name: "x", CreatedBy: "u1", ImageURL: "not a url"}, wantErr: "ImageURL must be a URL"},
		{name: "name too long", in: NewGroup{Name: strings.Repeat("a", 121), CreatedBy: "u1"}, wantErr: "Name must be at most 120"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.in)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNewPrayerRequest(t *testing.T) {
	end := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	base := NewPrayerRequest{GroupID: "g1", Title: "Exams", CreatedBy: "u1", Type: TypePrayer}

	tests := []struct {
		name    string
		mutate  func(*NewPrayerRequest)
		wantErr string
	}{
		{name: "ok", mutate: func(*NewPrayerRequest) {}},
		{name: "reminder", mutate: func(in *NewPrayerRequest) { in.ReminderTime = strPtr("07:30") }},
		{name: "fast with end date", mutate: func(in *NewPrayerRequest) { in.Type = TypeFast; in.EndDate = &end }},
		{name: "missing title", mutate: func(in *NewPrayerRequest) { in.Title = "" }, wantErr: "Title is required"},
		{name: "unknown type", mutate: func(in *NewPrayerRequest) { in.Type = "vigil" }, wantErr: "Type must be one of"},
		{name: "bad reminder", mutate: func(in *NewPrayerRequest) { in.ReminderTime = strPtr("7:30am") }, wantErr: "ReminderTime must be HH:MM"},
		{name: "end date on prayer", mutate: func(in *NewPrayerRequest) { in.EndDate = &end }, wantErr: "EndDate is only allowed for fasts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			err := Validate(in)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalid) || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateReminder(t *testing.T) {
	if err := ValidateReminder(nil); err != nil {
		t.Errorf("nil reminder: %v", err)
	}
	if err := ValidateReminder(strPtr("21:00")); err != nil {
		t.Errorf("21:00: %v", err)
	}
	if err := ValidateReminder(strPtr("25:00")); !errors.Is(err, ErrInvalid) {
		t.Errorf("25:00: expected ErrInvalid, got %v", err)
	}
}
