package models

import (
	"fmt"
	"slices"
	"time"
)

// RequestType is the kind of a prayer request. It is fixed at creation.
type RequestType string

const (
	TypePrayer      RequestType = "prayer"
	TypeFast        RequestType = "fast"
	TypeNightPrayer RequestType = "nightPrayer"
)

// RequestTypes lists every valid RequestType.
var RequestTypes = []RequestType{TypePrayer, TypeFast, TypeNightPrayer}

// ParseRequestType converts s to a RequestType.
func ParseRequestType(s string) (RequestType, error) {
	for _, t := range RequestTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown request type %q", s)
}

// ReminderLayout is the time-of-day format used for ReminderTime.
const ReminderLayout = "15:04"

// PrayerRequest is an item created within a group and tracked by daily
// participation.
type PrayerRequest struct {
	// ID is the unique identifier for the request (UUID format).
	ID string `json:"id"`

	// GroupID references the owning group. Not validated at creation.
	GroupID string `json:"groupId"`

	Title       string `json:"title"`
	Description string `json:"description"`

	// CreatedBy is the user ID of the creator.
	CreatedBy string `json:"createdBy"`

	// CreatedAt is set once on creation.
	CreatedAt time.Time `json:"createdAt"`

	// Type never changes after creation.
	Type RequestType `json:"type"`

	// ReminderTime is an optional local time of day ("HH:MM").
	ReminderTime *string `json:"reminderTime,omitempty"`

	// EndDate only has meaning when Type is TypeFast.
	EndDate *time.Time `json:"endDate,omitempty"`

	// PrayedToday holds the user IDs that prayed today. Each ID appears at
	// most once; order carries no meaning.
	PrayedToday []string `json:"prayedToday"`
}

// NewPrayerRequest holds the caller-supplied fields for creating a request.
type NewPrayerRequest struct {
	GroupID      string      `validate:"required"`
	Title        string      `validate:"required,max=200"`
	Description  string      `validate:"max=4000"`
	CreatedBy    string      `validate:"required"`
	Type         RequestType `validate:"required,oneof=prayer fast nightPrayer"`
	ReminderTime *string     `validate:"omitempty,reminder"`
	EndDate      *time.Time
}

// HasPrayed reports whether userID is in PrayedToday.
func (r *PrayerRequest) HasPrayed(userID string) bool {
	return slices.Contains(r.PrayedToday, userID)
}

// Clone returns a deep copy of the request.
func (r *PrayerRequest) Clone() *PrayerRequest {
	if r == nil {
		return nil
	}
	c := *r
	c.PrayedToday = make([]string, len(r.PrayedToday))
	copy(c.PrayedToday, r.PrayedToday)
	if r.ReminderTime != nil {
		rt := *r.ReminderTime
		c.ReminderTime = &rt
	}
	if r.EndDate != nil {
		ed := *r.EndDate
		c.EndDate = &ed
	}
	return &c
}

// ValidReminder reports whether s is a well-formed "HH:MM" time of day.
func ValidReminder(s string) bool {
	if len(s) != len(ReminderLayout) {
		return false
	}
	_, err := time.Parse(ReminderLayout, s)
	return err == nil
}
