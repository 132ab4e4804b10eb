package models

import (
	"strings"
	"time"
)

// PrayerGroup is a named group whose members share prayer requests.
type PrayerGroup struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Family Prayer Circle").
	Name string `json:"name"`

	// Description may be empty.
	Description string `json:"description"`

	// CreatedBy is the user ID of the creator. Not enforced as a reference.
	CreatedBy string `json:"createdBy"`

	// CreatedAt is set once on creation.
	CreatedAt time.Time `json:"createdAt"`

	// MemberCount is 1 on creation. Nothing increments it today.
	MemberCount int `json:"memberCount"`

	// ImageURL is optional; empty means no image.
	ImageURL string `json:"imageUrl,omitempty"`
}

// NewGroup holds the caller-supplied fields for creating a group.
type NewGroup struct {
	Name        string `validate:"required,max=120"`
	Description string `validate:"max=2000"`
	CreatedBy   string `validate:"required"`
	ImageURL    string `validate:"omitempty,url"`
}

// Clone returns a copy of the group.
func (g *PrayerGroup) Clone() *PrayerGroup {
	if g == nil {
		return nil
	}
	c := *g
	return &c
}

// FilterGroups returns the groups whose name or description contains query,
// ignoring case. A blank query returns groups unchanged.
func FilterGroups(groups []*PrayerGroup, query string) []*PrayerGroup {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return groups
	}

	filtered := make([]*PrayerGroup, 0, len(groups))
	for _, g := range groups {
		if strings.Contains(strings.ToLower(g.Name), query) ||
			strings.Contains(strings.ToLower(g.Description), query) {
			filtered = append(filtered, g)
		}
	}
	return filtered
}
