// Package storage provides abstractions for prayer group persistence.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/oremus/internal/models"
)

// ErrNotFound is returned by mutations whose target does not exist.
// Reads report absence with a nil result instead.
var ErrNotFound = errors.New("not found")

// Repository defines the storage operations for groups and prayer requests.
// This abstraction allows swapping the in-memory mock for SQLite (or
// anything else) without changing the service layer.
//
// Returned entities are always copies; mutating them does not affect the
// store.
type Repository interface {
	// ListGroups returns every group in insertion order.
	ListGroups(ctx context.Context) ([]*models.PrayerGroup, error)

	// GetGroup returns the group with the given ID, or nil if there is none.
	GetGroup(ctx context.Context, id string) (*models.PrayerGroup, error)

	// CreateGroup stores a new group with a fresh ID, CreatedAt set to now
	// and MemberCount 1.
	CreateGroup(ctx context.Context, in models.NewGroup) (*models.PrayerGroup, error)

	// ListPrayerRequests returns the requests of a group in insertion order.
	// The result is empty, not nil, when nothing matches.
	ListPrayerRequests(ctx context.Context, groupID string) ([]*models.PrayerRequest, error)

	// GetPrayerRequest returns the request with the given ID, or nil if
	// there is none.
	GetPrayerRequest(ctx context.Context, id string) (*models.PrayerRequest, error)

	// CreatePrayerRequest stores a new request with a fresh ID, CreatedAt
	// set to now and an empty PrayedToday. GroupID is not checked.
	CreatePrayerRequest(ctx context.Context, in models.NewPrayerRequest) (*models.PrayerRequest, error)

	// TogglePrayedToday adds userID to the request's PrayedToday set, or
	// removes it if present. Returns ErrNotFound for an unknown request.
	TogglePrayedToday(ctx context.Context, requestID, userID string) (*models.PrayerRequest, error)

	// UpdateReminder sets the reminder time, or clears it when reminder is
	// nil. Returns ErrNotFound for an unknown request.
	UpdateReminder(ctx context.Context, requestID string, reminder *string) (*models.PrayerRequest, error)

	// Close releases any resources held by the store.
	Close() error
}
