// Package service implements the oremus.v1 Connect services on top of a
// storage.Repository.
package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/mmynk/oremus/internal/auth"
	"github.com/mmynk/oremus/internal/middleware"
	"github.com/mmynk/oremus/internal/models"
	"github.com/mmynk/oremus/internal/storage"
	"github.com/mmynk/oremus/pkg/api"
)

// toConnectError maps domain errors onto Connect codes.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return connectErr
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, models.ErrInvalid):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingToken):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// currentUserID returns the authenticated caller, set by middleware.RequireAuth.
func currentUserID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

func toAPIUser(u *models.User) *api.User {
	if u == nil {
		return nil
	}
	return &api.User{ID: u.ID, Name: u.Name, Email: u.Email, PhotoURL: u.PhotoURL}
}

func toAPIGroup(g *models.PrayerGroup) *api.Group {
	return &api.Group{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedBy:   g.CreatedBy,
		CreatedAt:   timestamppb.New(g.CreatedAt),
		MemberCount: int32(g.MemberCount),
		ImageURL:    g.ImageURL,
	}
}

func toAPIPrayerRequest(r *models.PrayerRequest) *api.PrayerRequest {
	out := &api.PrayerRequest{
		ID:           r.ID,
		GroupID:      r.GroupID,
		Title:        r.Title,
		Description:  r.Description,
		CreatedBy:    r.CreatedBy,
		CreatedAt:    timestamppb.New(r.CreatedAt),
		Type:         string(r.Type),
		ReminderTime: r.ReminderTime,
		PrayedToday:  r.PrayedToday,
	}
	if r.EndDate != nil {
		out.EndDate = timestamppb.New(*r.EndDate)
	}
	if out.PrayedToday == nil {
		out.PrayedToday = []string{}
	}
	return out
}
