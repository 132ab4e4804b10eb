package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/oremus/internal/models"
	"github.com/mmynk/oremus/internal/storage"
	"github.com/mmynk/oremus/pkg/api"
	"github.com/mmynk/oremus/pkg/api/apiconnect"
)

// PrayerService implements the Connect PrayerService.
type PrayerService struct {
	repo   storage.Repository
	logger *slog.Logger
}

var _ apiconnect.PrayerServiceHandler = (*PrayerService)(nil)

// NewPrayerService creates a new PrayerService with the given storage backend.
func NewPrayerService(repo storage.Repository, logger *slog.Logger) *PrayerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PrayerService{repo: repo, logger: logger}
}

// ListPrayerRequests returns the requests of one group. Unknown groups have
// no requests.
func (s *PrayerService) ListPrayerRequests(ctx context.Context, req *connect.Request[api.ListPrayerRequestsRequest]) (*connect.Response[api.ListPrayerRequestsResponse], error) {
	requests, err := s.repo.ListPrayerRequests(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("ListPrayerRequests failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.PrayerRequest, 0, len(requests))
	for _, r := range requests {
		out = append(out, toAPIPrayerRequest(r))
	}
	return connect.NewResponse(&api.ListPrayerRequestsResponse{Requests: out}), nil
}

// GetPrayerRequest retrieves a request by ID.
func (s *PrayerService) GetPrayerRequest(ctx context.Context, req *connect.Request[api.GetPrayerRequestRequest]) (*connect.Response[api.GetPrayerRequestResponse], error) {
	request, err := s.repo.GetPrayerRequest(ctx, req.Msg.ID)
	if err != nil {
		s.logger.Error("GetPrayerRequest failed", "request_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	if request == nil {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("prayer request %s: %w", req.Msg.ID, storage.ErrNotFound))
	}
	return connect.NewResponse(&api.GetPrayerRequestResponse{Request: toAPIPrayerRequest(request)}), nil
}

// CreatePrayerRequest posts a request to a group on behalf of the caller.
func (s *PrayerService) CreatePrayerRequest(ctx context.Context, req *connect.Request[api.CreatePrayerRequestRequest]) (*connect.Response[api.CreatePrayerRequestResponse], error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	in := models.NewPrayerRequest{
		GroupID:      req.Msg.GroupID,
		Title:        req.Msg.Title,
		Description:  req.Msg.Description,
		CreatedBy:    userID,
		Type:         models.RequestType(req.Msg.Type),
		ReminderTime: req.Msg.ReminderTime,
	}
	if req.Msg.EndDate != nil {
		end := req.Msg.EndDate.AsTime().In(time.Local)
		in.EndDate = &end
	}
	if err := models.Validate(in); err != nil {
		return nil, toConnectError(err)
	}

	request, err := s.repo.CreatePrayerRequest(ctx, in)
	if err != nil {
		s.logger.Error("CreatePrayerRequest failed", "group_id", in.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Prayer request created", "request_id", request.ID, "group_id", request.GroupID, "type", request.Type)
	return connect.NewResponse(&api.CreatePrayerRequestResponse{Request: toAPIPrayerRequest(request)}), nil
}

// TogglePrayedToday flips the caller's "prayed today" mark on a request.
func (s *PrayerService) TogglePrayedToday(ctx context.Context, req *connect.Request[api.TogglePrayedTodayRequest]) (*connect.Response[api.TogglePrayedTodayResponse], error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	request, err := s.repo.TogglePrayedToday(ctx, req.Msg.ID, userID)
	if err != nil {
		s.logger.Warn("TogglePrayedToday failed", "request_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Prayed today toggled", "request_id", request.ID, "user_id", userID, "prayed", request.HasPrayed(userID))
	return connect.NewResponse(&api.TogglePrayedTodayResponse{Request: toAPIPrayerRequest(request)}), nil
}

// UpdateReminder sets or clears a request's reminder time.
func (s *PrayerService) UpdateReminder(ctx context.Context, req *connect.Request[api.UpdateReminderRequest]) (*connect.Response[api.UpdateReminderResponse], error) {
	if err := models.ValidateReminder(req.Msg.ReminderTime); err != nil {
		return nil, toConnectError(err)
	}

	request, err := s.repo.UpdateReminder(ctx, req.Msg.ID, req.Msg.ReminderTime)
	if err != nil {
		s.logger.Warn("UpdateReminder failed", "request_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.UpdateReminderResponse{Request: toAPIPrayerRequest(request)}), nil
}
