// Package remote implements storage.Repository against an Oremus API server.
//
// The server acts as the user identified by the API token, so CreatedBy in
// creation inputs and the userID passed to TogglePrayedToday must belong to
// that user; the server ignores them otherwise.
package remote

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/mmynk/oremus/internal/models"
	"github.com/mmynk/oremus/internal/storage"
	"github.com/mmynk/oremus/pkg/api"
	"github.com/mmynk/oremus/pkg/api/apiconnect"
)

// TokenSource returns the API token to send with each call.
type TokenSource func(ctx context.Context) (string, error)

// Store is a Repository backed by the GroupService and PrayerService.
type Store struct {
	groups  apiconnect.GroupServiceClient
	prayers apiconnect.PrayerServiceClient
	logger  *slog.Logger
}

var _ storage.Repository = (*Store)(nil)

// New returns a Store talking to the server at baseURL.
func New(httpClient connect.HTTPClient, baseURL string, token TokenSource, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	opts := connect.WithInterceptors(bearer(token))
	return &Store{
		groups:  apiconnect.NewGroupServiceClient(httpClient, baseURL, opts),
		prayers: apiconnect.NewPrayerServiceClient(httpClient, baseURL, opts),
		logger:  logger,
	}
}

// bearer attaches the API token to outgoing requests.
func bearer(token TokenSource) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if req.Spec().IsClient {
				t, err := token(ctx)
				if err != nil {
					return nil, fmt.Errorf("failed to get API token: %w", err)
				}
				req.Header().Set("Authorization", "Bearer "+t)
			}
			return next(ctx, req)
		}
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) ListGroups(ctx context.Context) ([]*models.PrayerGroup, error) {
	resp, err := s.groups.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	out := make([]*models.PrayerGroup, 0, len(resp.Msg.Groups))
	for _, g := range resp.Msg.Groups {
		out = append(out, fromAPIGroup(g))
	}
	return out, nil
}

func (s *Store) GetGroup(ctx context.Context, id string) (*models.PrayerGroup, error) {
	resp, err := s.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: id}))
	if connect.CodeOf(err) == connect.CodeNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return fromAPIGroup(resp.Msg.Group), nil
}

func (s *Store) CreateGroup(ctx context.Context, in models.NewGroup) (*models.PrayerGroup, error) {
	resp, err := s.groups.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return fromAPIGroup(resp.Msg.Group), nil
}

func (s *Store) ListPrayerRequests(ctx context.Context, groupID string) ([]*models.PrayerRequest, error) {
	resp, err := s.prayers.ListPrayerRequests(ctx, connect.NewRequest(&api.ListPrayerRequestsRequest{GroupID: groupID}))
	if err != nil {
		return nil, fmt.Errorf("failed to list prayer requests: %w", err)
	}
	out := make([]*models.PrayerRequest, 0, len(resp.Msg.Requests))
	for _, r := range resp.Msg.Requests {
		out = append(out, fromAPIPrayerRequest(r))
	}
	return out, nil
}

func (s *Store) GetPrayerRequest(ctx context.Context, id string) (*models.PrayerRequest, error) {
	resp, err := s.prayers.GetPrayerRequest(ctx, connect.NewRequest(&api.GetPrayerRequestRequest{ID: id}))
	if connect.CodeOf(err) == connect.CodeNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prayer request: %w", err)
	}
	return fromAPIPrayerRequest(resp.Msg.Request), nil
}

func (s *Store) CreatePrayerRequest(ctx context.Context, in models.NewPrayerRequest) (*models.PrayerRequest, error) {
	msg := &api.CreatePrayerRequestRequest{
		GroupID:      in.GroupID,
		Title:        in.Title,
		Description:  in.Description,
		Type:         string(in.Type),
		ReminderTime: in.ReminderTime,
	}
	if in.EndDate != nil {
		msg.EndDate = timestamppb.New(*in.EndDate)
	}

	resp, err := s.prayers.CreatePrayerRequest(ctx, connect.NewRequest(msg))
	if err != nil {
		return nil, fmt.Errorf("failed to create prayer request: %w", err)
	}
	return fromAPIPrayerRequest(resp.Msg.Request), nil
}

func (s *Store) TogglePrayedToday(ctx context.Context, requestID, userID string) (*models.PrayerRequest, error) {
	resp, err := s.prayers.TogglePrayedToday(ctx, connect.NewRequest(&api.TogglePrayedTodayRequest{ID: requestID}))
	if err != nil {
		return nil, mutationError(requestID, err)
	}
	r := fromAPIPrayerRequest(resp.Msg.Request)
	s.logger.Debug("Toggled prayed today", "request_id", requestID, "user_id", userID, "prayed", r.HasPrayed(userID))
	return r, nil
}

func (s *Store) UpdateReminder(ctx context.Context, requestID string, reminder *string) (*models.PrayerRequest, error) {
	resp, err := s.prayers.UpdateReminder(ctx, connect.NewRequest(&api.UpdateReminderRequest{
		ID:           requestID,
		ReminderTime: reminder,
	}))
	if err != nil {
		return nil, mutationError(requestID, err)
	}
	return fromAPIPrayerRequest(resp.Msg.Request), nil
}

func mutationError(requestID string, err error) error {
	if connect.CodeOf(err) == connect.CodeNotFound {
		return fmt.Errorf("prayer request %s: %w", requestID, storage.ErrNotFound)
	}
	return fmt.Errorf("prayer request %s: %w", requestID, err)
}

func asTime(ts *timestamppb.Timestamp) time.Time {
	if ts == nil {
		return time.Time{}
	}
	return ts.AsTime().In(time.Local)
}

func fromAPIGroup(g *api.Group) *models.PrayerGroup {
	return &models.PrayerGroup{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedBy:   g.CreatedBy,
		CreatedAt:   asTime(g.CreatedAt),
		MemberCount: int(g.MemberCount),
		ImageURL:    g.ImageURL,
	}
}

func fromAPIPrayerRequest(r *api.PrayerRequest) *models.PrayerRequest {
	out := &models.PrayerRequest{
		ID:           r.ID,
		GroupID:      r.GroupID,
		Title:        r.Title,
		Description:  r.Description,
		CreatedBy:    r.CreatedBy,
		CreatedAt:    asTime(r.CreatedAt),
		Type:         models.RequestType(r.Type),
		ReminderTime: r.ReminderTime,
		PrayedToday:  r.PrayedToday,
	}
	if r.EndDate != nil {
		end := asTime(r.EndDate)
		out.EndDate = &end
	}
	if out.PrayedToday == nil {
		out.PrayedToday = []string{}
	}
	return out
}
