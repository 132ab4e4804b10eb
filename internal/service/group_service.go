package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/oremus/internal/models"
	"github.com/mmynk/oremus/internal/storage"
	"github.com/mmynk/oremus/pkg/api"
	"github.com/mmynk/oremus/pkg/api/apiconnect"
)

// GroupService implements the Connect GroupService.
type GroupService struct {
	repo   storage.Repository
	logger *slog.Logger
}

var _ apiconnect.GroupServiceHandler = (*GroupService)(nil)

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(repo storage.Repository, logger *slog.Logger) *GroupService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GroupService{repo: repo, logger: logger}
}

// ListGroups returns every group, narrowed by the optional search query.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	groups, err := s.repo.ListGroups(ctx)
	if err != nil {
		s.logger.Error("ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	groups = models.FilterGroups(groups, req.Msg.Query)
	out := make([]*api.Group, 0, len(groups))
	for _, g := range groups {
		out = append(out, toAPIGroup(g))
	}

	s.logger.Debug("ListGroups successful", "count", len(out), "query", req.Msg.Query)
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	group, err := s.repo.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}
	if group == nil {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("group %s: %w", req.Msg.GroupID, storage.ErrNotFound))
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// CreateGroup creates a new group owned by the caller.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	in := models.NewGroup{
		Name:        req.Msg.Name,
		Description: req.Msg.Description,
		CreatedBy:   userID,
		ImageURL:    req.Msg.ImageURL,
	}
	if err := models.Validate(in); err != nil {
		return nil, toConnectError(err)
	}

	group, err := s.repo.CreateGroup(ctx, in)
	if err != nil {
		s.logger.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Group created", "group_id", group.ID, "created_by", userID)
	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}
