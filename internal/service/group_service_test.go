package service

import (
	"context"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/oremus/internal/storage/sqlite"
	"github.com/mmynk/oremus/pkg/api"
)

func TestCreateGroup(t *testing.T) {
	ts := newMemoryServer(t)

	resp, err := ts.groups.CreateGroup(context.Background(), authed(t, ts, alice, &api.CreateGroupRequest{
		Name:        "Bible Study",
		Description: "Weekly study",
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	g := resp.Msg.Group
	if g.ID == "" {
		t.Error("expected non-empty group ID")
	}
	if g.Name != "Bible Study" {
		t.Errorf("name: expected 'Bible Study', got '%s'", g.Name)
	}
	if g.CreatedBy != alice.ID {
		t.Errorf("created_by: expected %q, got %q", alice.ID, g.CreatedBy)
	}
	if g.MemberCount != 1 {
		t.Errorf("member_count: expected 1, got %d", g.MemberCount)
	}
	if g.CreatedAt == nil || g.CreatedAt.AsTime().IsZero() {
		t.Error("expected non-zero CreatedAt")
	}
}

func TestCreateGroup_Validation(t *testing.T) {
	ts := newMemoryServer(t)

	tests := []struct {
		name string
		req  *api.CreateGroupRequest
	}{
		{name: "empty name", req: &api.CreateGroupRequest{Description: "no name"}},
		{name: "bad image url", req: &api.CreateGroupRequest{Name: "x", ImageURL: "not a url"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.groups.CreateGroup(context.Background(), authed(t, ts, alice, tt.req))
			expectCode(t, err, connect.CodeInvalidArgument)
		})
	}

	list, err := ts.groups.ListGroups(context.Background(), authed(t, ts, alice, &api.ListGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(list.Msg.Groups) != 0 {
		t.Errorf("rejected groups must not be stored, got %d", len(list.Msg.Groups))
	}
}

func TestGroupService_RequiresAuth(t *testing.T) {
	ts := newMemoryServer(t)

	_, err := ts.groups.ListGroups(context.Background(), connect.NewRequest(&api.ListGroupsRequest{}))
	expectCode(t, err, connect.CodeUnauthenticated)

	req := connect.NewRequest(&api.CreateGroupRequest{Name: "x"})
	req.Header().Set("Authorization", "Bearer forged")
	_, err = ts.groups.CreateGroup(context.Background(), req)
	expectCode(t, err, connect.CodeUnauthenticated)
}

func TestGetGroup(t *testing.T) {
	ts := newMemoryServer(t)

	createResp, err := ts.groups.CreateGroup(context.Background(), authed(t, ts, alice, &api.CreateGroupRequest{
		Name:     "Youth Group",
		ImageURL: "https://example.com/youth.png",
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	getResp, err := ts.groups.GetGroup(context.Background(), authed(t, ts, alice, &api.GetGroupRequest{
		GroupID: createResp.Msg.Group.ID,
	}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}

	if getResp.Msg.Group.Name != "Youth Group" {
		t.Errorf("name: expected 'Youth Group', got '%s'", getResp.Msg.Group.Name)
	}
	if getResp.Msg.Group.ImageURL != "https://example.com/youth.png" {
		t.Errorf("image_url: got %q", getResp.Msg.Group.ImageURL)
	}
}

func TestGetGroup_NotFound(t *testing.T) {
	ts := newMemoryServer(t)

	_, err := ts.groups.GetGroup(context.Background(), authed(t, ts, alice, &api.GetGroupRequest{
		GroupID: "nonexistent-id",
	}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestListGroups_Search(t *testing.T) {
	ts := newMemoryServer(t)

	for _, req := range []*api.CreateGroupRequest{
		{Name: "Family Prayer Circle", Description: "Share prayer requests with family"},
		{Name: "Church Community", Description: "Official group for church members"},
		{Name: "Study Group", Description: "Bible study prayer support"},
	} {
		if _, err := ts.groups.CreateGroup(context.Background(), authed(t, ts, alice, req)); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
	}

	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"FAMILY", 1},
		{"group", 2},
		{"nothing", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := ts.groups.ListGroups(context.Background(), authed(t, ts, alice, &api.ListGroupsRequest{Query: tt.query}))
			if err != nil {
				t.Fatalf("ListGroups failed: %v", err)
			}
			if len(resp.Msg.Groups) != tt.want {
				t.Errorf("expected %d groups, got %d", tt.want, len(resp.Msg.Groups))
			}
		})
	}
}

func TestGroupService_SQLite(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "oremus.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	ts := setupTestServer(t, store, true)

	createResp, err := ts.groups.CreateGroup(context.Background(), authed(t, ts, alice, &api.CreateGroupRequest{Name: "Bible Study"}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	listResp, err := ts.groups.ListGroups(context.Background(), authed(t, ts, alice, &api.ListGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(listResp.Msg.Groups) != 1 || listResp.Msg.Groups[0].ID != createResp.Msg.Group.ID {
		t.Errorf("unexpected groups: %+v", listResp.Msg.Groups)
	}
}
