package service

import (
	"context"
	"testing"
	"time"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/mmynk/oremus/internal/models"
	"github.com/mmynk/oremus/pkg/api"
)

var bob = &models.User{ID: "bob-2", Name: "Bob", Email: "bob@example.com"}

func strPtr(s string) *string { return &s }

func createGroup(t *testing.T, ts *testServer, name string) *api.Group {
	t.Helper()
	resp, err := ts.groups.CreateGroup(context.Background(), authed(t, ts, alice, &api.CreateGroupRequest{Name: name}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return resp.Msg.Group
}

func createRequest(t *testing.T, ts *testServer, msg *api.CreatePrayerRequestRequest) *api.PrayerRequest {
	t.Helper()
	resp, err := ts.prayers.CreatePrayerRequest(context.Background(), authed(t, ts, alice, msg))
	if err != nil {
		t.Fatalf("CreatePrayerRequest failed: %v", err)
	}
	return resp.Msg.Request
}

func TestCreatePrayerRequest_EndToEnd(t *testing.T) {
	ts := newMemoryServer(t)
	group := createGroup(t, ts, "Bible Study")

	created := createRequest(t, ts, &api.CreatePrayerRequestRequest{
		GroupID: group.ID,
		Title:   "Exams",
		Type:    "prayer",
	})

	if created.CreatedBy != alice.ID {
		t.Errorf("created_by: expected %q, got %q", alice.ID, created.CreatedBy)
	}
	if len(created.PrayedToday) != 0 {
		t.Errorf("expected empty prayed_today, got %v", created.PrayedToday)
	}

	list, err := ts.prayers.ListPrayerRequests(context.Background(), authed(t, ts, bob, &api.ListPrayerRequestsRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("ListPrayerRequests failed: %v", err)
	}
	if len(list.Msg.Requests) != 1 || list.Msg.Requests[0].Title != "Exams" {
		t.Fatalf("expected one request titled Exams, got %+v", list.Msg.Requests)
	}

	got, err := ts.prayers.GetPrayerRequest(context.Background(), authed(t, ts, bob, &api.GetPrayerRequestRequest{ID: created.ID}))
	if err != nil {
		t.Fatalf("GetPrayerRequest failed: %v", err)
	}
	if got.Msg.Request.GroupID != group.ID {
		t.Errorf("group_id: expected %q, got %q", group.ID, got.Msg.Request.GroupID)
	}
}

func TestCreatePrayerRequest_Fast(t *testing.T) {
	ts := newMemoryServer(t)
	end := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)

	created := createRequest(t, ts, &api.CreatePrayerRequestRequest{
		GroupID:      "g1",
		Title:        "Lent fast",
		Type:         "fast",
		ReminderTime: strPtr("06:00"),
		EndDate:      timestamppb.New(end),
	})

	if created.EndDate == nil || !created.EndDate.AsTime().Equal(end) {
		t.Errorf("end_date: expected %v, got %v", end, created.EndDate)
	}
	if created.ReminderTime == nil || *created.ReminderTime != "06:00" {
		t.Errorf("reminder_time: got %v", created.ReminderTime)
	}
}

func TestCreatePrayerRequest_Validation(t *testing.T) {
	ts := newMemoryServer(t)
	end := timestamppb.New(time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name string
		req  *api.CreatePrayerRequestRequest
	}{
		{name: "missing title", req: &api.CreatePrayerRequestRequest{GroupID: "g1", Type: "prayer"}},
		{name: "unknown type", req: &api.CreatePrayerRequestRequest{GroupID: "g1", Title: "x", Type: "vigil"}},
		{name: "bad reminder", req: &api.CreatePrayerRequestRequest{GroupID: "g1", Title: "x", Type: "prayer", ReminderTime: strPtr("9am")}},
		{name: "end date on night prayer", req: &api.CreatePrayerRequestRequest{GroupID: "g1", Title: "x", Type: "nightPrayer", EndDate: end}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.prayers.CreatePrayerRequest(context.Background(), authed(t, ts, alice, tt.req))
			expectCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestTogglePrayedToday(t *testing.T) {
	ts := newMemoryServer(t)
	created := createRequest(t, ts, &api.CreatePrayerRequestRequest{GroupID: "g1", Title: "Healing", Type: "prayer"})

	toggle := func(user *models.User) []string {
		t.Helper()
		resp, err := ts.prayers.TogglePrayedToday(context.Background(), authed(t, ts, user, &api.TogglePrayedTodayRequest{ID: created.ID}))
		if err != nil {
			t.Fatalf("TogglePrayedToday failed: %v", err)
		}
		return resp.Msg.Request.PrayedToday
	}

	if got := toggle(alice); len(got) != 1 || got[0] != alice.ID {
		t.Errorf("after alice: got %v", got)
	}
	if got := toggle(bob); len(got) != 2 {
		t.Errorf("after bob: got %v", got)
	}
	if got := toggle(alice); len(got) != 1 || got[0] != bob.ID {
		t.Errorf("after alice again: got %v", got)
	}
}

func TestTogglePrayedToday_NotFound(t *testing.T) {
	ts := newMemoryServer(t)

	_, err := ts.prayers.TogglePrayedToday(context.Background(), authed(t, ts, alice, &api.TogglePrayedTodayRequest{ID: "missing"}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestUpdateReminder(t *testing.T) {
	ts := newMemoryServer(t)
	created := createRequest(t, ts, &api.CreatePrayerRequestRequest{GroupID: "g1", Title: "Work", Type: "prayer"})

	resp, err := ts.prayers.UpdateReminder(context.Background(), authed(t, ts, alice, &api.UpdateReminderRequest{
		ID:           created.ID,
		ReminderTime: strPtr("21:30"),
	}))
	if err != nil {
		t.Fatalf("UpdateReminder failed: %v", err)
	}
	if resp.Msg.Request.ReminderTime == nil || *resp.Msg.Request.ReminderTime != "21:30" {
		t.Errorf("expected reminder 21:30, got %v", resp.Msg.Request.ReminderTime)
	}

	resp, err = ts.prayers.UpdateReminder(context.Background(), authed(t, ts, alice, &api.UpdateReminderRequest{ID: created.ID}))
	if err != nil {
		t.Fatalf("UpdateReminder (clear) failed: %v", err)
	}
	if resp.Msg.Request.ReminderTime != nil {
		t.Errorf("expected cleared reminder, got %q", *resp.Msg.Request.ReminderTime)
	}

	_, err = ts.prayers.UpdateReminder(context.Background(), authed(t, ts, alice, &api.UpdateReminderRequest{ID: created.ID, ReminderTime: strPtr("24:99")}))
	expectCode(t, err, connect.CodeInvalidArgument)

	_, err = ts.prayers.UpdateReminder(context.Background(), authed(t, ts, alice, &api.UpdateReminderRequest{ID: "missing"}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestGetPrayerRequest_NotFound(t *testing.T) {
	ts := newMemoryServer(t)

	_, err := ts.prayers.GetPrayerRequest(context.Background(), authed(t, ts, alice, &api.GetPrayerRequestRequest{ID: "missing"}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestListPrayerRequests_UnknownGroup(t *testing.T) {
	ts := newMemoryServer(t)

	resp, err := ts.prayers.ListPrayerRequests(context.Background(), authed(t, ts, alice, &api.ListPrayerRequestsRequest{GroupID: "nope"}))
	if err != nil {
		t.Fatalf("ListPrayerRequests failed: %v", err)
	}
	if len(resp.Msg.Requests) != 0 {
		t.Errorf("expected no requests, got %d", len(resp.Msg.Requests))
	}
}
