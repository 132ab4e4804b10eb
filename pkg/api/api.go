// Package api defines the oremus.v1 wire messages shared by the server and
// its clients. Messages travel as JSON over the Connect protocol.
package api

import (
	"google.golang.org/protobuf/types/known/timestamppb"
)

// User is a signed-in identity.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// Group is a prayer group.
type Group struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	CreatedBy   string                 `json:"created_by"`
	CreatedAt   *timestamppb.Timestamp `json:"created_at"`
	MemberCount int32                  `json:"member_count"`
	ImageURL    string                 `json:"image_url,omitempty"`
}

// PrayerRequest is a prayer, fast or night prayer posted to a group.
type PrayerRequest struct {
	ID           string                 `json:"id"`
	GroupID      string                 `json:"group_id"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	CreatedBy    string                 `json:"created_by"`
	CreatedAt    *timestamppb.Timestamp `json:"created_at"`
	Type         string                 `json:"type"`
	ReminderTime *string                `json:"reminder_time,omitempty"`
	EndDate      *timestamppb.Timestamp `json:"end_date,omitempty"`
	PrayedToday  []string               `json:"prayed_today"`
}

type SignInRequest struct {
	AccessToken string `json:"access_token"`
}

type SignInResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type DemoRequest struct{}

type DemoResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type ListGroupsRequest struct {
	Query string `json:"query,omitempty"`
}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type CreateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type ListPrayerRequestsRequest struct {
	GroupID string `json:"group_id"`
}

type ListPrayerRequestsResponse struct {
	Requests []*PrayerRequest `json:"requests"`
}

type GetPrayerRequestRequest struct {
	ID string `json:"id"`
}

type GetPrayerRequestResponse struct {
	Request *PrayerRequest `json:"request"`
}

type CreatePrayerRequestRequest struct {
	GroupID      string                 `json:"group_id"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Type         string                 `json:"type"`
	ReminderTime *string                `json:"reminder_time,omitempty"`
	EndDate      *timestamppb.Timestamp `json:"end_date,omitempty"`
}

type CreatePrayerRequestResponse struct {
	Request *PrayerRequest `json:"request"`
}

type TogglePrayedTodayRequest struct {
	ID string `json:"id"`
}

type TogglePrayedTodayResponse struct {
	Request *PrayerRequest `json:"request"`
}

// UpdateReminderRequest sets the reminder, or clears it when ReminderTime is nil.
type UpdateReminderRequest struct {
	ID           string  `json:"id"`
	ReminderTime *string `json:"reminder_time,omitempty"`
}

type UpdateReminderResponse struct {
	Request *PrayerRequest `json:"request"`
}
