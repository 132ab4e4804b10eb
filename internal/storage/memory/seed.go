package memory

import (
	"time"

	"github.com/mmynk/oremus/internal/models"
)

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T {
	return &v
}

func seedGroups() []*models.PrayerGroup {
	return []*models.PrayerGroup{
		{
			ID:          "1",
			Name:        "Family Prayer Circle",
			Description: "A group for our family to share prayer requests and support each other.",
			CreatedBy:   "google-user-123",
			CreatedAt:   date("2023-01-15"),
			MemberCount: 5,
			ImageURL:    "https://images.unsplash.com/photo-1529156069898-49953e39b3ac?q=80&w=300&auto=format",
		},
		{
			ID:          "2",
			Name:        "Church Community",
			Description: "Official prayer group for our church members.",
			CreatedBy:   "other-user-456",
			CreatedAt:   date("2023-02-20"),
			MemberCount: 28,
			ImageURL:    "https://images.unsplash.com/photo-1440330033336-7dcff4630cef?q=80&w=300&auto=format",
		},
		{
			ID:          "3",
			Name:        "Study Group",
			Description: "Prayer support for students in our Bible study group.",
			CreatedBy:   "google-user-123",
			CreatedAt:   date("2023-03-05"),
			MemberCount: 12,
			ImageURL:    "https://images.unsplash.com/photo-1577896851231-70ef18881754?q=80&w=300&auto=format",
		},
	}
}

func seedRequests() []*models.PrayerRequest {
	return []*models.PrayerRequest{
		{
			ID:           "101",
			GroupID:      "1",
			Title:        "Health concerns for Mom",
			Description:  "Please pray for my mother who is having surgery next week.",
			CreatedBy:    "google-user-123",
			CreatedAt:    date("2023-06-01"),
			ReminderTime: ptr("08:00"),
			PrayedToday:  []string{"google-user-123", "other-user-789"},
			Type:         models.TypePrayer,
		},
		{
			ID:          "102",
			GroupID:     "1",
			Title:       "New job opportunity",
			Description: "I have an interview on Friday, please pray for guidance.",
			CreatedBy:   "other-user-456",
			CreatedAt:   date("2023-06-03"),
			PrayedToday: []string{},
			Type:        models.TypePrayer,
		},
		{
			ID:          "103",
			GroupID:     "1",
			Title:       "Family fast for guidance",
			Description: "Join our family in fasting this weekend for clarity in a major decision.",
			CreatedBy:   "google-user-123",
			CreatedAt:   date("2023-06-10"),
			EndDate:     ptr(date("2023-06-12")),
			PrayedToday: []string{"google-user-123"},
			Type:        models.TypeFast,
		},
		{
			ID:           "104",
			GroupID:      "2",
			Title:        "Night prayer for revival",
			Description:  "Let's gather in prayer from midnight to 2am for spiritual renewal.",
			CreatedBy:    "other-user-789",
			CreatedAt:    date("2023-06-15"),
			ReminderTime: ptr("23:30"),
			PrayedToday:  []string{},
			Type:         models.TypeNightPrayer,
		},
		{
			ID:          "105",
			GroupID:     "2",
			Title:       "Community outreach",
			Description: "Pray for our upcoming community service event.",
			CreatedBy:   "other-user-456",
			CreatedAt:   date("2023-06-18"),
			PrayedToday: []string{"other-user-456", "google-user-123"},
			Type:        models.TypePrayer,
		},
		{
			ID:           "106",
			GroupID:      "3",
			Title:        "Exam preparation",
			Description:  "Please pray for all students preparing for final exams.",
			CreatedBy:    "google-user-123",
			CreatedAt:    date("2023-06-20"),
			ReminderTime: ptr("07:00"),
			PrayedToday:  []string{"google-user-123"},
			Type:         models.TypePrayer,
		},
	}
}
