// Package storagetest holds a conformance suite for storage.Repository
// implementations.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/mmynk/oremus/internal/models"
	"github.com/mmynk/oremus/internal/storage"
)

// Factory returns a new, empty repository. Cleanup is the caller's job
// (typically via t.Cleanup).
type Factory func(t *testing.T) storage.Repository

// Run exercises the Repository contract against repositories built by newRepo.
func Run(t *testing.T, newRepo Factory) {
	ctx := context.Background()

	t.Run("CreateGroup then GetGroup returns equal group", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.CreateGroup(ctx, models.NewGroup{
			Name:        "A",
			Description: "first group",
			CreatedBy:   "user-1",
			ImageURL:    "https://example.com/a.png",
		})
		if err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if created.ID == "" {
			t.Error("expected group ID to be generated")
		}
		if created.MemberCount != 1 {
			t.Errorf("MemberCount = %d, want 1", created.MemberCount)
		}
		if created.CreatedAt.IsZero() {
			t.Error("expected CreatedAt to be set")
		}

		got, err := repo.GetGroup(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got == nil {
			t.Fatal("GetGroup returned nil for created group")
		}
		assertGroupsEqual(t, got, created)
	})

	t.Run("GetGroup returns nil for unknown id", func(t *testing.T) {
		repo := newRepo(t)

		got, err := repo.GetGroup(ctx, "nonexistent-id")
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil group, got %+v", got)
		}
	})

	t.Run("ListGroups returns unique ids in insertion order", func(t *testing.T) {
		repo := newRepo(t)

		var want []string
		for i := range 5 {
			g, err := repo.CreateGroup(ctx, models.NewGroup{Name: fmt.Sprintf("Group %d", i), CreatedBy: "user-1"})
			if err != nil {
				t.Fatalf("CreateGroup failed: %v", err)
			}
			want = append(want, g.ID)
		}

		groups, err := repo.ListGroups(ctx)
		if err != nil {
			t.Fatalf("ListGroups failed: %v", err)
		}
		if len(groups) != len(want) {
			t.Fatalf("ListGroups returned %d groups, want %d", len(groups), len(want))
		}

		seen := make(map[string]bool)
		for i, g := range groups {
			if seen[g.ID] {
				t.Errorf("duplicate group id %s", g.ID)
			}
			seen[g.ID] = true
			if g.ID != want[i] {
				t.Errorf("groups[%d] = %s, want %s", i, g.ID, want[i])
			}
		}
	})

	t.Run("returned groups are copies", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.CreateGroup(ctx, models.NewGroup{Name: "Original", CreatedBy: "user-1"})
		if err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		created.Name = "Changed"

		groups, err := repo.ListGroups(ctx)
		if err != nil {
			t.Fatalf("ListGroups failed: %v", err)
		}
		groups[0].Name = "Changed again"

		got, err := repo.GetGroup(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Name != "Original" {
			t.Errorf("stored name = %q, want %q", got.Name, "Original")
		}
	})

	t.Run("CreatePrayerRequest does not validate group", func(t *testing.T) {
		repo := newRepo(t)

		req, err := repo.CreatePrayerRequest(ctx, models.NewPrayerRequest{
			GroupID:   "missing-group",
			Title:     "Orphan",
			CreatedBy: "user-1",
			Type:      models.TypePrayer,
		})
		if err != nil {
			t.Fatalf("CreatePrayerRequest failed: %v", err)
		}
		if req.GroupID != "missing-group" {
			t.Errorf("GroupID = %q, want %q", req.GroupID, "missing-group")
		}
	})

	t.Run("CreatePrayerRequest keeps optional fields", func(t *testing.T) {
		repo := newRepo(t)

		reminder := "23:30"
		end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		created, err := repo.CreatePrayerRequest(ctx, models.NewPrayerRequest{
			GroupID:      "g",
			Title:        "Lent fast",
			CreatedBy:    "user-1",
			Type:         models.TypeFast,
			ReminderTime: &reminder,
			EndDate:      &end,
		})
		if err != nil {
			t.Fatalf("CreatePrayerRequest failed: %v", err)
		}

		got, err := repo.GetPrayerRequest(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetPrayerRequest failed: %v", err)
		}
		if got.Type != models.TypeFast {
			t.Errorf("Type = %q, want %q", got.Type, models.TypeFast)
		}
		if got.ReminderTime == nil || *got.ReminderTime != "23:30" {
			t.Errorf("ReminderTime = %v, want 23:30", got.ReminderTime)
		}
		if got.EndDate == nil || !got.EndDate.Equal(end) {
			t.Errorf("EndDate = %v, want %v", got.EndDate, end)
		}
		if got.PrayedToday == nil || len(got.PrayedToday) != 0 {
			t.Errorf("PrayedToday = %v, want empty", got.PrayedToday)
		}
	})

	t.Run("ListPrayerRequests filters by group", func(t *testing.T) {
		repo := newRepo(t)

		for _, gid := range []string{"g1", "g2", "g1"} {
			if _, err := repo.CreatePrayerRequest(ctx, models.NewPrayerRequest{
				GroupID: gid, Title: "In " + gid, CreatedBy: "user-1", Type: models.TypePrayer,
			}); err != nil {
				t.Fatalf("CreatePrayerRequest failed: %v", err)
			}
		}

		reqs, err := repo.ListPrayerRequests(ctx, "g1")
		if err != nil {
			t.Fatalf("ListPrayerRequests failed: %v", err)
		}
		if len(reqs) != 2 {
			t.Errorf("expected 2 requests for g1, got %d", len(reqs))
		}

		empty, err := repo.ListPrayerRequests(ctx, "none")
		if err != nil {
			t.Fatalf("ListPrayerRequests failed: %v", err)
		}
		if empty == nil || len(empty) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", empty)
		}
	})

	t.Run("GetPrayerRequest returns nil for unknown id", func(t *testing.T) {
		repo := newRepo(t)

		got, err := repo.GetPrayerRequest(ctx, "nonexistent-id")
		if err != nil {
			t.Fatalf("GetPrayerRequest failed: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil request, got %+v", got)
		}
	})

	t.Run("TogglePrayedToday twice restores membership", func(t *testing.T) {
		repo := newRepo(t)
		req := mustCreateRequest(t, repo, "g1", "Healing")

		first, err := repo.TogglePrayedToday(ctx, req.ID, "user-2")
		if err != nil {
			t.Fatalf("TogglePrayedToday failed: %v", err)
		}
		if !first.HasPrayed("user-2") {
			t.Errorf("expected user-2 in PrayedToday, got %v", first.PrayedToday)
		}

		second, err := repo.TogglePrayedToday(ctx, req.ID, "user-2")
		if err != nil {
			t.Fatalf("TogglePrayedToday failed: %v", err)
		}
		if len(second.PrayedToday) != len(req.PrayedToday) {
			t.Errorf("PrayedToday = %v, want %v", second.PrayedToday, req.PrayedToday)
		}
	})

	t.Run("TogglePrayedToday keeps other users", func(t *testing.T) {
		repo := newRepo(t)
		req := mustCreateRequest(t, repo, "g1", "Travel")

		for _, u := range []string{"a", "b", "c"} {
			if _, err := repo.TogglePrayedToday(ctx, req.ID, u); err != nil {
				t.Fatalf("TogglePrayedToday failed: %v", err)
			}
		}
		got, err := repo.TogglePrayedToday(ctx, req.ID, "b")
		if err != nil {
			t.Fatalf("TogglePrayedToday failed: %v", err)
		}

		prayed := slices.Clone(got.PrayedToday)
		slices.Sort(prayed)
		if !slices.Equal(prayed, []string{"a", "c"}) {
			t.Errorf("PrayedToday = %v, want [a c]", got.PrayedToday)
		}
	})

	t.Run("TogglePrayedToday unknown id returns ErrNotFound without mutation", func(t *testing.T) {
		repo := newRepo(t)
		req := mustCreateRequest(t, repo, "g1", "Untouched")

		_, err := repo.TogglePrayedToday(ctx, "nonexistent-id", "user-1")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}

		got, err := repo.GetPrayerRequest(ctx, req.ID)
		if err != nil {
			t.Fatalf("GetPrayerRequest failed: %v", err)
		}
		if len(got.PrayedToday) != 0 {
			t.Errorf("existing request mutated: %v", got.PrayedToday)
		}
	})

	t.Run("UpdateReminder sets and clears", func(t *testing.T) {
		repo := newRepo(t)
		req := mustCreateRequest(t, repo, "g1", "Morning prayer")

		reminder := "08:00"
		if _, err := repo.UpdateReminder(ctx, req.ID, &reminder); err != nil {
			t.Fatalf("UpdateReminder failed: %v", err)
		}
		got, err := repo.GetPrayerRequest(ctx, req.ID)
		if err != nil {
			t.Fatalf("GetPrayerRequest failed: %v", err)
		}
		if got.ReminderTime == nil || *got.ReminderTime != "08:00" {
			t.Errorf("ReminderTime = %v, want 08:00", got.ReminderTime)
		}

		updated, err := repo.UpdateReminder(ctx, req.ID, nil)
		if err != nil {
			t.Fatalf("UpdateReminder failed: %v", err)
		}
		if updated.ReminderTime != nil {
			t.Errorf("returned ReminderTime = %v, want nil", *updated.ReminderTime)
		}
		got, err = repo.GetPrayerRequest(ctx, req.ID)
		if err != nil {
			t.Fatalf("GetPrayerRequest failed: %v", err)
		}
		if got.ReminderTime != nil {
			t.Errorf("ReminderTime = %v, want nil", *got.ReminderTime)
		}
	})

	t.Run("UpdateReminder unknown id returns ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)

		reminder := "08:00"
		_, err := repo.UpdateReminder(ctx, "nonexistent-id", &reminder)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("end to end group and request", func(t *testing.T) {
		repo := newRepo(t)

		group, err := repo.CreateGroup(ctx, models.NewGroup{Name: "Bible Study", CreatedBy: "user-1"})
		if err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if _, err := repo.CreatePrayerRequest(ctx, models.NewPrayerRequest{
			GroupID:   group.ID,
			Title:     "Exams",
			CreatedBy: "user-1",
			Type:      models.TypePrayer,
		}); err != nil {
			t.Fatalf("CreatePrayerRequest failed: %v", err)
		}

		reqs, err := repo.ListPrayerRequests(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListPrayerRequests failed: %v", err)
		}
		if len(reqs) != 1 {
			t.Fatalf("expected 1 request, got %d", len(reqs))
		}
		if reqs[0].Title != "Exams" {
			t.Errorf("Title = %q, want %q", reqs[0].Title, "Exams")
		}
		if len(reqs[0].PrayedToday) != 0 {
			t.Errorf("PrayedToday = %v, want empty", reqs[0].PrayedToday)
		}
	})

	t.Run("concurrent toggles by distinct users all land", func(t *testing.T) {
		repo := newRepo(t)
		req := mustCreateRequest(t, repo, "g1", "Together")

		const users = 20
		var wg sync.WaitGroup
		errs := make(chan error, users)
		for i := range users {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := repo.TogglePrayedToday(ctx, req.ID, fmt.Sprintf("user-%d", i)); err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Fatalf("TogglePrayedToday failed: %v", err)
		}

		got, err := repo.GetPrayerRequest(ctx, req.ID)
		if err != nil {
			t.Fatalf("GetPrayerRequest failed: %v", err)
		}
		if len(got.PrayedToday) != users {
			t.Errorf("expected %d users in PrayedToday, got %d", users, len(got.PrayedToday))
		}
	})
}

func mustCreateRequest(t *testing.T, repo storage.Repository, groupID, title string) *models.PrayerRequest {
	t.Helper()
	req, err := repo.CreatePrayerRequest(context.Background(), models.NewPrayerRequest{
		GroupID:   groupID,
		Title:     title,
		CreatedBy: "user-1",
		Type:      models.TypePrayer,
	})
	if err != nil {
		t.Fatalf("CreatePrayerRequest failed: %v", err)
	}
	return req
}

func assertGroupsEqual(t *testing.T, got, want *models.PrayerGroup) {
	t.Helper()
	if got.ID != want.ID {
		t.Errorf("ID mismatch: got %s, want %s", got.ID, want.ID)
	}
	if got.Name != want.Name {
		t.Errorf("Name mismatch: got %s, want %s", got.Name, want.Name)
	}
	if got.Description != want.Description {
		t.Errorf("Description mismatch: got %s, want %s", got.Description, want.Description)
	}
	if got.CreatedBy != want.CreatedBy {
		t.Errorf("CreatedBy mismatch: got %s, want %s", got.CreatedBy, want.CreatedBy)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt mismatch: got %v, want %v", got.CreatedAt, want.CreatedAt)
	}
	if got.MemberCount != want.MemberCount {
		t.Errorf("MemberCount mismatch: got %d, want %d", got.MemberCount, want.MemberCount)
	}
	if got.ImageURL != want.ImageURL {
		t.Errorf("ImageURL mismatch: got %s, want %s", got.ImageURL, want.ImageURL)
	}
}
