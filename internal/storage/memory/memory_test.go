package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmynk/oremus/internal/models"
	"github.com/mmynk/oremus/internal/storage"
	"github.com/mmynk/oremus/internal/storage/storagetest"
)

func TestStoreConformance(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Repository {
		return New(WithoutLatency())
	})
}

func TestSeed(t *testing.T) {
	store := New(WithoutLatency(), WithSeed())
	ctx := context.Background()

	groups, err := store.ListGroups(ctx)
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(groups) != 3 {
		t.Fatalf("expected 3 seeded groups, got %d", len(groups))
	}

	reqs, err := store.ListPrayerRequests(ctx, "1")
	if err != nil {
		t.Fatalf("ListPrayerRequests failed: %v", err)
	}
	wantIDs := []string{"101", "102", "103"}
	if len(reqs) != len(wantIDs) {
		t.Fatalf("expected %d requests in group 1, got %d", len(wantIDs), len(reqs))
	}
	for i, r := range reqs {
		if r.ID != wantIDs[i] {
			t.Errorf("reqs[%d] = %s, want %s", i, r.ID, wantIDs[i])
		}
	}

	fast, err := store.GetPrayerRequest(ctx, "103")
	if err != nil {
		t.Fatalf("GetPrayerRequest failed: %v", err)
	}
	if fast.Type != models.TypeFast || fast.EndDate == nil {
		t.Errorf("expected seeded fast with end date, got %+v", fast)
	}
}

func TestSeedIsolatedBetweenStores(t *testing.T) {
	ctx := context.Background()
	a := New(WithoutLatency(), WithSeed())
	b := New(WithoutLatency(), WithSeed())

	if _, err := a.TogglePrayedToday(ctx, "102", "user-x"); err != nil {
		t.Fatalf("TogglePrayedToday failed: %v", err)
	}

	got, err := b.GetPrayerRequest(ctx, "102")
	if err != nil {
		t.Fatalf("GetPrayerRequest failed: %v", err)
	}
	if len(got.PrayedToday) != 0 {
		t.Errorf("seed data shared between stores: %v", got.PrayedToday)
	}
}

func TestCreateUsesClock(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := New(WithoutLatency(), WithClock(func() time.Time { return fixed }))

	g, err := store.CreateGroup(context.Background(), models.NewGroup{Name: "Clocked", CreatedBy: "u"})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if !g.CreatedAt.Equal(fixed) {
		t.Errorf("CreatedAt = %v, want %v", g.CreatedAt, fixed)
	}
}

func TestUniqueIDRetriesOnCollision(t *testing.T) {
	ids := []string{"same", "same", "same", "other"}
	next := 0
	gen := func() string {
		id := ids[next]
		next++
		return id
	}
	store := New(WithoutLatency(), WithIDGenerator(gen))
	ctx := context.Background()

	first, err := store.CreateGroup(ctx, models.NewGroup{Name: "One", CreatedBy: "u"})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	second, err := store.CreatePrayerRequest(ctx, models.NewPrayerRequest{
		GroupID: first.ID, Title: "Two", CreatedBy: "u", Type: models.TypePrayer,
	})
	if err != nil {
		t.Fatalf("CreatePrayerRequest failed: %v", err)
	}

	if first.ID != "same" {
		t.Errorf("first ID = %s, want same", first.ID)
	}
	if second.ID != "other" {
		t.Errorf("second ID = %s, want other", second.ID)
	}
}

func TestLatencyIsApplied(t *testing.T) {
	store := New(WithLatency(Latency{ListGroups: 30 * time.Millisecond}))

	start := time.Now()
	if _, err := store.ListGroups(context.Background()); err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("ListGroups returned after %v, want at least 30ms", elapsed)
	}
}

func TestAbandonedMutationStillApplies(t *testing.T) {
	store := New(WithLatency(Latency{Update: 50 * time.Millisecond}), WithSeed())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := store.TogglePrayedToday(ctx, "102", "late-user")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}

	// Wait for the simulated delay to pass, then observe the mutation.
	time.Sleep(100 * time.Millisecond)
	store.latency = Latency{}

	got, err := store.GetPrayerRequest(context.Background(), "102")
	if err != nil {
		t.Fatalf("GetPrayerRequest failed: %v", err)
	}
	if !got.HasPrayed("late-user") {
		t.Errorf("abandoned toggle was not applied: %v", got.PrayedToday)
	}
}
