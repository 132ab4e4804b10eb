package storage

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/oremus/internal/models"
)

// Ensure Metered implements Repository
var _ Repository = (*Metered)(nil)

// Metered wraps a Repository and records Prometheus metrics for every call.
type Metered struct {
	next     Repository
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetered wraps next and registers its collectors with reg.
func NewMetered(next Repository, reg prometheus.Registerer) (*Metered, error) {
	m := &Metered{
		next: next,
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oremus_storage_operations_total",
				Help: "Total number of storage operations by result",
			},
			[]string{"operation", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "oremus_storage_operation_duration_seconds",
				Help:    "Storage operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}

	for _, c := range []prometheus.Collector{m.calls, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metered) observe(op string, start time.Time, err error) {
	result := "ok"
	switch {
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	m.calls.WithLabelValues(op, result).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *Metered) ListGroups(ctx context.Context) (groups []*models.PrayerGroup, err error) {
	defer func(start time.Time) { m.observe("list_groups", start, err) }(time.Now())
	return m.next.ListGroups(ctx)
}

func (m *Metered) GetGroup(ctx context.Context, id string) (group *models.PrayerGroup, err error) {
	defer func(start time.Time) { m.observe("get_group", start, err) }(time.Now())
	return m.next.GetGroup(ctx, id)
}

func (m *Metered) CreateGroup(ctx context.Context, in models.NewGroup) (group *models.PrayerGroup, err error) {
	defer func(start time.Time) { m.observe("create_group", start, err) }(time.Now())
	return m.next.CreateGroup(ctx, in)
}

func (m *Metered) ListPrayerRequests(ctx context.Context, groupID string) (reqs []*models.PrayerRequest, err error) {
	defer func(start time.Time) { m.observe("list_prayer_requests", start, err) }(time.Now())
	return m.next.ListPrayerRequests(ctx, groupID)
}

func (m *Metered) GetPrayerRequest(ctx context.Context, id string) (req *models.PrayerRequest, err error) {
	defer func(start time.Time) { m.observe("get_prayer_request", start, err) }(time.Now())
	return m.next.GetPrayerRequest(ctx, id)
}

func (m *Metered) CreatePrayerRequest(ctx context.Context, in models.NewPrayerRequest) (req *models.PrayerRequest, err error) {
	defer func(start time.Time) { m.observe("create_prayer_request", start, err) }(time.Now())
	return m.next.CreatePrayerRequest(ctx, in)
}

func (m *Metered) TogglePrayedToday(ctx context.Context, requestID, userID string) (req *models.PrayerRequest, err error) {
	defer func(start time.Time) { m.observe("toggle_prayed_today", start, err) }(time.Now())
	return m.next.TogglePrayedToday(ctx, requestID, userID)
}

func (m *Metered) UpdateReminder(ctx context.Context, requestID string, reminder *string) (req *models.PrayerRequest, err error) {
	defer func(start time.Time) { m.observe("update_reminder", start, err) }(time.Now())
	return m.next.UpdateReminder(ctx, requestID, reminder)
}

// Close closes the wrapped repository.
func (m *Metered) Close() error {
	return m.next.Close()
}
