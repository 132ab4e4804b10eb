// Package memory provides an in-memory implementation of storage.Repository
// that simulates network latency. It backs demos and tests.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/oremus/internal/models"
	"github.com/mmynk/oremus/internal/storage"
)

// Ensure Store implements storage.Repository
var _ storage.Repository = (*Store)(nil)

// Latency is the artificial delay applied to each kind of operation.
type Latency struct {
	ListGroups         time.Duration
	GetGroup           time.Duration
	ListPrayerRequests time.Duration
	GetPrayerRequest   time.Duration
	Create             time.Duration
	Update             time.Duration
}

// DefaultLatency mirrors the delays of the hosted mock backend.
var DefaultLatency = Latency{
	ListGroups:         500 * time.Millisecond,
	GetGroup:           300 * time.Millisecond,
	ListPrayerRequests: 300 * time.Millisecond,
	GetPrayerRequest:   200 * time.Millisecond,
	Create:             700 * time.Millisecond,
	Update:             300 * time.Millisecond,
}

// Store keeps groups and prayer requests in memory.
//
// Every operation runs after its simulated delay on its own goroutine. If
// the caller's context ends first the caller gets ctx.Err(), but the
// operation still completes and any mutation is still applied.
type Store struct {
	mu       sync.Mutex
	groups   []*models.PrayerGroup
	requests []*models.PrayerRequest

	latency Latency
	now     func() time.Time
	newID   func() string
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLatency overrides the per-operation delays.
func WithLatency(l Latency) Option {
	return func(s *Store) { s.latency = l }
}

// WithoutLatency disables the artificial delays.
func WithoutLatency() Option {
	return WithLatency(Latency{})
}

// WithClock sets the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator sets the function used to generate entity IDs.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithSeed preloads the sample groups and prayer requests.
func WithSeed() Option {
	return func(s *Store) {
		s.groups = append(s.groups, seedGroups()...)
		s.requests = append(s.requests, seedRequests()...)
	}
}

// New creates an empty Store with DefaultLatency.
func New(opts ...Option) *Store {
	s := &Store{
		latency: DefaultLatency,
		now:     time.Now,
		newID:   uuid.NewString,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

type result[T any] struct {
	val T
	err error
}

// run executes fn after delay on a separate goroutine and waits for it
// unless ctx ends first.
func run[T any](ctx context.Context, delay time.Duration, fn func() (T, error)) (T, error) {
	done := make(chan result[T], 1)
	go func() {
		if delay > 0 {
			time.Sleep(delay)
		}
		v, err := fn()
		done <- result[T]{val: v, err: err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// ListGroups returns copies of all groups.
func (s *Store) ListGroups(ctx context.Context) ([]*models.PrayerGroup, error) {
	return run(ctx, s.latency.ListGroups, func() ([]*models.PrayerGroup, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		groups := make([]*models.PrayerGroup, len(s.groups))
		for i, g := range s.groups {
			groups[i] = g.Clone()
		}
		return groups, nil
	})
}

// GetGroup returns a copy of the group, or nil if it does not exist.
func (s *Store) GetGroup(ctx context.Context, id string) (*models.PrayerGroup, error) {
	return run(ctx, s.latency.GetGroup, func() (*models.PrayerGroup, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		return s.findGroup(id).Clone(), nil
	})
}

// CreateGroup appends a new group.
func (s *Store) CreateGroup(ctx context.Context, in models.NewGroup) (*models.PrayerGroup, error) {
	return run(ctx, s.latency.Create, func() (*models.PrayerGroup, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		group := &models.PrayerGroup{
			ID:          s.uniqueID(),
			Name:        in.Name,
			Description: in.Description,
			CreatedBy:   in.CreatedBy,
			CreatedAt:   s.now(),
			MemberCount: 1,
			ImageURL:    in.ImageURL,
		}
		s.groups = append(s.groups, group)

		s.logger.Debug("Group created", "group_id", group.ID, "name", group.Name)
		return group.Clone(), nil
	})
}

// ListPrayerRequests returns copies of the requests that belong to groupID.
func (s *Store) ListPrayerRequests(ctx context.Context, groupID string) ([]*models.PrayerRequest, error) {
	return run(ctx, s.latency.ListPrayerRequests, func() ([]*models.PrayerRequest, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		requests := make([]*models.PrayerRequest, 0)
		for _, r := range s.requests {
			if r.GroupID == groupID {
				requests = append(requests, r.Clone())
			}
		}
		return requests, nil
	})
}

// GetPrayerRequest returns a copy of the request, or nil if it does not exist.
func (s *Store) GetPrayerRequest(ctx context.Context, id string) (*models.PrayerRequest, error) {
	return run(ctx, s.latency.GetPrayerRequest, func() (*models.PrayerRequest, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		return s.findRequest(id).Clone(), nil
	})
}

// CreatePrayerRequest appends a new prayer request.
func (s *Store) CreatePrayerRequest(ctx context.Context, in models.NewPrayerRequest) (*models.PrayerRequest, error) {
	return run(ctx, s.latency.Create, func() (*models.PrayerRequest, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		req := &models.PrayerRequest{
			ID:           s.uniqueID(),
			GroupID:      in.GroupID,
			Title:        in.Title,
			Description:  in.Description,
			CreatedBy:    in.CreatedBy,
			CreatedAt:    s.now(),
			Type:         in.Type,
			ReminderTime: in.ReminderTime,
			EndDate:      in.EndDate,
			PrayedToday:  []string{},
		}
		// Detach the caller's pointers.
		req = req.Clone()
		s.requests = append(s.requests, req)

		s.logger.Debug("Prayer request created", "request_id", req.ID, "group_id", req.GroupID, "type", req.Type)
		return req.Clone(), nil
	})
}

// TogglePrayedToday flips userID's membership in the request's PrayedToday.
func (s *Store) TogglePrayedToday(ctx context.Context, requestID, userID string) (*models.PrayerRequest, error) {
	return run(ctx, s.latency.Update, func() (*models.PrayerRequest, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		req := s.findRequest(requestID)
		if req == nil {
			return nil, fmt.Errorf("prayer request %s: %w", requestID, storage.ErrNotFound)
		}

		if i := indexOf(req.PrayedToday, userID); i >= 0 {
			req.PrayedToday = append(req.PrayedToday[:i], req.PrayedToday[i+1:]...)
		} else {
			req.PrayedToday = append(req.PrayedToday, userID)
		}
		return req.Clone(), nil
	})
}

// UpdateReminder sets or clears the reminder time of a request.
func (s *Store) UpdateReminder(ctx context.Context, requestID string, reminder *string) (*models.PrayerRequest, error) {
	return run(ctx, s.latency.Update, func() (*models.PrayerRequest, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		req := s.findRequest(requestID)
		if req == nil {
			return nil, fmt.Errorf("prayer request %s: %w", requestID, storage.ErrNotFound)
		}

		if reminder == nil {
			req.ReminderTime = nil
		} else {
			rt := *reminder
			req.ReminderTime = &rt
		}
		return req.Clone(), nil
	})
}

// findGroup must be called with s.mu held.
func (s *Store) findGroup(id string) *models.PrayerGroup {
	for _, g := range s.groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// findRequest must be called with s.mu held.
func (s *Store) findRequest(id string) *models.PrayerRequest {
	for _, r := range s.requests {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// uniqueID returns an ID not used by any group or request. Must be called
// with s.mu held.
func (s *Store) uniqueID() string {
	for {
		id := s.newID()
		if s.findGroup(id) == nil && s.findRequest(id) == nil {
			return id
		}
		s.logger.Warn("Generated ID already in use, retrying", "id", id)
	}
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
