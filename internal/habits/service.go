// Package habits implements the habit tracking operations on top of a store.
package habits

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/dailyhabits/internal/clock"
	"github.com/julianstephens/dailyhabits/internal/errors"
	"github.com/julianstephens/dailyhabits/internal/logger"
	"github.com/julianstephens/dailyhabits/internal/models"
	"github.com/julianstephens/dailyhabits/internal/storage"
	"github.com/julianstephens/dailyhabits/internal/streak"
)

// ErrEmptyName is returned by AddHabit when the name is blank.
var ErrEmptyName = errors.Invalidf("habit name cannot be empty")

type Service struct {
	store storage.Provider
	clock clock.Clock
	loc   *time.Location
	guard *Guard
}

type Option func(*Service)

// WithClock replaces the system clock.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// WithLocation sets the timezone that defines calendar days. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		s.loc = loc
	}
}

func New(store storage.Provider, opts ...Option) *Service {
	s := &Service{
		store: store,
		clock: clock.System{},
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.guard = NewGuard(s.initStore)
	return s
}

func (s *Service) initStore(ctx context.Context) error {
	start := time.Now()
	if err := s.store.Init(ctx); err != nil {
		logger.Error("Store initialization failed", "path", s.store.GetConfigPath(), "error", err)
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	logger.Info("Store initialized", "path", s.store.GetConfigPath(), "duration", time.Since(start))
	return nil
}

// EnsureReady initializes the store on first use. Every operation calls it.
func (s *Service) EnsureReady(ctx context.Context) error {
	return s.guard.Ensure(ctx)
}

// Store returns the underlying store.
func (s *Service) Store() storage.Provider {
	return s.store
}

func (s *Service) Clock() clock.Clock {
	return s.clock
}

func (s *Service) AddHabit(ctx context.Context, name, description string) (string, error) {
	if err := s.EnsureReady(ctx); err != nil {
		return "", err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}

	habit, err := s.store.AddHabit(ctx, models.Habit{
		Name:        name,
		Description: description,
		CreatedAt:   s.clock.Now(),
	})
	if err != nil {
		return "", err
	}
	logger.Debug("Habit added", "id", habit.ID, "name", habit.Name)
	return fmt.Sprintf("Habit '%s' added successfully.", name), nil
}

func (s *Service) ListHabits(ctx context.Context) ([]models.Habit, error) {
	if err := s.EnsureReady(ctx); err != nil {
		return nil, err
	}
	return s.store.GetAllHabits(ctx)
}

// CompleteHabit records a completion at the current time. A missing habit is
// reported in the message, not as an error.
func (s *Service) CompleteHabit(ctx context.Context, id int64) (string, error) {
	if err := s.EnsureReady(ctx); err != nil {
		return "", err
	}

	completion, found, err := s.store.AddCompletion(ctx, id, s.clock.Now())
	if err != nil {
		return "", err
	}
	if !found {
		logger.Debug("Completion for unknown habit ignored", "id", id)
		return fmt.Sprintf("Habit %d does not exist.", id), nil
	}
	logger.Debug("Habit completed", "id", id, "completion", completion.ID)
	return fmt.Sprintf("Habit %d marked as completed for today.", id), nil
}

// DeleteHabit removes a habit and its completions. Deleting an unknown id
// reports success.
func (s *Service) DeleteHabit(ctx context.Context, id int64) (string, error) {
	if err := s.EnsureReady(ctx); err != nil {
		return "", err
	}

	affected, err := s.store.DeleteHabit(ctx, id)
	if err != nil {
		return "", err
	}
	logger.Debug("Habit deleted", "id", id, "rows", affected)
	return fmt.Sprintf("Habit %d deleted successfully.", id), nil
}

func (s *Service) ListCompletions(ctx context.Context) ([]models.CompletionRecord, error) {
	if err := s.EnsureReady(ctx); err != nil {
		return nil, err
	}
	return s.store.GetAllCompletions(ctx)
}

// CurrentStreak returns the number of consecutive days, ending today, on which
// the habit was completed at least once. Unknown habits have a streak of 0.
func (s *Service) CurrentStreak(ctx context.Context, id int64) (int, error) {
	if err := s.EnsureReady(ctx); err != nil {
		return 0, err
	}

	times, err := s.store.GetCompletionTimes(ctx, id)
	if err != nil {
		return 0, err
	}
	return streak.FromTimestamps(times, s.clock.Now(), s.loc), nil
}

// Status is a habit with its progress as of today.
type Status struct {
	Habit     models.Habit `json:"habit"`
	DoneToday bool         `json:"done_today"`
	Streak    int          `json:"streak"`
}

// Board returns every habit with whether it was completed today and its current streak.
func (s *Service) Board(ctx context.Context) ([]Status, error) {
	habits, err := s.ListHabits(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	today := streak.DayOf(now, s.loc)
	board := make([]Status, 0, len(habits))
	for _, h := range habits {
		times, err := s.store.GetCompletionTimes(ctx, h.ID)
		if err != nil {
			return nil, err
		}
		days := streak.Days(times, s.loc)
		board = append(board, Status{
			Habit:     h,
			DoneToday: days.Has(today),
			Streak:    streak.Current(days, today),
		})
	}
	return board, nil
}
