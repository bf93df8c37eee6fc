package storage

import (
	"context"
	"time"

	"github.com/julianstephens/dailyhabits/internal/models"
)

// Provider is a relational habit store.
//
// Every data method acquires its own connection, runs its statements in a
// single transaction and releases the connection before returning. Init must
// have succeeded before any data method is called.
type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error
	// SchemaVersion reports the applied and the latest embedded schema versions.
	SchemaVersion(ctx context.Context) (current, latest int, err error)

	// Habits
	AddHabit(ctx context.Context, habit models.Habit) (models.Habit, error)
	GetAllHabits(ctx context.Context) ([]models.Habit, error)
	// DeleteHabit removes the habit and, by cascade, its completions.
	// It returns the number of habit rows removed.
	DeleteHabit(ctx context.Context, id int64) (int64, error)

	// Completions
	// AddCompletion checks that the habit exists and inserts a completion in one
	// transaction. found is false, and nothing is written, when the habit is missing.
	AddCompletion(ctx context.Context, habitID int64, at time.Time) (completion models.Completion, found bool, err error)
	GetAllCompletions(ctx context.Context) ([]models.CompletionRecord, error)
	GetCompletionTimes(ctx context.Context, habitID int64) ([]time.Time, error)

	// Utils
	GetConfigPath() string
}
