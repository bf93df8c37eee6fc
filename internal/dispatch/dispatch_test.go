package dispatch

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/dailyhabits/internal/clock"
	"github.com/julianstephens/dailyhabits/internal/errors"
	"github.com/julianstephens/dailyhabits/internal/habits"
	"github.com/julianstephens/dailyhabits/internal/models"
	"github.com/julianstephens/dailyhabits/internal/storage/sqlite"
)

func setupTestDispatcher(t *testing.T) (*Dispatcher, *clock.Manual) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habits.db"))
	t.Cleanup(func() { _ = store.Close() })

	clk := clock.NewManual(time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC))
	svc := habits.New(store, habits.WithClock(clk), habits.WithLocation(time.UTC))
	return New(svc), clk
}

func TestOperationsSorted(t *testing.T) {
	d, _ := setupTestDispatcher(t)

	var names []string
	for _, op := range d.Operations() {
		names = append(names, op.Name)
		assert.NotEmpty(t, op.Description, "operation %s", op.Name)
	}
	assert.Equal(t, []string{
		"add_habit",
		"complete_habit",
		"delete_habit",
		"get_current_streak",
		"list_completions",
		"list_habits",
	}, names)
}

func TestCallFlow(t *testing.T) {
	d, clk := setupTestDispatcher(t)
	ctx := context.Background()

	res, err := d.Call(ctx, "add_habit", json.RawMessage(`{"name":"Exercise","description":"30 min"}`))
	require.NoError(t, err)
	assert.Equal(t, "Habit 'Exercise' added successfully.", res)

	res, err = d.Call(ctx, "list_habits", nil)
	require.NoError(t, err)
	list, ok := res.([]models.Habit)
	require.True(t, ok, "list_habits returned %T", res)
	require.Len(t, list, 1)
	assert.Equal(t, "30 min", list[0].Description)
	assert.True(t, list[0].IsActive)

	res, err = d.Call(ctx, "complete_habit", json.RawMessage(`{"habit_id":1}`))
	require.NoError(t, err)
	assert.Equal(t, "Habit 1 marked as completed for today.", res)

	res, err = d.Call(ctx, "complete_habit", json.RawMessage(`{"habit_id":7}`))
	require.NoError(t, err)
	assert.Equal(t, "Habit 7 does not exist.", res)

	res, err = d.Call(ctx, "list_completions", json.RawMessage(`{}`))
	require.NoError(t, err)
	records, ok := res.([]models.CompletionRecord)
	require.True(t, ok)
	require.Len(t, records, 1)
	assert.Equal(t, "Exercise", records[0].HabitName)

	res, err = d.Call(ctx, "get_current_streak", json.RawMessage(`{"habit_id":1}`))
	require.NoError(t, err)
	assert.Equal(t, 1, res)

	clk.AdvanceDays(1)
	res, err = d.Call(ctx, "get_current_streak", json.RawMessage(`{"habit_id":1}`))
	require.NoError(t, err)
	assert.Equal(t, 0, res)

	res, err = d.Call(ctx, "delete_habit", json.RawMessage(`{"habit_id":1}`))
	require.NoError(t, err)
	assert.Equal(t, "Habit 1 deleted successfully.", res)

	res, err = d.Call(ctx, "list_completions", nil)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestCallErrors(t *testing.T) {
	d, _ := setupTestDispatcher(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		op      string
		args    string
		wantErr error
	}{
		{"unknown operation", "rename_habit", `{}`, ErrUnknownOperation},
		{"unknown field", "list_habits", `{"verbose":true}`, ErrInvalidArguments},
		{"missing habit_id", "complete_habit", `{}`, ErrInvalidArguments},
		{"wrong type", "delete_habit", `{"habit_id":"one"}`, ErrInvalidArguments},
		{"not an object", "get_current_streak", `[1]`, ErrInvalidArguments},
		{"trailing data", "complete_habit", `{"habit_id":1} {}`, ErrInvalidArguments},
		{"missing name", "add_habit", `{"description":"x"}`, ErrInvalidArguments},
		{"blank name", "add_habit", `{"name":"  "}`, ErrInvalidArguments},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Call(ctx, tt.op, json.RawMessage(tt.args))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := d.Call(ctx, "rename_habit", nil)
	assert.True(t, errors.IsNotFound(err))
	_, err = d.Call(ctx, "complete_habit", nil)
	assert.True(t, errors.IsInvalid(err))
}

func TestObserver(t *testing.T) {
	d, _ := setupTestDispatcher(t)

	var seen []string
	d.SetObserver(func(name string, elapsed time.Duration, err error) {
		seen = append(seen, name)
	})

	_, _ = d.Call(context.Background(), "list_habits", nil)
	_, _ = d.Call(context.Background(), "complete_habit", json.RawMessage(`{}`))
	_, _ = d.Call(context.Background(), "nope", nil)

	assert.Equal(t, []string{"list_habits", "complete_habit"}, seen)
}
