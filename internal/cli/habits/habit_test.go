package habits

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/dailyhabits/internal/cli"
	"github.com/julianstephens/dailyhabits/internal/clock"
	"github.com/julianstephens/dailyhabits/internal/habits"
	"github.com/julianstephens/dailyhabits/internal/storage/sqlite"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer, func()) {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habits.db"))
	clk := clock.NewManual(time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC))
	ctx := cli.NewContext(store, habits.WithClock(clk), habits.WithLocation(time.UTC))

	out := &bytes.Buffer{}
	ctx.Out = out
	ctx.Confirm = func(string) (bool, error) {
		t.Fatal("unexpected confirmation prompt")
		return false, nil
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}
	return ctx, out, cleanup
}

func TestHabitAddAndList(t *testing.T) {
	ctx, out, cleanup := setupTestContext(t)
	defer cleanup()

	add := &HabitAddCmd{Name: "Exercise", Description: "30 minutes"}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("HabitAddCmd.Run() error = %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "Habit 'Exercise' added successfully." {
		t.Errorf("unexpected output: %q", got)
	}

	out.Reset()
	list := &HabitListCmd{}
	if err := list.Run(ctx); err != nil {
		t.Fatalf("HabitListCmd.Run() error = %v", err)
	}
	for _, want := range []string{"ID", "Exercise", "30 minutes", "2026-10-15"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("list output missing %q:\n%s", want, out.String())
		}
	}
}

func TestHabitAddEmptyName(t *testing.T) {
	ctx, _, cleanup := setupTestContext(t)
	defer cleanup()

	add := &HabitAddCmd{Name: "   "}
	if err := add.Run(ctx); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestHabitListEmpty(t *testing.T) {
	ctx, out, cleanup := setupTestContext(t)
	defer cleanup()

	if err := (&HabitListCmd{}).Run(ctx); err != nil {
		t.Fatalf("HabitListCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "No habits found.") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestHabitCompleteAndStreak(t *testing.T) {
	ctx, out, cleanup := setupTestContext(t)
	defer cleanup()

	if err := (&HabitAddCmd{Name: "Read"}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	out.Reset()
	if err := (&HabitCompleteCmd{ID: "1"}).Run(ctx); err != nil {
		t.Fatalf("HabitCompleteCmd.Run() error = %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "Habit 1 marked as completed for today." {
		t.Errorf("unexpected output: %q", got)
	}

	out.Reset()
	if err := (&HabitCompleteCmd{ID: "5"}).Run(ctx); err != nil {
		t.Fatalf("HabitCompleteCmd.Run() error = %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "Habit 5 does not exist." {
		t.Errorf("unexpected output: %q", got)
	}

	out.Reset()
	if err := (&HabitStreakCmd{ID: "1"}).Run(ctx); err != nil {
		t.Fatalf("HabitStreakCmd.Run() error = %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "Habit 1 current streak: 1 day" {
		t.Errorf("unexpected output: %q", got)
	}

	out.Reset()
	if err := (&HabitCompletionsCmd{JSON: true}).Run(ctx); err != nil {
		t.Fatalf("HabitCompletionsCmd.Run() error = %v", err)
	}
	var records []map[string]interface{}
	if err := json.Unmarshal(out.Bytes(), &records); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if len(records) != 1 || records[0]["habit_name"] != "Read" {
		t.Errorf("unexpected records: %v", records)
	}
}

func TestHabitInvalidID(t *testing.T) {
	ctx, _, cleanup := setupTestContext(t)
	defer cleanup()

	tests := []struct {
		name string
		cmd  interface{ Run(*cli.Context) error }
	}{
		{"complete", &HabitCompleteCmd{ID: "abc"}},
		{"delete", &HabitDeleteCmd{ID: "1.5", Yes: true}},
		{"streak", &HabitStreakCmd{ID: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected error for invalid id")
			}
		})
	}
}

func TestHabitDelete(t *testing.T) {
	ctx, out, cleanup := setupTestContext(t)
	defer cleanup()

	if err := (&HabitAddCmd{Name: "Exercise"}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	t.Run("declined", func(t *testing.T) {
		out.Reset()
		var prompted string
		ctx.Confirm = func(title string) (bool, error) {
			prompted = title
			return false, nil
		}
		if err := (&HabitDeleteCmd{ID: "1"}).Run(ctx); err != nil {
			t.Fatalf("HabitDeleteCmd.Run() error = %v", err)
		}
		if !strings.Contains(prompted, "habit 1") {
			t.Errorf("unexpected prompt: %q", prompted)
		}
		if !strings.Contains(out.String(), "Cancelled.") {
			t.Errorf("unexpected output: %q", out.String())
		}

		habits, err := ctx.Service.ListHabits(t.Context())
		if err != nil || len(habits) != 1 {
			t.Errorf("habit should survive a declined delete: %v, %v", habits, err)
		}
	})

	t.Run("confirmed", func(t *testing.T) {
		out.Reset()
		ctx.Confirm = func(string) (bool, error) { return true, nil }
		if err := (&HabitDeleteCmd{ID: "1"}).Run(ctx); err != nil {
			t.Fatalf("HabitDeleteCmd.Run() error = %v", err)
		}
		if got := strings.TrimSpace(out.String()); got != "Habit 1 deleted successfully." {
			t.Errorf("unexpected output: %q", got)
		}
	})

	t.Run("yes flag skips prompt", func(t *testing.T) {
		out.Reset()
		ctx.Confirm = func(string) (bool, error) {
			t.Fatal("prompt shown despite --yes")
			return false, nil
		}
		if err := (&HabitDeleteCmd{ID: "7", Yes: true}).Run(ctx); err != nil {
			t.Fatalf("HabitDeleteCmd.Run() error = %v", err)
		}
		if got := strings.TrimSpace(out.String()); got != "Habit 7 deleted successfully." {
			t.Errorf("unexpected output: %q", got)
		}
	})
}
