package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/dailyhabits/internal/models"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := NewStore(dbPath)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return store, cleanup
}

func addHabit(t *testing.T, store *Store, name string) models.Habit {
	t.Helper()
	habit, err := store.AddHabit(context.Background(), models.Habit{
		Name:      name,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("failed to add habit %q: %v", name, err)
	}
	return habit
}

func TestInitCreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "habits.db")
	store := NewStore(dbPath)
	defer store.Close()

	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", dbPath)
	}

	current, latest, err := store.SchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if current != latest || current < 1 {
		t.Errorf("expected schema at latest version, got current=%d latest=%d", current, latest)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	addHabit(t, store, "Read")

	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}

	habits, err := store.GetAllHabits(context.Background())
	if err != nil {
		t.Fatalf("GetAllHabits failed: %v", err)
	}
	if len(habits) != 1 {
		t.Errorf("expected existing habit to survive re-init, got %d habits", len(habits))
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	store := NewStore("~/.config/dailyhabits/habits.db")
	want := filepath.Join(home, ".config/dailyhabits/habits.db")
	if store.GetConfigPath() != want {
		t.Errorf("GetConfigPath() = %q, want %q", store.GetConfigPath(), want)
	}
}

func TestAddAndListHabits(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	created := time.Date(2026, 10, 15, 7, 45, 12, 0, time.Local)
	exercise, err := store.AddHabit(ctx, models.Habit{
		Name:        "Exercise",
		Description: "30 minutes",
		CreatedAt:   created,
	})
	if err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}
	if exercise.ID == 0 {
		t.Error("expected store-assigned ID")
	}
	if !exercise.IsActive {
		t.Error("expected new habit to be active by default")
	}

	read := addHabit(t, store, "Read")
	if read.ID <= exercise.ID {
		t.Errorf("expected increasing IDs, got %d then %d", exercise.ID, read.ID)
	}

	habits, err := store.GetAllHabits(ctx)
	if err != nil {
		t.Fatalf("GetAllHabits failed: %v", err)
	}
	if len(habits) != 2 {
		t.Fatalf("expected 2 habits, got %d", len(habits))
	}
	if habits[0].Name != "Exercise" || habits[1].Name != "Read" {
		t.Errorf("unexpected order: %q, %q", habits[0].Name, habits[1].Name)
	}
	if habits[0].Description != "30 minutes" {
		t.Errorf("expected description to round-trip, got %q", habits[0].Description)
	}
	if !habits[0].CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", habits[0].CreatedAt, created)
	}
	if !habits[0].IsActive {
		t.Error("expected is_active = true")
	}
}

func TestGetAllHabitsEmpty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	habits, err := store.GetAllHabits(context.Background())
	if err != nil {
		t.Fatalf("GetAllHabits failed: %v", err)
	}
	if habits == nil || len(habits) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", habits)
	}
}

func TestAddCompletionMissingHabit(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	_, found, err := store.AddCompletion(ctx, 42, time.Now())
	if err != nil {
		t.Fatalf("AddCompletion failed: %v", err)
	}
	if found {
		t.Error("expected found = false for missing habit")
	}

	var count int
	if err := store.GetDB().QueryRow("SELECT count(*) FROM habit_completions").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no completion rows, got %d", count)
	}
}

func TestCompletionsOrderedMostRecentFirst(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	exercise := addHabit(t, store, "Exercise")
	read := addHabit(t, store, "Read")

	base := time.Date(2026, 10, 14, 8, 0, 0, 0, time.Local)
	inserts := []struct {
		habit models.Habit
		at    time.Time
	}{
		{exercise, base},
		{read, base.Add(26 * time.Hour)},
		{exercise, base.Add(90 * time.Minute)},
		{exercise, base.Add(500 * time.Millisecond)},
	}
	for _, in := range inserts {
		if _, found, err := store.AddCompletion(ctx, in.habit.ID, in.at); err != nil || !found {
			t.Fatalf("AddCompletion(%d) found=%v err=%v", in.habit.ID, found, err)
		}
	}

	records, err := store.GetAllCompletions(ctx)
	if err != nil {
		t.Fatalf("GetAllCompletions failed: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}

	wantNames := []string{"Read", "Exercise", "Exercise", "Exercise"}
	wantTimes := []time.Time{base.Add(26 * time.Hour), base.Add(90 * time.Minute), base.Add(500 * time.Millisecond), base}
	for i, r := range records {
		if r.HabitName != wantNames[i] {
			t.Errorf("record %d name = %q, want %q", i, r.HabitName, wantNames[i])
		}
		if !r.CompletionDate.Equal(wantTimes[i]) {
			t.Errorf("record %d time = %v, want %v", i, r.CompletionDate, wantTimes[i])
		}
	}

	times, err := store.GetCompletionTimes(ctx, exercise.ID)
	if err != nil {
		t.Fatalf("GetCompletionTimes failed: %v", err)
	}
	if len(times) != 3 {
		t.Errorf("expected 3 completion times for exercise, got %d", len(times))
	}
}

func TestDeleteHabitCascadesCompletions(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	exercise := addHabit(t, store, "Exercise")
	read := addHabit(t, store, "Read")
	for i := 0; i < 3; i++ {
		if _, _, err := store.AddCompletion(ctx, exercise.ID, time.Now()); err != nil {
			t.Fatalf("AddCompletion failed: %v", err)
		}
	}
	if _, _, err := store.AddCompletion(ctx, read.ID, time.Now()); err != nil {
		t.Fatalf("AddCompletion failed: %v", err)
	}

	affected, err := store.DeleteHabit(ctx, exercise.ID)
	if err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}
	if affected != 1 {
		t.Errorf("expected 1 row affected, got %d", affected)
	}

	records, err := store.GetAllCompletions(ctx)
	if err != nil {
		t.Fatalf("GetAllCompletions failed: %v", err)
	}
	for _, r := range records {
		if r.HabitName == "Exercise" {
			t.Errorf("completion %d still references deleted habit", r.ID)
		}
	}

	var orphans int
	if err := store.GetDB().QueryRow("SELECT count(*) FROM habit_completions WHERE habit_id = ?", exercise.ID).Scan(&orphans); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if orphans != 0 {
		t.Errorf("expected cascade to remove completions, found %d", orphans)
	}

	// Deleting again matches nothing and is not an error
	affected, err = store.DeleteHabit(ctx, exercise.ID)
	if err != nil {
		t.Fatalf("second DeleteHabit failed: %v", err)
	}
	if affected != 0 {
		t.Errorf("expected 0 rows affected, got %d", affected)
	}
}

func TestForeignKeyRejectsOrphanCompletion(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	conn, err := store.GetDB().Conn(ctx)
	if err != nil {
		t.Fatalf("Conn failed: %v", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("pragma failed: %v", err)
	}
	_, err = conn.ExecContext(ctx, "INSERT INTO habit_completions (habit_id) VALUES (999)")
	if err == nil {
		t.Error("expected foreign key violation for unknown habit")
	}
}

func TestSQLDefaultTimestampsAreReadable(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := store.GetDB().Exec("INSERT INTO habits (name) VALUES ('Stretch')"); err != nil {
		t.Fatalf("raw insert failed: %v", err)
	}

	habits, err := store.GetAllHabits(ctx)
	if err != nil {
		t.Fatalf("GetAllHabits failed: %v", err)
	}
	if len(habits) != 1 {
		t.Fatalf("expected 1 habit, got %d", len(habits))
	}
	if habits[0].CreatedAt.IsZero() {
		t.Error("expected CURRENT_TIMESTAMP default to parse")
	}
	if habits[0].Description != "" || !habits[0].IsActive {
		t.Errorf("unexpected defaults: %+v", habits[0])
	}
}

func TestConcurrentCompletions(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	habit := addHabit(t, store, "Water")

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := store.AddCompletion(ctx, habit.ID, time.Now()); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent AddCompletion failed: %v", err)
	}

	times, err := store.GetCompletionTimes(ctx, habit.ID)
	if err != nil {
		t.Fatalf("GetCompletionTimes failed: %v", err)
	}
	if len(times) != 20 {
		t.Errorf("expected 20 completions, got %d", len(times))
	}
}
