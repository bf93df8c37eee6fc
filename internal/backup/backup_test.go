package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/dailyhabits/internal/clock"
	"github.com/julianstephens/dailyhabits/internal/errors"
	"github.com/julianstephens/dailyhabits/internal/models"
	"github.com/julianstephens/dailyhabits/internal/storage/sqlite"
)

var start = time.Date(2025, 3, 10, 8, 30, 0, 0, time.Local)

// setupTestDB creates an initialized habit database holding the given habits
// and returns its path. The store is closed before returning.
func setupTestDB(t *testing.T, names ...string) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "habits.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	for _, name := range names {
		if _, err := store.AddHabit(context.Background(), models.Habit{Name: name, CreatedAt: start}); err != nil {
			t.Fatalf("failed to add habit %q: %v", name, err)
		}
	}
	if err := store.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}
	return dbPath
}

func habitNames(t *testing.T, dbPath string) []string {
	t.Helper()
	store := sqlite.NewStore(dbPath)
	defer store.Close()
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	habits, err := store.GetAllHabits(context.Background())
	if err != nil {
		t.Fatalf("GetAllHabits failed: %v", err)
	}
	var names []string
	for _, h := range habits {
		names = append(names, h.Name)
	}
	return names
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t, "Read")
	mgr := NewManager(dbPath, clock.NewManual(start))

	path, err := mgr.Create(context.Background())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if filepath.Dir(path) != filepath.Join(filepath.Dir(dbPath), DirName) {
		t.Errorf("backup written to %s, want backups dir", path)
	}
	if got := filepath.Base(path); got != "habits-20250310-083000.db" {
		t.Errorf("backup name = %s", got)
	}
	if names := habitNames(t, path); len(names) != 1 || names[0] != "Read" {
		t.Errorf("backup holds habits %v, want [Read]", names)
	}
}

func TestCreateBackupMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"), nil)

	_, err := mgr.Create(context.Background())
	if !errors.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestUniqueBackupFilenames(t *testing.T) {
	dbPath := setupTestDB(t, "Read")
	mgr := NewManager(dbPath, clock.NewManual(start))

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		path, err := mgr.Create(context.Background())
		if err != nil {
			t.Fatalf("Create #%d failed: %v", i, err)
		}
		if seen[path] {
			t.Fatalf("duplicate backup path %s", path)
		}
		seen[path] = true
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups, got %d", len(backups))
	}
	for _, b := range backups {
		if !b.Timestamp.Equal(start) {
			t.Errorf("backup %s timestamp = %v, want %v", b.Path, b.Timestamp, start)
		}
	}
	if _, ok := seen[filepath.Join(mgr.Dir(), "habits-20250310-083000-1.db")]; !ok {
		t.Errorf("expected a counter-suffixed name, got %v", seen)
	}
}

func TestBackupRotation(t *testing.T) {
	dbPath := setupTestDB(t, "Read")
	clk := clock.NewManual(start)
	mgr := NewManager(dbPath, clk)

	for i := 0; i < MaxBackups+3; i++ {
		if _, err := mgr.Create(context.Background()); err != nil {
			t.Fatalf("Create #%d failed: %v", i, err)
		}
		clk.Advance(time.Hour)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != MaxBackups {
		t.Fatalf("expected %d backups after rotation, got %d", MaxBackups, len(backups))
	}
	// the three oldest are gone
	oldest := start.Add(3 * time.Hour)
	if !backups[len(backups)-1].Timestamp.Equal(oldest) {
		t.Errorf("oldest kept backup = %v, want %v", backups[len(backups)-1].Timestamp, oldest)
	}
}

func TestListBackups(t *testing.T) {
	dbPath := setupTestDB(t, "Read")
	clk := clock.NewManual(start)
	mgr := NewManager(dbPath, clk)

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List before any backup failed: %v", err)
	}
	if len(backups) != 0 {
		t.Fatalf("expected no backups, got %d", len(backups))
	}

	for i := 0; i < 2; i++ {
		if _, err := mgr.Create(context.Background()); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		clk.AdvanceDays(1)
	}
	// unrelated files in the directory are ignored
	for _, name := range []string{"notes.txt", "habits-garbage.db", "other-20250310-083000.db"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err = mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("expected 2 backups, got %d", len(backups))
	}
	if !backups[0].Timestamp.After(backups[1].Timestamp) {
		t.Errorf("backups not sorted newest first: %v, %v", backups[0].Timestamp, backups[1].Timestamp)
	}
	if backups[0].Size == 0 {
		t.Error("backup size should be non-zero")
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t, "Read")
	clk := clock.NewManual(start)
	mgr := NewManager(dbPath, clk)

	snapshot, err := mgr.Create(context.Background())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// change the live database after the snapshot
	store := sqlite.NewStore(dbPath)
	if err := store.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddHabit(context.Background(), models.Habit{Name: "Run", CreatedAt: start}); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}
	clk.Advance(time.Minute)

	previous, err := mgr.Restore(context.Background(), snapshot)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if names := habitNames(t, dbPath); len(names) != 1 || names[0] != "Read" {
		t.Errorf("restored habits = %v, want [Read]", names)
	}
	if previous == "" {
		t.Fatal("expected a pre-restore backup")
	}
	if names := habitNames(t, previous); len(names) != 2 {
		t.Errorf("pre-restore backup holds %v, want 2 habits", names)
	}
	if _, err := os.Stat(dbPath + ".restore.tmp"); !os.IsNotExist(err) {
		t.Error("temporary restore file left behind")
	}
}

func TestRestoreRejectsInvalidBackup(t *testing.T) {
	dbPath := setupTestDB(t, "Read")
	mgr := NewManager(dbPath, clock.NewManual(start))

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("not a database"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Restore(context.Background(), bogus); !errors.IsInvalid(err) {
		t.Errorf("expected invalid error for corrupt file, got %v", err)
	}

	if _, err := mgr.Restore(context.Background(), filepath.Join(t.TempDir(), "nope.db")); !errors.IsNotFound(err) {
		t.Errorf("expected not found error for missing file, got %v", err)
	}

	if names := habitNames(t, dbPath); len(names) != 1 {
		t.Errorf("live database changed after rejected restore: %v", names)
	}
}
