package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/dailyhabits/internal/backup"
	"github.com/julianstephens/dailyhabits/internal/cli"
	"github.com/julianstephens/dailyhabits/internal/storage/postgres"
	"github.com/julianstephens/dailyhabits/internal/storage/sqlite"
)

type DoctorCmd struct {
	Timeout time.Duration `help:"Timeout for database checks." default:"10s"`
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	bg, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()

	hasError := false
	report := func(name string, err error) {
		if err != nil {
			ctx.Printf("❌ %s: FAIL\n", name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			return
		}
		ctx.Printf("✓ %s: OK\n", name)
	}

	dbErr := checkDBReachable(bg, ctx)
	report("Database reachable", dbErr)

	if dbErr == nil {
		report("Schema version", checkSchemaVersion(bg, ctx))
	} else {
		ctx.Printf("⊘ Schema version: SKIPPED (database not reachable)\n")
	}

	report("Clock/timezone", checkClockTimezone(ctx, time.Now()))

	if _, ok := ctx.Store.(*postgres.Store); ok {
		if ctx.Keyring.IsAvailable() {
			ctx.Printf("✓ OS keyring: OK\n")
		} else {
			ctx.Printf("⚠ OS keyring: WARNING\n")
			ctx.Printf("   The OS keyring is not available; pass the connection string with --db instead\n")
		}
	}

	if store, ok := ctx.Store.(*sqlite.Store); ok {
		checkBackups(ctx, backup.NewManager(store.GetConfigPath(), ctx.Service.Clock()))
	}

	ctx.Println()
	if hasError {
		return errors.New("one or more checks failed")
	}
	ctx.Println("All checks passed.")
	return nil
}

func checkDBReachable(bg context.Context, ctx *cli.Context) error {
	if err := ctx.Service.EnsureReady(bg); err != nil {
		return err
	}
	return ctx.Store.Ping(bg)
}

func checkSchemaVersion(bg context.Context, ctx *cli.Context) error {
	current, latest, err := ctx.Store.SchemaVersion(bg)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

// checkClockTimezone verifies the host clock is plausible, since "today" for
// streaks is the local calendar date.
func checkClockTimezone(ctx *cli.Context, now time.Time) error {
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if name, offset := now.Zone(); offset == 0 && now.Location() == time.UTC {
		ctx.Printf("   Note: timezone is %s; streak days roll over at UTC midnight\n", name)
	}
	return nil
}

// backupMaxAge is how old the newest backup may get before doctor warns.
const backupMaxAge = 7 * 24 * time.Hour

// checkBackups only warns; a missing backup never fails the run.
func checkBackups(ctx *cli.Context, mgr *backup.Manager) {
	backups, err := mgr.List()
	switch {
	case err != nil:
		ctx.Printf("⚠ Backups: WARNING\n")
		ctx.Printf("   Failed to list backups: %v\n", err)
	case len(backups) == 0:
		ctx.Printf("⚠ Backups: WARNING\n")
		ctx.Printf("   No backups found; run 'dailyhabits backup create'\n")
	case ctx.Service.Clock().Now().Sub(backups[0].Timestamp) > backupMaxAge:
		ctx.Printf("⚠ Backups: WARNING\n")
		ctx.Printf("   Newest backup is from %s\n", backups[0].Timestamp.Format("2006-01-02"))
	default:
		ctx.Printf("✓ Backups: OK (%d available)\n", len(backups))
	}
}
