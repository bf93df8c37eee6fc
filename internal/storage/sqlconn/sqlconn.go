// Package sqlconn runs a unit of work on a connection dedicated to one call.
package sqlconn

import (
	"context"
	"database/sql"
	"fmt"
)

// InTx acquires a connection from db, runs the setup statements on it outside
// any transaction, then runs fn inside a transaction on that connection.
//
// The transaction commits only if fn returns nil; on every other path it is
// rolled back. The connection is returned to the pool on all exit paths.
func InTx(ctx context.Context, db *sql.DB, setup []string, fn func(tx *sql.Tx) error) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	for _, stmt := range setup {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute %q: %w", stmt, err)
		}
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
