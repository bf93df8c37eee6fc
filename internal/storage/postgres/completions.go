package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/dailyhabits/internal/models"
	"github.com/julianstephens/dailyhabits/internal/storage/sqlconn"
)

func (s *Store) AddCompletion(ctx context.Context, habitID int64, at time.Time) (models.Completion, bool, error) {
	completion := models.Completion{HabitID: habitID, CompletionDate: at}
	found := false

	err := sqlconn.InTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM habits WHERE id = $1`, habitID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true

		return tx.QueryRowContext(ctx, `
			INSERT INTO habit_completions (habit_id, completion_date)
			VALUES ($1, $2)
			RETURNING id`,
			habitID, at.UTC(),
		).Scan(&completion.ID)
	})
	if err != nil {
		return models.Completion{}, false, fmt.Errorf("failed to record completion for habit %d: %w", habitID, err)
	}
	if !found {
		return models.Completion{}, false, nil
	}
	return completion, true, nil
}

func (s *Store) GetAllCompletions(ctx context.Context) ([]models.CompletionRecord, error) {
	records := []models.CompletionRecord{}
	err := sqlconn.InTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT hc.id, h.name, hc.completion_date
			FROM habit_completions hc
			JOIN habits h ON hc.habit_id = h.id
			ORDER BY hc.completion_date DESC, hc.id DESC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var r models.CompletionRecord
			var completedAt sql.NullTime
			if err := rows.Scan(&r.ID, &r.HabitName, &completedAt); err != nil {
				return err
			}
			if completedAt.Valid {
				r.CompletionDate = completedAt.Time.Local()
			}
			records = append(records, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}
	return records, nil
}

func (s *Store) GetCompletionTimes(ctx context.Context, habitID int64) ([]time.Time, error) {
	var times []time.Time
	err := sqlconn.InTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT completion_date FROM habit_completions
			WHERE habit_id = $1
			ORDER BY completion_date DESC`, habitID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var completedAt sql.NullTime
			if err := rows.Scan(&completedAt); err != nil {
				return err
			}
			if completedAt.Valid {
				times = append(times, completedAt.Time.Local())
			}
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load completions for habit %d: %w", habitID, err)
	}
	return times, nil
}
