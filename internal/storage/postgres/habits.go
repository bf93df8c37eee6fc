package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/dailyhabits/internal/models"
	"github.com/julianstephens/dailyhabits/internal/storage/sqlconn"
)

func (s *Store) AddHabit(ctx context.Context, habit models.Habit) (models.Habit, error) {
	err := sqlconn.InTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, `
			INSERT INTO habits (name, description, created_at)
			VALUES ($1, $2, $3)
			RETURNING id, is_active`,
			habit.Name, habit.Description, habit.CreatedAt.UTC(),
		).Scan(&habit.ID, &habit.IsActive)
	})
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to insert habit: %w", err)
	}
	return habit, nil
}

func (s *Store) GetAllHabits(ctx context.Context) ([]models.Habit, error) {
	habits := []models.Habit{}
	err := sqlconn.InTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT id, name, COALESCE(description, ''), created_at, COALESCE(is_active, TRUE)
			FROM habits ORDER BY id`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var h models.Habit
			var createdAt sql.NullTime
			if err := rows.Scan(&h.ID, &h.Name, &h.Description, &createdAt, &h.IsActive); err != nil {
				return err
			}
			if createdAt.Valid {
				h.CreatedAt = createdAt.Time.Local()
			}
			habits = append(habits, h)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	return habits, nil
}

func (s *Store) DeleteHabit(ctx context.Context, id int64) (int64, error) {
	var affected int64
	err := sqlconn.InTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM habits WHERE id = $1`, id)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete habit %d: %w", id, err)
	}
	return affected, nil
}
