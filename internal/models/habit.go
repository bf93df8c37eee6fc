package models

import "time"

// Habit is a named recurring activity.
// IsActive is reserved: it is stored with a default of true and no operation changes it.
type Habit struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	IsActive    bool      `json:"is_active"`
}

// Completion records one performance of a habit.
type Completion struct {
	ID             int64     `json:"id"`
	HabitID        int64     `json:"habit_id"`
	CompletionDate time.Time `json:"completion_date"`
}

// CompletionRecord is a completion joined with the name of its habit.
type CompletionRecord struct {
	ID             int64     `json:"id"`
	HabitName      string    `json:"habit_name"`
	CompletionDate time.Time `json:"completion_date"`
}
