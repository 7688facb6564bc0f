package reminders

import (
	"context"
	"database/sql"
	"errors"
)

var ErrReminderNotFound = errors.New("reminder not found")

// Reminders are scoped by user only: the reminders table predates tenant
// partitioning and carries no tenant column.
type Repository interface {
	findByUser(ctx context.Context, userID string) ([]Reminder, error)
	findUpcoming(ctx context.Context, userID string, limit int) ([]Reminder, error)
	findDueSoon(ctx context.Context, withinDays int) ([]DueReminder, error)
	save(ctx context.Context, userID string, reminder Reminder) (Reminder, error)
	markCompleted(ctx context.Context, userID string, reminderID int64) error
	delete(ctx context.Context, userID string, reminderID int64) error
}

type reminderRepository struct {
	db *sql.DB
}

func NewReminderRepository(db *sql.DB) Repository {
	return &reminderRepository{db: db}
}

const reminderColumns = `id, title, COALESCE(description, ''), COALESCE(category, ''), amount,
		to_char(due_date, 'YYYY-MM-DD'), COALESCE(priority, 'medium'), COALESCE(completed, false), created_at`

func (r *reminderRepository) findByUser(ctx context.Context, userID string) ([]Reminder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reminderColumns+`
		 FROM reminders
		 WHERE user_id = $1
		 ORDER BY due_date ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminders(rows)
}

func (r *reminderRepository) findUpcoming(ctx context.Context, userID string, limit int) ([]Reminder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reminderColumns+`
		 FROM reminders
		 WHERE user_id = $1 AND COALESCE(completed, false) = false AND due_date >= CURRENT_DATE
		 ORDER BY due_date ASC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminders(rows)
}

func (r *reminderRepository) findDueSoon(ctx context.Context, withinDays int) ([]DueReminder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, `+reminderColumns+`
		 FROM reminders
		 WHERE COALESCE(completed, false) = false
		   AND due_date BETWEEN CURRENT_DATE AND CURRENT_DATE + $1 * INTERVAL '1 day'
		 ORDER BY due_date ASC`,
		withinDays,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var due []DueReminder
	for rows.Next() {
		var entry DueReminder
		if err := rows.Scan(&entry.UserID, &entry.ID, &entry.Title, &entry.Description, &entry.Category,
			&entry.Amount, &entry.DueDate, &entry.Priority, &entry.Completed, &entry.CreatedAt); err != nil {
			return nil, err
		}
		due = append(due, entry)
	}
	return due, rows.Err()
}

func (r *reminderRepository) save(ctx context.Context, userID string, reminder Reminder) (Reminder, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO reminders (user_id, title, description, category, amount, due_date, priority)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+reminderColumns,
		userID, reminder.Title, reminder.Description, reminder.Category,
		reminder.Amount, reminder.DueDate, reminder.Priority,
	).Scan(&reminder.ID, &reminder.Title, &reminder.Description, &reminder.Category,
		&reminder.Amount, &reminder.DueDate, &reminder.Priority, &reminder.Completed, &reminder.CreatedAt)
	if err != nil {
		return Reminder{}, err
	}
	return reminder, nil
}

func (r *reminderRepository) markCompleted(ctx context.Context, userID string, reminderID int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE reminders SET completed = true, updated_at = NOW() WHERE id = $1 AND user_id = $2`,
		reminderID, userID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (r *reminderRepository) delete(ctx context.Context, userID string, reminderID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM reminders WHERE id = $1 AND user_id = $2`,
		reminderID, userID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrReminderNotFound
	}
	return nil
}

func scanReminders(rows *sql.Rows) ([]Reminder, error) {
	var list []Reminder
	for rows.Next() {
		var reminder Reminder
		if err := rows.Scan(&reminder.ID, &reminder.Title, &reminder.Description, &reminder.Category,
			&reminder.Amount, &reminder.DueDate, &reminder.Priority, &reminder.Completed, &reminder.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, reminder)
	}
	return list, rows.Err()
}
