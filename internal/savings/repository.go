package savings

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fintrackhq/fintrack/internal/ledger/domain"
	"github.com/shopspring/decimal"
)

var ErrGoalNotFound = errors.New("savings goal not found")

type Repository interface {
	findByScope(ctx context.Context, scope domain.Scope) ([]Goal, error)
	save(ctx context.Context, scope domain.Scope, goal Goal) (Goal, error)
	updateCurrentAmount(ctx context.Context, scope domain.Scope, goalID string, amount decimal.Decimal) (Goal, error)
}

type goalRepository struct {
	db *sql.DB
}

func NewGoalRepository(db *sql.DB) Repository {
	return &goalRepository{db: db}
}

func (r *goalRepository) findByScope(ctx context.Context, scope domain.Scope) ([]Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, COALESCE(description, ''), category, target_amount, current_amount,
		        COALESCE(to_char(target_date, 'YYYY-MM-DD'), ''), priority, status, created_at
		 FROM savings_goals
		 WHERE user_id = $1 AND tenant_id = $2
		 ORDER BY created_at DESC`,
		scope.UserID, scope.TenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		var goal Goal
		if err := rows.Scan(&goal.ID, &goal.Title, &goal.Description, &goal.Category,
			&goal.TargetAmount, &goal.CurrentAmount, &goal.TargetDate,
			&goal.Priority, &goal.Status, &goal.CreatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

func (r *goalRepository) save(ctx context.Context, scope domain.Scope, goal Goal) (Goal, error) {
	targetDate := sql.NullString{String: goal.TargetDate, Valid: goal.TargetDate != ""}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO savings_goals (id, user_id, tenant_id, title, description, category,
		                            target_amount, current_amount, target_date, priority, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING created_at`,
		goal.ID, scope.UserID, scope.TenantID, goal.Title, goal.Description, goal.Category,
		goal.TargetAmount, goal.CurrentAmount, targetDate, goal.Priority, goal.Status,
	).Scan(&goal.CreatedAt)
	if err != nil {
		return Goal{}, err
	}
	return goal, nil
}

func (r *goalRepository) updateCurrentAmount(ctx context.Context, scope domain.Scope, goalID string, amount decimal.Decimal) (Goal, error) {
	var goal Goal
	err := r.db.QueryRowContext(ctx,
		`UPDATE savings_goals
		 SET current_amount = $1, updated_at = NOW()
		 WHERE id = $2 AND user_id = $3 AND tenant_id = $4
		 RETURNING id, title, COALESCE(description, ''), category, target_amount, current_amount,
		           COALESCE(to_char(target_date, 'YYYY-MM-DD'), ''), priority, status, created_at`,
		amount, goalID, scope.UserID, scope.TenantID,
	).Scan(&goal.ID, &goal.Title, &goal.Description, &goal.Category,
		&goal.TargetAmount, &goal.CurrentAmount, &goal.TargetDate,
		&goal.Priority, &goal.Status, &goal.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Goal{}, ErrGoalNotFound
		}
		return Goal{}, err
	}
	return goal, nil
}
