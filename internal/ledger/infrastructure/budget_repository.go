package infrastructure

import (
	"context"
	"database/sql"

	"github.com/fintrackhq/fintrack/internal/ledger/domain"
	ledgerErrors "github.com/fintrackhq/fintrack/internal/ledger/errors"
	"github.com/shopspring/decimal"
)

type BudgetRepository struct {
	db *sql.DB
}

func NewBudgetRepository(db *sql.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

// FindByScope returns categories most recent first. The ordering is a
// user-facing contract shared by every collection repository.
func (r *BudgetRepository) FindByScope(ctx context.Context, scope domain.Scope) ([]domain.BudgetCategory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, budget, spent, color, icon, created_at
		 FROM budget_categories
		 WHERE user_id = $1 AND tenant_id = $2
		 ORDER BY created_at DESC`,
		scope.UserID, scope.TenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.BudgetCategory
	for rows.Next() {
		var category domain.BudgetCategory
		if err := rows.Scan(&category.ID, &category.Name, &category.Budget, &category.Spent,
			&category.Color, &category.Icon, &category.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *BudgetRepository) Save(ctx context.Context, scope domain.Scope, category domain.BudgetCategory) (domain.BudgetCategory, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO budget_categories (user_id, tenant_id, name, budget, spent, color, icon)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, name, budget, spent, color, icon, created_at`,
		scope.UserID, scope.TenantID, category.Name, category.Budget, category.Spent, category.Color, category.Icon,
	).Scan(&category.ID, &category.Name, &category.Budget, &category.Spent,
		&category.Color, &category.Icon, &category.CreatedAt)
	if err != nil {
		return domain.BudgetCategory{}, ledgerErrors.NewRemoteWriteError("budget_categories", "insert", err)
	}
	return category, nil
}

func (r *BudgetRepository) UpdateSpent(ctx context.Context, scope domain.Scope, categoryID int64, spent decimal.Decimal) (domain.BudgetCategory, error) {
	var category domain.BudgetCategory
	err := r.db.QueryRowContext(ctx,
		`UPDATE budget_categories
		 SET spent = $1, updated_at = NOW()
		 WHERE id = $2 AND user_id = $3 AND tenant_id = $4
		 RETURNING id, name, budget, spent, color, icon, created_at`,
		spent, categoryID, scope.UserID, scope.TenantID,
	).Scan(&category.ID, &category.Name, &category.Budget, &category.Spent,
		&category.Color, &category.Icon, &category.CreatedAt)
	if err != nil {
		return domain.BudgetCategory{}, ledgerErrors.NewRemoteWriteError("budget_categories", "update", err)
	}
	return category, nil
}
