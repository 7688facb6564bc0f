package domain

import (
	"context"
	"time"

	"github.com/fintrackhq/fintrack/internal/ledger/errors"
	"github.com/shopspring/decimal"
)

type BudgetRepository interface {
	FindByScope(ctx context.Context, scope Scope) ([]BudgetCategory, error)
	Save(ctx context.Context, scope Scope, category BudgetCategory) (BudgetCategory, error)
	UpdateSpent(ctx context.Context, scope Scope, categoryID int64, spent decimal.Decimal) (BudgetCategory, error)
}

type BudgetCategory struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Budget    decimal.Decimal `json:"budget"`
	Spent     decimal.Decimal `json:"spent"`
	Color     string          `json:"color"`
	Icon      string          `json:"icon"`
	CreatedAt time.Time       `json:"created_at"`
}

func (c *BudgetCategory) Validate() error {
	if c.Name == "" {
		return errors.NewValidationError("Category name is required")
	}
	if len(c.Name) > 100 {
		return errors.NewValidationError("Category name must be of length less than 100")
	}
	if c.Budget.IsNegative() {
		return errors.NewValidationError("Budget must not be negative")
	}
	return nil
}
