package domain

import (
	"context"
	"time"

	"github.com/fintrackhq/fintrack/internal/ledger/errors"
	"github.com/shopspring/decimal"
)

type IncomeRepository interface {
	FindByScope(ctx context.Context, scope Scope) ([]IncomeSource, error)
	Save(ctx context.Context, scope Scope, source IncomeSource) (IncomeSource, error)
}

// IncomeSource is immutable once created, there is no update path.
type IncomeSource struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
	CreatedAt time.Time       `json:"created_at"`
}

func (s *IncomeSource) Validate() error {
	if s.Name == "" {
		return errors.NewValidationError("Income source name is required")
	}
	if !s.Amount.IsPositive() {
		return errors.NewValidationError("Income amount must be greater than zero")
	}
	if _, err := time.Parse("2006-01-02", s.Date); err != nil {
		return errors.NewValidationError("Date must be in YYYY-MM-DD format")
	}
	return nil
}
