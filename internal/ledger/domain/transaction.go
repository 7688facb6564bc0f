package domain

import (
	"context"
	"time"

	"github.com/fintrackhq/fintrack/internal/ledger/errors"
	"github.com/shopspring/decimal"
)

type TransactionRepository interface {
	FindByScope(ctx context.Context, scope Scope) ([]Transaction, error)
	Save(ctx context.Context, scope Scope, transaction Transaction) (Transaction, error)
}

// Transaction is one row of the append-only ledger. Amount is signed:
// positive entries are credits, negative entries are debits. The ledger is
// the canonical audit trail, aggregates are derived from it alone.
type Transaction struct {
	ID          int64           `json:"id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Mode        string          `json:"mode"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (t *Transaction) Validate() error {
	if len(t.Description) > 200 {
		return errors.NewValidationError("Description must be of length less than 200")
	}
	if _, err := time.Parse("2006-01-02", t.Date); err != nil {
		return errors.NewValidationError("Date must be in YYYY-MM-DD format")
	}
	return nil
}
