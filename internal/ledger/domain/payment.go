package domain

import (
	"github.com/fintrackhq/fintrack/internal/ledger/errors"
	"github.com/shopspring/decimal"
)

// Payment is the input of the compound payment operation. Category refers to
// a budget category by name; an unknown name is valid and simply leaves every
// category untouched.
type Payment struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Merchant    string          `json:"merchant"`
}

func (p *Payment) Validate() error {
	if !p.Amount.IsPositive() {
		return errors.NewValidationError("Payment amount must be greater than zero")
	}
	if p.Merchant == "" {
		return errors.NewValidationError("Merchant is required")
	}
	if len(p.Description) > 150 {
		return errors.NewValidationError("Description must be of length less than 150")
	}
	return nil
}
