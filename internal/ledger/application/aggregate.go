package application

import (
	"github.com/fintrackhq/fintrack/internal/ledger/domain"
	"github.com/shopspring/decimal"
)

// Aggregate math over the in-memory collections. Pure and recomputed on every
// call; cost is linear in the number of records. Spend and income totals come
// from the transaction ledger only, never from BudgetCategory.spent or
// IncomeSource sums, so untracked expenses are counted and nothing is counted
// twice.

var oneHundred = decimal.NewFromInt(100)

func TotalBudget(budgets []domain.BudgetCategory) decimal.Decimal {
	total := decimal.Zero
	for _, category := range budgets {
		total = total.Add(category.Budget)
	}
	return total
}

func TotalSpent(transactions []domain.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, transaction := range transactions {
		if transaction.Amount.IsNegative() {
			total = total.Add(transaction.Amount.Abs())
		}
	}
	return total
}

func TotalIncome(transactions []domain.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, transaction := range transactions {
		if transaction.Amount.IsPositive() {
			total = total.Add(transaction.Amount)
		}
	}
	return total
}

func CurrentBalance(transactions []domain.Transaction) decimal.Decimal {
	return TotalIncome(transactions).Sub(TotalSpent(transactions))
}

// BudgetUsagePercentage may exceed 100 when over budget; clamping is a
// presentation concern. A zero total budget yields 0, not an error.
func BudgetUsagePercentage(budgets []domain.BudgetCategory, transactions []domain.Transaction) int64 {
	totalBudget := TotalBudget(budgets)
	if !totalBudget.IsPositive() {
		return 0
	}
	return roundPercent(TotalSpent(transactions), totalBudget)
}

// SavingsPercentage is negative when spending exceeds income. A zero total
// income yields 0.
func SavingsPercentage(transactions []domain.Transaction) int64 {
	totalIncome := TotalIncome(transactions)
	if !totalIncome.IsPositive() {
		return 0
	}
	return roundPercent(CurrentBalance(transactions), totalIncome)
}

// roundPercent rounds half toward positive infinity, so -12.5 becomes -12
// and 12.5 becomes 13.
func roundPercent(part, whole decimal.Decimal) int64 {
	ratio := part.Div(whole).Mul(oneHundred)
	return ratio.Add(decimal.New(5, -1)).Floor().IntPart()
}
