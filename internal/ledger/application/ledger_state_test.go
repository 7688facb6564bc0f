package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fintrackhq/fintrack/internal/ledger/domain"
	ledgerErrors "github.com/fintrackhq/fintrack/internal/ledger/errors"
	"github.com/fintrackhq/fintrack/internal/ledger/infrastructure"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var testScope = domain.Scope{UserID: "user-1", TenantID: "tenant-1"}

func newTestState(
	budgetRepo *infrastructure.MockBudgetRepository,
	incomeRepo *infrastructure.MockIncomeRepository,
	transactionRepo *infrastructure.MockTransactionRepository,
) *LedgerState {
	return NewLedgerState(testScope, budgetRepo, incomeRepo, transactionRepo)
}

func newReadyState(t *testing.T) (*LedgerState, *infrastructure.MockBudgetRepository, *infrastructure.MockIncomeRepository, *infrastructure.MockTransactionRepository) {
	t.Helper()
	budgetRepo := &infrastructure.MockBudgetRepository{}
	incomeRepo := &infrastructure.MockIncomeRepository{}
	transactionRepo := &infrastructure.MockTransactionRepository{}

	state := newTestState(budgetRepo, incomeRepo, transactionRepo)
	err := state.Load(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, StateReady, state.State())
	return state, budgetRepo, incomeRepo, transactionRepo
}

func TestLoadMovesSessionToReady(t *testing.T) {
	budgetRepo := &infrastructure.MockBudgetRepository{}
	incomeRepo := &infrastructure.MockIncomeRepository{}
	transactionRepo := &infrastructure.MockTransactionRepository{}
	_, _ = budgetRepo.Save(context.Background(), testScope, domain.BudgetCategory{Name: "Food", Budget: dec("5000")})
	_, _ = transactionRepo.Save(context.Background(), testScope, domain.Transaction{Amount: dec("-500"), Date: "2026-08-01"})

	state := newTestState(budgetRepo, incomeRepo, transactionRepo)
	assert.Equal(t, StateUnloaded, state.State())

	err := state.Load(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, StateReady, state.State())
	snapshot := state.Snapshot()
	assert.Len(t, snapshot.Budgets, 1)
	assert.Len(t, snapshot.Transactions, 1)
	assert.Empty(t, snapshot.Income)
}

func TestLoadFailureRevertsToUnloaded(t *testing.T) {
	budgetRepo := &infrastructure.MockBudgetRepository{FindErr: errors.New("connection refused")}
	state := newTestState(budgetRepo, &infrastructure.MockIncomeRepository{}, &infrastructure.MockTransactionRepository{})

	err := state.Load(context.Background())

	assert.Error(t, err)
	assert.Equal(t, StateUnloaded, state.State())
	assert.ErrorIs(t, state.RefreshTransactions(context.Background()), ledgerErrors.ErrAuthRequired)
}

func TestMutatorsGuardedBeforeLoad(t *testing.T) {
	state := newTestState(&infrastructure.MockBudgetRepository{}, &infrastructure.MockIncomeRepository{}, &infrastructure.MockTransactionRepository{})

	_, _, err := state.AddIncome(context.Background(), domain.IncomeSource{Name: "Salary", Amount: dec("45000"), Date: "2026-08-01"})
	assert.ErrorIs(t, err, ledgerErrors.ErrAuthRequired)

	_, err = state.AddBudget(context.Background(), domain.BudgetCategory{Name: "Food", Budget: dec("5000")})
	assert.ErrorIs(t, err, ledgerErrors.ErrAuthRequired)

	_, err = state.ProcessPayment(context.Background(), domain.Payment{Amount: dec("500"), Merchant: "Cafe"})
	assert.ErrorIs(t, err, ledgerErrors.ErrAuthRequired)
}

func TestTeardownDropsCacheAndGuardsMutators(t *testing.T) {
	state, _, _, _ := newReadyState(t)

	state.Teardown()

	assert.Equal(t, StateUnloaded, state.State())
	assert.Empty(t, state.Snapshot().Budgets)
	_, err := state.AddBudget(context.Background(), domain.BudgetCategory{Name: "Food", Budget: dec("5000")})
	assert.ErrorIs(t, err, ledgerErrors.ErrAuthRequired)
}

func TestAddIncomeCreatesSourceAndMirrorTransaction(t *testing.T) {
	state, _, incomeRepo, transactionRepo := newReadyState(t)

	source, mirror, err := state.AddIncome(context.Background(), domain.IncomeSource{
		Name:   "Salary",
		Amount: dec("45000"),
		Date:   "2026-08-01",
	})

	assert.NoError(t, err)
	assert.NotZero(t, source.ID)
	assert.Equal(t, "Salary Credit", mirror.Description)
	assert.True(t, dec("45000").Equal(mirror.Amount))
	assert.Equal(t, "Income", mirror.Category)
	assert.Equal(t, "Bank Transfer", mirror.Mode)
	assert.Equal(t, "completed", mirror.Status)
	assert.Equal(t, "2026-08-01", mirror.Date)

	// Exactly one record landed in each remote collection.
	assert.Len(t, incomeRepo.Sources, 1)
	assert.Len(t, transactionRepo.Transactions, 1)

	snapshot := state.Snapshot()
	assert.Len(t, snapshot.Income, 1)
	assert.Len(t, snapshot.Transactions, 1)
}

func TestAddIncomePrependsNewestFirst(t *testing.T) {
	state, _, _, _ := newReadyState(t)

	first, _, err := state.AddIncome(context.Background(), domain.IncomeSource{Name: "Salary", Amount: dec("45000"), Date: "2026-08-01"})
	assert.NoError(t, err)
	second, _, err := state.AddIncome(context.Background(), domain.IncomeSource{Name: "Bonus", Amount: dec("5000"), Date: "2026-08-15"})
	assert.NoError(t, err)

	snapshot := state.Snapshot()
	assert.Equal(t, second.ID, snapshot.Income[0].ID)
	assert.Equal(t, first.ID, snapshot.Income[1].ID)
}

func TestAddIncomeValidation(t *testing.T) {
	state, _, incomeRepo, _ := newReadyState(t)

	_, _, err := state.AddIncome(context.Background(), domain.IncomeSource{Name: "", Amount: dec("100"), Date: "2026-08-01"})
	assert.True(t, ledgerErrors.IsValidationError(err))

	_, _, err = state.AddIncome(context.Background(), domain.IncomeSource{Name: "Salary", Amount: dec("-100"), Date: "2026-08-01"})
	assert.True(t, ledgerErrors.IsValidationError(err))

	_, _, err = state.AddIncome(context.Background(), domain.IncomeSource{Name: "Salary", Amount: dec("100"), Date: "01-08-2026"})
	assert.True(t, ledgerErrors.IsValidationError(err))

	assert.Empty(t, incomeRepo.Sources)
}

func TestAddIncomePartialFailureKeepsCommittedSource(t *testing.T) {
	state, _, incomeRepo, transactionRepo := newReadyState(t)
	transactionRepo.SaveErr = errors.New("timeout")

	source, _, err := state.AddIncome(context.Background(), domain.IncomeSource{
		Name:   "Salary",
		Amount: dec("45000"),
		Date:   "2026-08-01",
	})

	assert.True(t, ledgerErrors.IsPartialFailureError(err))
	var partial *ledgerErrors.PartialFailureError
	assert.True(t, errors.As(err, &partial))
	assert.Equal(t, "income_sources insert", partial.Completed)
	assert.Equal(t, "transactions insert", partial.Failed)

	// The committed half is returned and cached, the failed half is not.
	assert.NotZero(t, source.ID)
	assert.Len(t, incomeRepo.Sources, 1)
	assert.Empty(t, transactionRepo.Transactions)
	snapshot := state.Snapshot()
	assert.Len(t, snapshot.Income, 1)
	assert.Empty(t, snapshot.Transactions)
}

func TestAddIncomeRemoteFailureLeavesCacheUntouched(t *testing.T) {
	state, _, incomeRepo, _ := newReadyState(t)
	incomeRepo.SaveErr = errors.New("timeout")

	_, _, err := state.AddIncome(context.Background(), domain.IncomeSource{
		Name:   "Salary",
		Amount: dec("45000"),
		Date:   "2026-08-01",
	})

	assert.True(t, ledgerErrors.IsRemoteWriteError(err))
	assert.Empty(t, state.Snapshot().Income)
	assert.Empty(t, state.Snapshot().Transactions)
}

func TestAddBudgetAppendsWithZeroSpent(t *testing.T) {
	state, _, _, _ := newReadyState(t)

	first, err := state.AddBudget(context.Background(), domain.BudgetCategory{Name: "Food", Budget: dec("5000"), Spent: dec("999")})
	assert.NoError(t, err)
	second, err := state.AddBudget(context.Background(), domain.BudgetCategory{Name: "Transport", Budget: dec("2000")})
	assert.NoError(t, err)

	assert.True(t, decimal.Zero.Equal(first.Spent))

	// Categories keep insertion order, unlike income and transactions.
	snapshot := state.Snapshot()
	assert.Equal(t, first.ID, snapshot.Budgets[0].ID)
	assert.Equal(t, second.ID, snapshot.Budgets[1].ID)
}

func TestProcessPaymentRecordsDebitAndBumpsSpent(t *testing.T) {
	state, budgetRepo, _, transactionRepo := newReadyState(t)
	state.now = func() time.Time { return time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC) }

	_, err := state.AddBudget(context.Background(), domain.BudgetCategory{Name: "Food", Budget: dec("5000")})
	assert.NoError(t, err)
	_, err = budgetRepo.UpdateSpent(context.Background(), testScope, 1, dec("1000"))
	assert.NoError(t, err)
	assert.NoError(t, state.Load(context.Background()))

	transaction, err := state.ProcessPayment(context.Background(), domain.Payment{
		Amount:      dec("500"),
		Description: "lunch",
		Category:    "Food",
		Merchant:    "Cafe Noir",
	})

	assert.NoError(t, err)
	assert.True(t, dec("-500").Equal(transaction.Amount))
	assert.Equal(t, "Cafe Noir - lunch", transaction.Description)
	assert.Equal(t, "UPI", transaction.Mode)
	assert.Equal(t, "completed", transaction.Status)
	assert.Equal(t, "2026-08-20", transaction.Date)

	assert.True(t, dec("1500").Equal(budgetRepo.Categories[0].Spent))
	assert.Len(t, transactionRepo.Transactions, 1)

	snapshot := state.Snapshot()
	assert.True(t, dec("1500").Equal(snapshot.Budgets[0].Spent))
	assert.Equal(t, transaction.ID, snapshot.Transactions[0].ID)
}

func TestProcessPaymentUnknownCategoryOnlyTouchesLedger(t *testing.T) {
	state, budgetRepo, _, transactionRepo := newReadyState(t)

	_, err := state.AddBudget(context.Background(), domain.BudgetCategory{Name: "Food", Budget: dec("5000")})
	assert.NoError(t, err)

	transaction, err := state.ProcessPayment(context.Background(), domain.Payment{
		Amount:   dec("300"),
		Category: "Gadgets",
		Merchant: "Web Store",
	})

	assert.NoError(t, err)
	assert.NotZero(t, transaction.ID)
	assert.True(t, decimal.Zero.Equal(budgetRepo.Categories[0].Spent))
	assert.Len(t, transactionRepo.Transactions, 1)
}

func TestProcessPaymentDuplicateNamesBumpFirstMatch(t *testing.T) {
	state, budgetRepo, _, _ := newReadyState(t)

	first, err := state.AddBudget(context.Background(), domain.BudgetCategory{Name: "Food", Budget: dec("5000")})
	assert.NoError(t, err)
	second, err := state.AddBudget(context.Background(), domain.BudgetCategory{Name: "Food", Budget: dec("3000")})
	assert.NoError(t, err)

	_, err = state.ProcessPayment(context.Background(), domain.Payment{
		Amount:   dec("500"),
		Category: "Food",
		Merchant: "Cafe",
	})

	assert.NoError(t, err)
	for _, category := range budgetRepo.Categories {
		switch category.ID {
		case first.ID:
			assert.True(t, dec("500").Equal(category.Spent))
		case second.ID:
			assert.True(t, decimal.Zero.Equal(category.Spent))
		}
	}
}

func TestProcessPaymentPartialFailureKeepsCommittedDebit(t *testing.T) {
	state, budgetRepo, _, transactionRepo := newReadyState(t)

	_, err := state.AddBudget(context.Background(), domain.BudgetCategory{Name: "Food", Budget: dec("5000")})
	assert.NoError(t, err)
	budgetRepo.UpdateErr = errors.New("timeout")

	transaction, err := state.ProcessPayment(context.Background(), domain.Payment{
		Amount:   dec("500"),
		Category: "Food",
		Merchant: "Cafe",
	})

	assert.True(t, ledgerErrors.IsPartialFailureError(err))
	var partial *ledgerErrors.PartialFailureError
	assert.True(t, errors.As(err, &partial))
	assert.Equal(t, "transactions insert", partial.Completed)
	assert.Equal(t, "budget_categories update", partial.Failed)

	assert.NotZero(t, transaction.ID)
	assert.Len(t, transactionRepo.Transactions, 1)
	assert.True(t, decimal.Zero.Equal(budgetRepo.Categories[0].Spent))
	assert.Equal(t, transaction.ID, state.Snapshot().Transactions[0].ID)
}

func TestProcessPaymentValidation(t *testing.T) {
	state, _, _, transactionRepo := newReadyState(t)

	_, err := state.ProcessPayment(context.Background(), domain.Payment{Amount: dec("-10"), Merchant: "Cafe"})
	assert.True(t, ledgerErrors.IsValidationError(err))

	_, err = state.ProcessPayment(context.Background(), domain.Payment{Amount: dec("10")})
	assert.True(t, ledgerErrors.IsValidationError(err))

	assert.Empty(t, transactionRepo.Transactions)
}

func TestRefreshTransactionsReplacesCacheWholesale(t *testing.T) {
	state, _, _, transactionRepo := newReadyState(t)

	_, err := state.ProcessPayment(context.Background(), domain.Payment{Amount: dec("100"), Merchant: "Cafe"})
	assert.NoError(t, err)

	// A second session writes behind this cache's back.
	_, err = transactionRepo.Save(context.Background(), testScope, domain.Transaction{
		Date: "2026-08-21", Description: "Bookshop", Amount: dec("-250"), Status: "completed",
	})
	assert.NoError(t, err)

	assert.NoError(t, state.RefreshTransactions(context.Background()))

	snapshot := state.Snapshot()
	assert.Len(t, snapshot.Transactions, 2)
	ids := map[int64]bool{}
	for _, transaction := range snapshot.Transactions {
		ids[transaction.ID] = true
	}
	assert.Len(t, ids, 2)
	// Newest first after reload.
	assert.Equal(t, "Bookshop", snapshot.Transactions[0].Description)
}

func TestSummaryDerivesFromTransactionLedgerOnly(t *testing.T) {
	state, _, _, _ := newReadyState(t)

	_, err := state.AddBudget(context.Background(), domain.BudgetCategory{Name: "Food", Budget: dec("10000")})
	assert.NoError(t, err)
	_, _, err = state.AddIncome(context.Background(), domain.IncomeSource{Name: "Salary", Amount: dec("45000"), Date: "2026-08-01"})
	assert.NoError(t, err)
	_, err = state.ProcessPayment(context.Background(), domain.Payment{Amount: dec("2500"), Category: "Food", Merchant: "Market"})
	assert.NoError(t, err)

	summary := state.Summary()

	assert.True(t, dec("10000").Equal(summary.TotalBudget))
	assert.True(t, dec("2500").Equal(summary.TotalSpent))
	assert.True(t, dec("45000").Equal(summary.TotalIncome))
	assert.True(t, dec("42500").Equal(summary.CurrentBalance))
	assert.Equal(t, int64(25), summary.BudgetUsagePercentage)
	assert.Equal(t, int64(94), summary.SavingsPercentage)
}
