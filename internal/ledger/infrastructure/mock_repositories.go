package infrastructure

import (
	"context"
	"errors"
	"time"

	"github.com/fintrackhq/fintrack/internal/ledger/domain"
	ledgerErrors "github.com/fintrackhq/fintrack/internal/ledger/errors"
	"github.com/shopspring/decimal"
)

var ErrMockNotFound = errors.New("record not found")

// In-memory repositories used by application and handler tests. Records are
// stored oldest first and listed newest first, mirroring the created_at DESC
// ordering of the Postgres repositories.

type MockBudgetRepository struct {
	Categories []domain.BudgetCategory
	FindErr    error
	SaveErr    error
	UpdateErr  error
	nextID     int64
}

func (m *MockBudgetRepository) FindByScope(_ context.Context, _ domain.Scope) ([]domain.BudgetCategory, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	return reversed(m.Categories), nil
}

func (m *MockBudgetRepository) Save(_ context.Context, _ domain.Scope, category domain.BudgetCategory) (domain.BudgetCategory, error) {
	if m.SaveErr != nil {
		return domain.BudgetCategory{}, ledgerErrors.NewRemoteWriteError("budget_categories", "insert", m.SaveErr)
	}
	m.nextID++
	category.ID = m.nextID
	category.CreatedAt = time.Now().Add(time.Duration(m.nextID) * time.Millisecond)
	m.Categories = append(m.Categories, category)
	return category, nil
}

func (m *MockBudgetRepository) UpdateSpent(_ context.Context, _ domain.Scope, categoryID int64, spent decimal.Decimal) (domain.BudgetCategory, error) {
	if m.UpdateErr != nil {
		return domain.BudgetCategory{}, ledgerErrors.NewRemoteWriteError("budget_categories", "update", m.UpdateErr)
	}
	for i, category := range m.Categories {
		if category.ID == categoryID {
			m.Categories[i].Spent = spent
			return m.Categories[i], nil
		}
	}
	return domain.BudgetCategory{}, ledgerErrors.NewRemoteWriteError("budget_categories", "update", ErrMockNotFound)
}

type MockIncomeRepository struct {
	Sources []domain.IncomeSource
	FindErr error
	SaveErr error
	nextID  int64
}

func (m *MockIncomeRepository) FindByScope(_ context.Context, _ domain.Scope) ([]domain.IncomeSource, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	return reversed(m.Sources), nil
}

func (m *MockIncomeRepository) Save(_ context.Context, _ domain.Scope, source domain.IncomeSource) (domain.IncomeSource, error) {
	if m.SaveErr != nil {
		return domain.IncomeSource{}, ledgerErrors.NewRemoteWriteError("income_sources", "insert", m.SaveErr)
	}
	m.nextID++
	source.ID = m.nextID
	source.CreatedAt = time.Now().Add(time.Duration(m.nextID) * time.Millisecond)
	m.Sources = append(m.Sources, source)
	return source, nil
}

type MockTransactionRepository struct {
	Transactions []domain.Transaction
	FindErr      error
	SaveErr      error
	nextID       int64
}

func (m *MockTransactionRepository) FindByScope(_ context.Context, _ domain.Scope) ([]domain.Transaction, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	return reversed(m.Transactions), nil
}

func (m *MockTransactionRepository) Save(_ context.Context, _ domain.Scope, transaction domain.Transaction) (domain.Transaction, error) {
	if m.SaveErr != nil {
		return domain.Transaction{}, ledgerErrors.NewRemoteWriteError("transactions", "insert", m.SaveErr)
	}
	m.nextID++
	transaction.ID = m.nextID
	transaction.CreatedAt = time.Now().Add(time.Duration(m.nextID) * time.Millisecond)
	m.Transactions = append(m.Transactions, transaction)
	return transaction, nil
}

func reversed[T any](records []T) []T {
	out := make([]T, len(records))
	for i, record := range records {
		out[len(records)-1-i] = record
	}
	return out
}
