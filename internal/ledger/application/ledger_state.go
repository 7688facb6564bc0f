package application

import (
	"context"
	"sync"
	"time"

	"github.com/fintrackhq/fintrack/internal/ledger/domain"
	ledgerErrors "github.com/fintrackhq/fintrack/internal/ledger/errors"
	"github.com/shopspring/decimal"
)

type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unloaded"
	}
}

// Snapshot is the read-only view handed to consumers.
type Snapshot struct {
	Budgets      []domain.BudgetCategory `json:"budgets"`
	Income       []domain.IncomeSource   `json:"income"`
	Transactions []domain.Transaction    `json:"transactions"`
}

// Summary bundles the aggregate accessors for dashboard views.
type Summary struct {
	TotalBudget           decimal.Decimal `json:"total_budget"`
	TotalSpent            decimal.Decimal `json:"total_spent"`
	TotalIncome           decimal.Decimal `json:"total_income"`
	CurrentBalance        decimal.Decimal `json:"current_balance"`
	BudgetUsagePercentage int64           `json:"budget_usage_percentage"`
	SavingsPercentage     int64           `json:"savings_percentage"`
}

// LedgerState owns the session-scoped cache of the three ledger collections
// and orchestrates the compound mutations against the remote store. One
// instance exists per signed-in session; its methods serialize all writes, so
// compound operations never interleave within a session. Concurrent sessions
// are resolved last-write-wins at the store.
type LedgerState struct {
	mu    sync.RWMutex
	state State
	scope domain.Scope

	budgets      []domain.BudgetCategory
	income       []domain.IncomeSource
	transactions []domain.Transaction

	budgetRepo      domain.BudgetRepository
	incomeRepo      domain.IncomeRepository
	transactionRepo domain.TransactionRepository

	now func() time.Time
}

func NewLedgerState(
	scope domain.Scope,
	budgetRepo domain.BudgetRepository,
	incomeRepo domain.IncomeRepository,
	transactionRepo domain.TransactionRepository,
) *LedgerState {
	return &LedgerState{
		scope:           scope,
		budgetRepo:      budgetRepo,
		incomeRepo:      incomeRepo,
		transactionRepo: transactionRepo,
		now:             time.Now,
	}
}

func (s *LedgerState) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *LedgerState) Scope() domain.Scope {
	return s.scope
}

// Load pulls all three collections, most recent first, and moves the session
// to Ready. On any failure the session drops back to Unloaded.
func (s *LedgerState) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateLoading {
		s.mu.Unlock()
		return ledgerErrors.ErrNotReady
	}
	s.state = StateLoading
	s.mu.Unlock()

	budgets, err := s.budgetRepo.FindByScope(ctx, s.scope)
	if err == nil {
		var income []domain.IncomeSource
		income, err = s.incomeRepo.FindByScope(ctx, s.scope)
		if err == nil {
			var transactions []domain.Transaction
			transactions, err = s.transactionRepo.FindByScope(ctx, s.scope)
			if err == nil {
				s.mu.Lock()
				s.budgets = budgets
				s.income = income
				s.transactions = transactions
				s.state = StateReady
				s.mu.Unlock()
				return nil
			}
		}
	}

	s.mu.Lock()
	s.state = StateUnloaded
	s.mu.Unlock()
	return err
}

// Teardown drops the cache on sign-out.
func (s *LedgerState) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets = nil
	s.income = nil
	s.transactions = nil
	s.state = StateUnloaded
}

func (s *LedgerState) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Budgets:      append([]domain.BudgetCategory(nil), s.budgets...),
		Income:       append([]domain.IncomeSource(nil), s.income...),
		Transactions: append([]domain.Transaction(nil), s.transactions...),
	}
}

func (s *LedgerState) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Summary{
		TotalBudget:           TotalBudget(s.budgets),
		TotalSpent:            TotalSpent(s.transactions),
		TotalIncome:           TotalIncome(s.transactions),
		CurrentBalance:        CurrentBalance(s.transactions),
		BudgetUsagePercentage: BudgetUsagePercentage(s.budgets, s.transactions),
		SavingsPercentage:     SavingsPercentage(s.transactions),
	}
}

// AddIncome inserts the income source, then mirrors it into the transaction
// ledger. If the mirror insert fails the income record already exists
// remotely and in the cache; the typed partial failure names the half that
// committed so the caller can warn and re-sync.
func (s *LedgerState) AddIncome(ctx context.Context, source domain.IncomeSource) (domain.IncomeSource, domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guardReady(); err != nil {
		return domain.IncomeSource{}, domain.Transaction{}, err
	}
	if err := source.Validate(); err != nil {
		return domain.IncomeSource{}, domain.Transaction{}, err
	}

	savedSource, err := s.incomeRepo.Save(ctx, s.scope, source)
	if err != nil {
		return domain.IncomeSource{}, domain.Transaction{}, err
	}
	s.income = append([]domain.IncomeSource{savedSource}, s.income...)

	mirror := domain.Transaction{
		Date:        savedSource.Date,
		Description: savedSource.Name + " Credit",
		Amount:      savedSource.Amount,
		Category:    "Income",
		Mode:        "Bank Transfer",
		Status:      "completed",
	}
	savedMirror, err := s.transactionRepo.Save(ctx, s.scope, mirror)
	if err != nil {
		return savedSource, domain.Transaction{}, ledgerErrors.NewPartialFailureError(
			"income_sources insert", "transactions insert", err)
	}
	s.transactions = append([]domain.Transaction{savedMirror}, s.transactions...)

	return savedSource, savedMirror, nil
}

// AddBudget inserts a category with spent initialized to zero. Categories are
// appended, not prepended, so budget views keep a stable order.
func (s *LedgerState) AddBudget(ctx context.Context, category domain.BudgetCategory) (domain.BudgetCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guardReady(); err != nil {
		return domain.BudgetCategory{}, err
	}
	if err := category.Validate(); err != nil {
		return domain.BudgetCategory{}, err
	}
	category.Spent = decimal.Zero

	saved, err := s.budgetRepo.Save(ctx, s.scope, category)
	if err != nil {
		return domain.BudgetCategory{}, err
	}
	s.budgets = append(s.budgets, saved)
	return saved, nil
}

// ProcessPayment records the debit in the transaction ledger, then bumps the
// spent total of the first cached category whose name matches. A payment with
// no matching category is valid and only touches the ledger. Duplicate names
// resolve to the first match in cache order.
func (s *LedgerState) ProcessPayment(ctx context.Context, payment domain.Payment) (domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guardReady(); err != nil {
		return domain.Transaction{}, err
	}
	if err := payment.Validate(); err != nil {
		return domain.Transaction{}, err
	}

	debit := domain.Transaction{
		Date:        s.now().Format("2006-01-02"),
		Description: payment.Merchant + " - " + payment.Description,
		Amount:      payment.Amount.Neg(),
		Category:    payment.Category,
		Mode:        "UPI",
		Status:      "completed",
	}
	saved, err := s.transactionRepo.Save(ctx, s.scope, debit)
	if err != nil {
		return domain.Transaction{}, err
	}
	s.transactions = append([]domain.Transaction{saved}, s.transactions...)

	for i, category := range s.budgets {
		if category.Name != payment.Category {
			continue
		}
		updated, err := s.budgetRepo.UpdateSpent(ctx, s.scope, category.ID, category.Spent.Add(payment.Amount))
		if err != nil {
			return saved, ledgerErrors.NewPartialFailureError(
				"transactions insert", "budget_categories update", err)
		}
		s.budgets[i] = updated
		break
	}

	return saved, nil
}

// RefreshTransactions reloads the ledger wholesale to reconcile with
// mutations made elsewhere. No merge, last reload wins.
func (s *LedgerState) RefreshTransactions(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guardReady(); err != nil {
		return err
	}
	transactions, err := s.transactionRepo.FindByScope(ctx, s.scope)
	if err != nil {
		return err
	}
	s.transactions = transactions
	return nil
}

func (s *LedgerState) guardReady() error {
	switch s.state {
	case StateReady:
		return nil
	case StateLoading:
		return ledgerErrors.ErrNotReady
	default:
		return ledgerErrors.ErrAuthRequired
	}
}
