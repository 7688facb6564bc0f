package application

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/fintrackhq/fintrack/internal/identity"
	"github.com/fintrackhq/fintrack/internal/ledger/domain"
	ledgerErrors "github.com/fintrackhq/fintrack/internal/ledger/errors"
)

type ScopeResolver interface {
	Resolve(ctx context.Context, userID string) (domain.Scope, error)
}

// SessionBridge reacts to identity-provider session events. A sign-in
// resolves the user's tenant scope, builds a LedgerState and loads it; a
// sign-out tears the state down. Events are consumed on a single goroutine in
// arrival order.
type SessionBridge struct {
	resolver        ScopeResolver
	budgetRepo      domain.BudgetRepository
	incomeRepo      domain.IncomeRepository
	transactionRepo domain.TransactionRepository

	mu       sync.RWMutex
	sessions map[string]*LedgerState
}

func NewSessionBridge(
	resolver ScopeResolver,
	budgetRepo domain.BudgetRepository,
	incomeRepo domain.IncomeRepository,
	transactionRepo domain.TransactionRepository,
) *SessionBridge {
	return &SessionBridge{
		resolver:        resolver,
		budgetRepo:      budgetRepo,
		incomeRepo:      incomeRepo,
		transactionRepo: transactionRepo,
		sessions:        make(map[string]*LedgerState),
	}
}

// Run consumes session events until the context is cancelled or the channel
// closes. An unresolved scope is a warning, not a failure: the user stays
// signed in with no ledger loaded and a later sign-in event retries.
func (b *SessionBridge) Run(ctx context.Context, events <-chan identity.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			switch event.Kind {
			case identity.SignedIn:
				if _, err := b.SignIn(ctx, event.UserID); err != nil {
					if errors.Is(err, ledgerErrors.ErrScopeUnresolved) {
						log.Printf("No tenant scope for user %s yet, ledger not loaded", event.UserID)
					} else {
						log.Printf("Error loading ledger for user %s: %v", event.UserID, err)
					}
				}
			case identity.SignedOut:
				b.SignOut(event.UserID)
			}
		}
	}
}

func (b *SessionBridge) SignIn(ctx context.Context, userID string) (*LedgerState, error) {
	scope, err := b.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	state := NewLedgerState(scope, b.budgetRepo, b.incomeRepo, b.transactionRepo)
	if err := state.Load(ctx); err != nil {
		return nil, err
	}

	b.mu.Lock()
	if previous, exists := b.sessions[userID]; exists {
		previous.Teardown()
	}
	b.sessions[userID] = state
	b.mu.Unlock()

	return state, nil
}

func (b *SessionBridge) SignOut(userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if state, exists := b.sessions[userID]; exists {
		state.Teardown()
		delete(b.sessions, userID)
	}
}

// Ledger returns the live session state for a user, if any.
func (b *SessionBridge) Ledger(userID string) (*LedgerState, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	state, exists := b.sessions[userID]
	return state, exists
}
