package savings

import (
	"context"
	"time"

	"github.com/fintrackhq/fintrack/internal/ledger/domain"
	ledgerErrors "github.com/fintrackhq/fintrack/internal/ledger/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Goal struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	Category      string          `json:"category"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	TargetDate    string          `json:"target_date,omitempty"`
	Priority      string          `json:"priority"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

type Service interface {
	GetGoals(ctx context.Context, scope domain.Scope) ([]Goal, error)
	CreateGoal(ctx context.Context, scope domain.Scope, goal Goal) (Goal, error)
	AddToGoal(ctx context.Context, scope domain.Scope, goalID string, amount decimal.Decimal) (Goal, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetGoals(ctx context.Context, scope domain.Scope) ([]Goal, error) {
	goals, err := s.repo.findByScope(ctx, scope)
	if err != nil {
		return nil, err
	}
	if goals == nil {
		return []Goal{}, nil
	}
	return goals, nil
}

func (s *service) CreateGoal(ctx context.Context, scope domain.Scope, goal Goal) (Goal, error) {
	if goal.Title == "" {
		return Goal{}, ledgerErrors.NewValidationError("Goal title is required")
	}
	if !goal.TargetAmount.IsPositive() {
		return Goal{}, ledgerErrors.NewValidationError("Target amount must be greater than zero")
	}
	if goal.TargetDate != "" {
		if _, err := time.Parse("2006-01-02", goal.TargetDate); err != nil {
			return Goal{}, ledgerErrors.NewValidationError("Target date must be in YYYY-MM-DD format")
		}
	}

	goal.ID = uuid.NewString()
	if goal.Category == "" {
		goal.Category = "general"
	}
	if goal.Priority == "" {
		goal.Priority = "medium"
	}
	goal.Status = "active"
	if goal.CurrentAmount.IsNegative() {
		return Goal{}, ledgerErrors.NewValidationError("Current amount must not be negative")
	}

	return s.repo.save(ctx, scope, goal)
}

func (s *service) AddToGoal(ctx context.Context, scope domain.Scope, goalID string, amount decimal.Decimal) (Goal, error) {
	if !amount.IsPositive() {
		return Goal{}, ledgerErrors.NewValidationError("Contribution must be greater than zero")
	}

	goals, err := s.repo.findByScope(ctx, scope)
	if err != nil {
		return Goal{}, err
	}
	for _, goal := range goals {
		if goal.ID == goalID {
			return s.repo.updateCurrentAmount(ctx, scope, goalID, goal.CurrentAmount.Add(amount))
		}
	}
	return Goal{}, ErrGoalNotFound
}
