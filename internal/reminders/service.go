package reminders

import (
	"context"
	"time"

	ledgerErrors "github.com/fintrackhq/fintrack/internal/ledger/errors"
	"github.com/shopspring/decimal"
)

type Reminder struct {
	ID          int64               `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Category    string              `json:"category,omitempty"`
	Amount      decimal.NullDecimal `json:"amount,omitempty"`
	DueDate     string              `json:"due_date"`
	Priority    string              `json:"priority"`
	Completed   bool                `json:"completed"`
	CreatedAt   time.Time           `json:"created_at"`
}

// DueReminder is a reminder joined with its owner, used by the due-scan.
type DueReminder struct {
	UserID string
	Reminder
}

type Service interface {
	GetReminders(ctx context.Context, userID string) ([]Reminder, error)
	GetUpcoming(ctx context.Context, userID string, limit int) ([]Reminder, error)
	CreateReminder(ctx context.Context, userID string, reminder Reminder) (Reminder, error)
	CompleteReminder(ctx context.Context, userID string, reminderID int64) error
	DeleteReminder(ctx context.Context, userID string, reminderID int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetReminders(ctx context.Context, userID string) ([]Reminder, error) {
	list, err := s.repo.findByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return []Reminder{}, nil
	}
	return list, nil
}

func (s *service) GetUpcoming(ctx context.Context, userID string, limit int) ([]Reminder, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}
	list, err := s.repo.findUpcoming(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return []Reminder{}, nil
	}
	return list, nil
}

func (s *service) CreateReminder(ctx context.Context, userID string, reminder Reminder) (Reminder, error) {
	if reminder.Title == "" {
		return Reminder{}, ledgerErrors.NewValidationError("Reminder title is required")
	}
	if _, err := time.Parse("2006-01-02", reminder.DueDate); err != nil {
		return Reminder{}, ledgerErrors.NewValidationError("Due date must be in YYYY-MM-DD format")
	}
	if reminder.Amount.Valid && reminder.Amount.Decimal.IsNegative() {
		return Reminder{}, ledgerErrors.NewValidationError("Amount must not be negative")
	}
	if reminder.Priority == "" {
		reminder.Priority = "medium"
	}
	return s.repo.save(ctx, userID, reminder)
}

func (s *service) CompleteReminder(ctx context.Context, userID string, reminderID int64) error {
	return s.repo.markCompleted(ctx, userID, reminderID)
}

func (s *service) DeleteReminder(ctx context.Context, userID string, reminderID int64) error {
	return s.repo.delete(ctx, userID, reminderID)
}
