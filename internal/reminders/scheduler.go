package reminders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fintrackhq/fintrack/internal/alerts"
	"github.com/fintrackhq/fintrack/internal/ledger/domain"
	ledgerErrors "github.com/fintrackhq/fintrack/internal/ledger/errors"
)

const dueSoonWindowDays = 3

type ScopeResolver interface {
	Resolve(ctx context.Context, userID string) (domain.Scope, error)
}

// DueScanner raises an alert for every uncompleted reminder coming due within
// the next few days. It runs from a daily cron job in main.
type DueScanner struct {
	repo      Repository
	resolver  ScopeResolver
	alertRepo alerts.Repository
}

func NewDueScanner(repo Repository, resolver ScopeResolver, alertRepo alerts.Repository) *DueScanner {
	return &DueScanner{repo: repo, resolver: resolver, alertRepo: alertRepo}
}

func (s *DueScanner) Scan(ctx context.Context) error {
	due, err := s.repo.findDueSoon(ctx, dueSoonWindowDays)
	if err != nil {
		return err
	}

	var failures int
	for _, entry := range due {
		scope, err := s.resolver.Resolve(ctx, entry.UserID)
		if err != nil {
			if errors.Is(err, ledgerErrors.ErrScopeUnresolved) {
				// Reminder owner has no profile yet, nowhere to file the alert.
				continue
			}
			log.Printf("Error resolving scope for reminder %d: %v", entry.ID, err)
			failures++
			continue
		}

		alert := alerts.Alert{
			AlertType: "bill_due",
			Title:     entry.Title,
			Message:   fmt.Sprintf("%q is due on %s", entry.Title, entry.DueDate),
			Severity:  severityFor(entry.DueDate),
			ActionURL: "/reminders",
		}
		if err := s.alertRepo.SaveOncePerDay(ctx, scope, alert); err != nil {
			log.Printf("Error saving alert for reminder %d: %v", entry.ID, err)
			failures++
		}
	}

	if failures > 0 {
		return fmt.Errorf("due scan finished with %d failures", failures)
	}
	return nil
}

func severityFor(dueDate string) string {
	due, err := time.Parse("2006-01-02", dueDate)
	if err != nil {
		return "medium"
	}
	if time.Until(due) <= 24*time.Hour {
		return "high"
	}
	return "medium"
}
