package reminders

import (
	"context"
	"testing"

	ledgerErrors "github.com/fintrackhq/fintrack/internal/ledger/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type mockReminderRepository struct {
	reminders map[string][]Reminder
	due       []DueReminder
	nextID    int64
	findErr   error
}

func newMockReminderRepository() *mockReminderRepository {
	return &mockReminderRepository{reminders: map[string][]Reminder{}}
}

func (m *mockReminderRepository) findByUser(_ context.Context, userID string) ([]Reminder, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.reminders[userID], nil
}

func (m *mockReminderRepository) findUpcoming(_ context.Context, userID string, limit int) ([]Reminder, error) {
	list := m.reminders[userID]
	var upcoming []Reminder
	for _, reminder := range list {
		if !reminder.Completed {
			upcoming = append(upcoming, reminder)
		}
		if len(upcoming) == limit {
			break
		}
	}
	return upcoming, nil
}

func (m *mockReminderRepository) findDueSoon(_ context.Context, _ int) ([]DueReminder, error) {
	return m.due, nil
}

func (m *mockReminderRepository) save(_ context.Context, userID string, reminder Reminder) (Reminder, error) {
	m.nextID++
	reminder.ID = m.nextID
	m.reminders[userID] = append(m.reminders[userID], reminder)
	return reminder, nil
}

func (m *mockReminderRepository) markCompleted(_ context.Context, userID string, reminderID int64) error {
	for i, reminder := range m.reminders[userID] {
		if reminder.ID == reminderID {
			m.reminders[userID][i].Completed = true
			return nil
		}
	}
	return ErrReminderNotFound
}

func (m *mockReminderRepository) delete(_ context.Context, userID string, reminderID int64) error {
	for i, reminder := range m.reminders[userID] {
		if reminder.ID == reminderID {
			m.reminders[userID] = append(m.reminders[userID][:i], m.reminders[userID][i+1:]...)
			return nil
		}
	}
	return ErrReminderNotFound
}

func TestCreateReminderDefaultsPriority(t *testing.T) {
	repo := newMockReminderRepository()
	service := NewService(repo)

	reminder, err := service.CreateReminder(context.Background(), "user-1", Reminder{
		Title:   "Electricity bill",
		DueDate: "2026-09-10",
	})

	assert.NoError(t, err)
	assert.NotZero(t, reminder.ID)
	assert.Equal(t, "medium", reminder.Priority)
}

func TestCreateReminderValidation(t *testing.T) {
	service := NewService(newMockReminderRepository())

	_, err := service.CreateReminder(context.Background(), "user-1", Reminder{DueDate: "2026-09-10"})
	assert.True(t, ledgerErrors.IsValidationError(err))

	_, err = service.CreateReminder(context.Background(), "user-1", Reminder{Title: "Bill", DueDate: "next week"})
	assert.True(t, ledgerErrors.IsValidationError(err))

	_, err = service.CreateReminder(context.Background(), "user-1", Reminder{
		Title:   "Bill",
		DueDate: "2026-09-10",
		Amount:  decimal.NewNullDecimal(decimal.NewFromInt(-5)),
	})
	assert.True(t, ledgerErrors.IsValidationError(err))
}

func TestGetRemindersScopedByUser(t *testing.T) {
	repo := newMockReminderRepository()
	service := NewService(repo)

	_, err := service.CreateReminder(context.Background(), "user-1", Reminder{Title: "Rent", DueDate: "2026-09-01"})
	assert.NoError(t, err)
	_, err = service.CreateReminder(context.Background(), "user-2", Reminder{Title: "Internet", DueDate: "2026-09-05"})
	assert.NoError(t, err)

	list, err := service.GetReminders(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "Rent", list[0].Title)

	empty, err := service.GetReminders(context.Background(), "user-3")
	assert.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestGetUpcomingClampsLimit(t *testing.T) {
	repo := newMockReminderRepository()
	service := NewService(repo)
	for i := 0; i < 10; i++ {
		_, err := service.CreateReminder(context.Background(), "user-1", Reminder{Title: "Bill", DueDate: "2026-09-10"})
		assert.NoError(t, err)
	}

	list, err := service.GetUpcoming(context.Background(), "user-1", 0)
	assert.NoError(t, err)
	assert.Len(t, list, 5)

	list, err = service.GetUpcoming(context.Background(), "user-1", 3)
	assert.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestCompleteAndDeleteReminder(t *testing.T) {
	repo := newMockReminderRepository()
	service := NewService(repo)

	reminder, err := service.CreateReminder(context.Background(), "user-1", Reminder{Title: "Rent", DueDate: "2026-09-01"})
	assert.NoError(t, err)

	assert.NoError(t, service.CompleteReminder(context.Background(), "user-1", reminder.ID))
	assert.True(t, repo.reminders["user-1"][0].Completed)

	// Another user cannot touch it.
	assert.ErrorIs(t, service.CompleteReminder(context.Background(), "user-2", reminder.ID), ErrReminderNotFound)
	assert.ErrorIs(t, service.DeleteReminder(context.Background(), "user-2", reminder.ID), ErrReminderNotFound)

	assert.NoError(t, service.DeleteReminder(context.Background(), "user-1", reminder.ID))
	assert.Empty(t, repo.reminders["user-1"])
}
