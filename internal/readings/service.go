package readings

import (
	"context"
	"time"

	"github.com/fintrackhq/fintrack/internal/ledger/domain"
	ledgerErrors "github.com/fintrackhq/fintrack/internal/ledger/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Reading struct {
	ID              string              `json:"id"`
	ReadingType     string              `json:"reading_type"`
	MeterNumber     string              `json:"meter_number,omitempty"`
	CurrentReading  decimal.Decimal     `json:"current_reading"`
	PreviousReading decimal.NullDecimal `json:"previous_reading,omitempty"`
	Consumption     decimal.NullDecimal `json:"consumption,omitempty"`
	CostPerUnit     decimal.NullDecimal `json:"cost_per_unit,omitempty"`
	TotalCost       decimal.NullDecimal `json:"total_cost,omitempty"`
	ReadingDate     string              `json:"reading_date"`
	Notes           string              `json:"notes,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

// derive fills consumption and total cost from the raw meter inputs.
func (r *Reading) derive() {
	if !r.PreviousReading.Valid {
		r.Consumption = decimal.NullDecimal{}
		r.TotalCost = decimal.NullDecimal{}
		return
	}
	r.Consumption = decimal.NullDecimal{
		Decimal: r.CurrentReading.Sub(r.PreviousReading.Decimal),
		Valid:   true,
	}
	if r.CostPerUnit.Valid {
		r.TotalCost = decimal.NullDecimal{
			Decimal: r.Consumption.Decimal.Mul(r.CostPerUnit.Decimal),
			Valid:   true,
		}
	} else {
		r.TotalCost = decimal.NullDecimal{}
	}
}

func (r *Reading) validate() error {
	if r.ReadingType == "" {
		return ledgerErrors.NewValidationError("Reading type is required")
	}
	if _, err := time.Parse("2006-01-02", r.ReadingDate); err != nil {
		return ledgerErrors.NewValidationError("Reading date must be in YYYY-MM-DD format")
	}
	if r.PreviousReading.Valid && r.CurrentReading.LessThan(r.PreviousReading.Decimal) {
		return ledgerErrors.NewValidationError("Current reading must not be less than previous reading")
	}
	return nil
}

type Service interface {
	GetReadings(ctx context.Context, scope domain.Scope) ([]Reading, error)
	CreateReading(ctx context.Context, scope domain.Scope, reading Reading) (Reading, error)
	UpdateReading(ctx context.Context, scope domain.Scope, reading Reading) (Reading, error)
	DeleteReading(ctx context.Context, scope domain.Scope, readingID string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetReadings(ctx context.Context, scope domain.Scope) ([]Reading, error) {
	list, err := s.repo.findByScope(ctx, scope)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return []Reading{}, nil
	}
	return list, nil
}

func (s *service) CreateReading(ctx context.Context, scope domain.Scope, reading Reading) (Reading, error) {
	if err := reading.validate(); err != nil {
		return Reading{}, err
	}
	reading.ID = uuid.NewString()
	reading.derive()
	return s.repo.save(ctx, scope, reading)
}

func (s *service) UpdateReading(ctx context.Context, scope domain.Scope, reading Reading) (Reading, error) {
	if reading.ID == "" {
		return Reading{}, ledgerErrors.NewValidationError("Reading ID is required")
	}
	if err := reading.validate(); err != nil {
		return Reading{}, err
	}
	reading.derive()
	return s.repo.update(ctx, scope, reading)
}

func (s *service) DeleteReading(ctx context.Context, scope domain.Scope, readingID string) error {
	return s.repo.delete(ctx, scope, readingID)
}
