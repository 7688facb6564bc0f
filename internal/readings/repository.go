package readings

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fintrackhq/fintrack/internal/ledger/domain"
)

var ErrReadingNotFound = errors.New("reading not found")

type Repository interface {
	findByScope(ctx context.Context, scope domain.Scope) ([]Reading, error)
	save(ctx context.Context, scope domain.Scope, reading Reading) (Reading, error)
	update(ctx context.Context, scope domain.Scope, reading Reading) (Reading, error)
	delete(ctx context.Context, scope domain.Scope, readingID string) error
}

type readingRepository struct {
	db *sql.DB
}

func NewReadingRepository(db *sql.DB) Repository {
	return &readingRepository{db: db}
}

const readingColumns = `id, reading_type, COALESCE(meter_number, ''), current_reading,
		previous_reading, consumption, cost_per_unit, total_cost,
		to_char(reading_date, 'YYYY-MM-DD'), COALESCE(notes, ''), created_at`

func (r *readingRepository) findByScope(ctx context.Context, scope domain.Scope) ([]Reading, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+readingColumns+`
		 FROM readings
		 WHERE user_id = $1 AND tenant_id = $2
		 ORDER BY reading_date DESC`,
		scope.UserID, scope.TenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Reading
	for rows.Next() {
		var reading Reading
		if err := scanReading(rows, &reading); err != nil {
			return nil, err
		}
		list = append(list, reading)
	}
	return list, rows.Err()
}

func (r *readingRepository) save(ctx context.Context, scope domain.Scope, reading Reading) (Reading, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO readings (id, user_id, tenant_id, reading_type, meter_number, current_reading,
		                       previous_reading, consumption, cost_per_unit, total_cost, reading_date, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING created_at`,
		reading.ID, scope.UserID, scope.TenantID, reading.ReadingType, reading.MeterNumber,
		reading.CurrentReading, reading.PreviousReading, reading.Consumption,
		reading.CostPerUnit, reading.TotalCost, reading.ReadingDate, reading.Notes,
	).Scan(&reading.CreatedAt)
	if err != nil {
		return Reading{}, err
	}
	return reading, nil
}

func (r *readingRepository) update(ctx context.Context, scope domain.Scope, reading Reading) (Reading, error) {
	err := r.db.QueryRowContext(ctx,
		`UPDATE readings
		 SET reading_type = $1, meter_number = $2, current_reading = $3, previous_reading = $4,
		     consumption = $5, cost_per_unit = $6, total_cost = $7, reading_date = $8, notes = $9,
		     updated_at = NOW()
		 WHERE id = $10 AND user_id = $11 AND tenant_id = $12
		 RETURNING created_at`,
		reading.ReadingType, reading.MeterNumber, reading.CurrentReading, reading.PreviousReading,
		reading.Consumption, reading.CostPerUnit, reading.TotalCost, reading.ReadingDate, reading.Notes,
		reading.ID, scope.UserID, scope.TenantID,
	).Scan(&reading.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Reading{}, ErrReadingNotFound
		}
		return Reading{}, err
	}
	return reading, nil
}

func (r *readingRepository) delete(ctx context.Context, scope domain.Scope, readingID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM readings WHERE id = $1 AND user_id = $2 AND tenant_id = $3`,
		readingID, scope.UserID, scope.TenantID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrReadingNotFound
	}
	return nil
}

func scanReading(rows *sql.Rows, reading *Reading) error {
	return rows.Scan(&reading.ID, &reading.ReadingType, &reading.MeterNumber, &reading.CurrentReading,
		&reading.PreviousReading, &reading.Consumption, &reading.CostPerUnit, &reading.TotalCost,
		&reading.ReadingDate, &reading.Notes, &reading.CreatedAt)
}
