package infrastructure

import (
	"context"
	"database/sql"

	"github.com/fintrackhq/fintrack/internal/ledger/domain"
	ledgerErrors "github.com/fintrackhq/fintrack/internal/ledger/errors"
)

type IncomeRepository struct {
	db *sql.DB
}

func NewIncomeRepository(db *sql.DB) *IncomeRepository {
	return &IncomeRepository{db: db}
}

func (r *IncomeRepository) FindByScope(ctx context.Context, scope domain.Scope) ([]domain.IncomeSource, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, amount, to_char(date, 'YYYY-MM-DD'), created_at
		 FROM income_sources
		 WHERE user_id = $1 AND tenant_id = $2
		 ORDER BY created_at DESC`,
		scope.UserID, scope.TenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []domain.IncomeSource
	for rows.Next() {
		var source domain.IncomeSource
		if err := rows.Scan(&source.ID, &source.Name, &source.Amount, &source.Date, &source.CreatedAt); err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	return sources, rows.Err()
}

func (r *IncomeRepository) Save(ctx context.Context, scope domain.Scope, source domain.IncomeSource) (domain.IncomeSource, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO income_sources (user_id, tenant_id, name, amount, date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, name, amount, to_char(date, 'YYYY-MM-DD'), created_at`,
		scope.UserID, scope.TenantID, source.Name, source.Amount, source.Date,
	).Scan(&source.ID, &source.Name, &source.Amount, &source.Date, &source.CreatedAt)
	if err != nil {
		return domain.IncomeSource{}, ledgerErrors.NewRemoteWriteError("income_sources", "insert", err)
	}
	return source, nil
}
