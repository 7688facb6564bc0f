package infrastructure

import (
	"context"
	"database/sql"

	"github.com/fintrackhq/fintrack/internal/ledger/domain"
	ledgerErrors "github.com/fintrackhq/fintrack/internal/ledger/errors"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) FindByScope(ctx context.Context, scope domain.Scope) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, to_char(date, 'YYYY-MM-DD'), description, amount, category, mode, status, created_at
		 FROM transactions
		 WHERE user_id = $1 AND tenant_id = $2
		 ORDER BY created_at DESC`,
		scope.UserID, scope.TenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var transaction domain.Transaction
		if err := rows.Scan(&transaction.ID, &transaction.Date, &transaction.Description, &transaction.Amount,
			&transaction.Category, &transaction.Mode, &transaction.Status, &transaction.CreatedAt); err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

func (r *TransactionRepository) Save(ctx context.Context, scope domain.Scope, transaction domain.Transaction) (domain.Transaction, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO transactions (user_id, tenant_id, date, description, amount, category, mode, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, to_char(date, 'YYYY-MM-DD'), description, amount, category, mode, status, created_at`,
		scope.UserID, scope.TenantID, transaction.Date, transaction.Description, transaction.Amount,
		transaction.Category, transaction.Mode, transaction.Status,
	).Scan(&transaction.ID, &transaction.Date, &transaction.Description, &transaction.Amount,
		&transaction.Category, &transaction.Mode, &transaction.Status, &transaction.CreatedAt)
	if err != nil {
		return domain.Transaction{}, ledgerErrors.NewRemoteWriteError("transactions", "insert", err)
	}
	return transaction, nil
}
