package tenant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fintrackhq/fintrack/internal/ledger/domain"
	ledgerErrors "github.com/fintrackhq/fintrack/internal/ledger/errors"
)

// Resolver looks up the tenant partition bound to an authenticated user.
// Profiles are provisioned by the identity provider; right after sign-up the
// row may not exist yet, which surfaces as ErrScopeUnresolved.
type Resolver struct {
	db *sql.DB
}

func NewResolver(db *sql.DB) *Resolver {
	return &Resolver{db: db}
}

func (r *Resolver) Resolve(ctx context.Context, userID string) (domain.Scope, error) {
	var tenantID string
	err := r.db.QueryRowContext(ctx,
		`SELECT tenant_id FROM profiles WHERE user_id = $1`, userID,
	).Scan(&tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Scope{}, ledgerErrors.ErrScopeUnresolved
		}
		return domain.Scope{}, fmt.Errorf("could not resolve tenant for user %s: %v", userID, err)
	}
	return domain.Scope{UserID: userID, TenantID: tenantID}, nil
}
