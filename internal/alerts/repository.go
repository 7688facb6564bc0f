package alerts

import (
	"context"
	"database/sql"
	"time"

	"github.com/fintrackhq/fintrack/internal/ledger/domain"
	"github.com/google/uuid"
)

type Alert struct {
	ID        string    `json:"id"`
	AlertType string    `json:"alert_type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	ActionURL string    `json:"action_url,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type Repository interface {
	FindUnread(ctx context.Context, scope domain.Scope) ([]Alert, error)
	SaveOncePerDay(ctx context.Context, scope domain.Scope, alert Alert) error
	MarkRead(ctx context.Context, scope domain.Scope, alertID string) error
}

type alertRepository struct {
	db *sql.DB
}

func NewAlertRepository(db *sql.DB) Repository {
	return &alertRepository{db: db}
}

func (r *alertRepository) FindUnread(ctx context.Context, scope domain.Scope) ([]Alert, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, alert_type, title, message, severity, COALESCE(action_url, ''), is_read, created_at
		 FROM alerts
		 WHERE user_id = $1 AND tenant_id = $2 AND is_read = false
		 ORDER BY created_at DESC`,
		scope.UserID, scope.TenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Alert
	for rows.Next() {
		var alert Alert
		if err := rows.Scan(&alert.ID, &alert.AlertType, &alert.Title, &alert.Message,
			&alert.Severity, &alert.ActionURL, &alert.IsRead, &alert.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, alert)
	}
	return list, rows.Err()
}

// SaveOncePerDay inserts the alert unless an identical one was already
// created today, so the daily due-scan never stacks duplicates.
func (r *alertRepository) SaveOncePerDay(ctx context.Context, scope domain.Scope, alert Alert) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO alerts (id, user_id, tenant_id, alert_type, title, message, severity, action_url)
		 SELECT $1, $2, $3, $4, $5, $6, $7, $8
		 WHERE NOT EXISTS (
		     SELECT 1 FROM alerts
		     WHERE user_id = $2 AND tenant_id = $3 AND alert_type = $4 AND title = $5
		       AND created_at::date = CURRENT_DATE
		 )`,
		uuid.NewString(), scope.UserID, scope.TenantID,
		alert.AlertType, alert.Title, alert.Message, alert.Severity, alert.ActionURL,
	)
	return err
}

func (r *alertRepository) MarkRead(ctx context.Context, scope domain.Scope, alertID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE alerts SET is_read = true, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND tenant_id = $3`,
		alertID, scope.UserID, scope.TenantID,
	)
	return err
}
