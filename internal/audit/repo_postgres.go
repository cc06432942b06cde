package audit

import (
	"context"
	"database/sql"
)

// PostgresRepo persists audit events in the audit_events table.
// The table is INSERT-only; no update or delete statements exist here
// on purpose.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO audit_events
  (id, company_id, type, actor_user_id, actor_role, ip_address,
   warehouse_id, quote_id, payment_ref, message, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.CompanyID, e.Type, e.ActorUserID, e.ActorRole, e.IPAddress,
		e.WarehouseID, e.QuoteID, e.PaymentRef, e.Message, e.Metadata, e.CreatedAt)
	return err
}
