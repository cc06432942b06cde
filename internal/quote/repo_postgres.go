package quote

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// PostgresRepo persists quotes.
//
// Expected table: quotes (breakdown JSONB, INSERT-only policy).
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Insert(ctx context.Context, q Quote) error {
	breakdown, err := json.Marshal(q.Breakdown)
	if err != nil {
		return err
	}
	const stmt = `
INSERT INTO quotes (
  id, company_id, warehouse_id, booking_type, start_date, end_date,
  requested_by, breakdown, total, currency, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`
	_, err = r.db.ExecContext(ctx, stmt,
		q.ID, q.CompanyID, q.WarehouseID, q.BookingType, q.StartDate, q.EndDate,
		q.RequestedBy, breakdown, q.Total, q.Currency, q.CreatedAt,
	)
	return err
}

func (r *PostgresRepo) List(ctx context.Context, companyID string, from, to time.Time, warehouseID string) ([]Quote, error) {
	const q = `
SELECT id, company_id, warehouse_id, booking_type, start_date, end_date,
       requested_by, breakdown, total, currency, created_at
FROM quotes
WHERE company_id = $1 AND created_at >= $2 AND created_at <= $3
  AND ($4 = '' OR warehouse_id = $4)
ORDER BY created_at
`
	rows, err := r.db.QueryContext(ctx, q, companyID, from, to, warehouseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Quote
	for rows.Next() {
		var (
			item         Quote
			breakdownRaw []byte
		)
		if err := rows.Scan(
			&item.ID, &item.CompanyID, &item.WarehouseID, &item.BookingType, &item.StartDate, &item.EndDate,
			&item.RequestedBy, &breakdownRaw, &item.Total, &item.Currency, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(breakdownRaw) > 0 {
			if err := json.Unmarshal(breakdownRaw, &item.Breakdown); err != nil {
				return nil, err
			}
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
