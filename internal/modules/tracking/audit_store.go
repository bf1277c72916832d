// README: Append-only verification attempt log backed by PostgreSQL.
package tracking

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Attempt is one identity-verification try. The identifier itself is never
// stored, only which field it matched; the raw value is customer PII.
type Attempt struct {
	SessionID    string
	OrderID      int64
	MatchedField string
	Success      bool
	CreatedAt    time.Time
}

// AuditStore appends verification attempts for offline security review. The
// tracker never reads this table back; all serving state stays in memory.
type AuditStore struct {
	db *pgxpool.Pool
}

func NewAuditStore(db *pgxpool.Pool) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) Append(ctx context.Context, a Attempt) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO verification_attempts (
			session_id, order_id, matched_field, success, created_at
		) VALUES ($1, $2, $3, $4, $5)`,
		a.SessionID,
		a.OrderID,
		a.MatchedField,
		a.Success,
		a.CreatedAt,
	)
	return err
}
