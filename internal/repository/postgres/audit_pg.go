// internal/repository/postgres/audit_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tokentrade/internal/domain"
	"tokentrade/internal/repository"
)

// AuditRepository implements repository.AuditRepository for PostgreSQL.
type AuditRepository struct {
	// Stateless; methods receive a DBExecutor per call.
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *sqlx.DB) repository.AuditRepository {
	return &AuditRepository{}
}

// CreateAuditEntry appends an audit entry using the provided DBExecutor.
func (r *AuditRepository) CreateAuditEntry(ctx context.Context, q repository.DBExecutor, entry *domain.AuditEntry) error {
	query := `INSERT INTO audit_log (user_id, message, created_at)
              VALUES ($1, $2, $3) RETURNING id`
	err := q.QueryRowContext(ctx, query, entry.UserID, entry.Message, entry.CreatedAt).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}
	return nil
}
