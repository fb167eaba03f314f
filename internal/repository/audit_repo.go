// internal/repository/audit_repo.go
package repository

import (
	"context"

	"tokentrade/internal/domain"
)

// AuditRepository defines the interface for the append-only audit log.
type AuditRepository interface {
	// CreateAuditEntry appends an audit entry using the provided DBExecutor.
	CreateAuditEntry(ctx context.Context, q DBExecutor, entry *domain.AuditEntry) error
}
