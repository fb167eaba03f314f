// internal/domain/audit.go
package domain

import "time"

// AuditEntry is an append-only record of a committed price change: who acted,
// a free-text description of the old and new price, and when.
type AuditEntry struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NewAuditEntry creates a new AuditEntry instance.
func NewAuditEntry(userID int64, message string) *AuditEntry {
	return &AuditEntry{
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}
