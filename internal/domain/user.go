// internal/domain/user.go
package domain

import "time"

// User represents a registered account holder.
type User struct {
	ID           int64     `db:"id" json:"id"`
	FullName     string    `db:"full_name" json:"full_name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"` // bcrypt hash, never serialized
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// NewUser creates a new User instance.
func NewUser(fullName, email, passwordHash string) *User {
	return &User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
}
