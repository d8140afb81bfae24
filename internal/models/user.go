package models

// User represents a user row.
type User struct {
	UserID string `db:"user_id"`
	Name   string `db:"name"`
	Email  string `db:"email"`
	AuditFields
}
