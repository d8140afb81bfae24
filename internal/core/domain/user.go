package domain

// User owns accounts. Kept minimal: authentication and profile concerns live
// outside this service.
type User struct {
	UserID string `json:"userID"` // Primary Key (UUID)
	Name   string `json:"name"`
	Email  string `json:"email"`
	AuditFields
}
