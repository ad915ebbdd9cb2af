package domain

import "time"

// Account roles. Every account is one or the other; admin unlocks the
// account management API.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether role is a known account role.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

type Account struct {
	ID           string      `json:"id"`
	Name         string      `json:"name,omitempty"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"` // never serialized
	Role         string      `json:"role"`
	UploadedData []DataEntry `json:"uploadedData"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// DataEntry is a titled content record owned by exactly one account. Its
// lifetime is bounded by the owning account's.
type DataEntry struct {
	ID        string    `json:"id"`
	AccountID string    `json:"-"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
