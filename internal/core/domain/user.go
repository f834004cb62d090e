package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User models a registered account. Identifiers are assigned monotonically
// by the store and never reused; Email is unique across all users.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the acting principal resolved from a validated token.
type Identity struct {
	UserID int64
	Role   string
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CanActOn reports whether the identity may mutate a resource owned by ownerID.
func (i Identity) CanActOn(ownerID int64) bool {
	return i.UserID == ownerID || i.IsAdmin()
}
