package domain

import (
	"errors"
	"time"
)

// User is the core account entity. A MEMBER always belongs to exactly one
// CLIENT via ClientID; CLIENT and ADMIN accounts never have ClientID set.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Address      string // optional
	Role         Role
	ClientID     *string // set iff Role == RoleMember; the owning CLIENT's id
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Role is the canonical three-role vocabulary. There is exactly one level of
// delegation: CLIENT -> MEMBER.
type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleAdmin || r == RoleMember
}

// Validate validates the user for persistence. Returns an error describing
// the first validation failure.
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if !u.Role.Valid() {
		return errors.New("unknown role")
	}
	if u.Role == RoleMember && u.ClientID == nil {
		return errors.New("member requires a client id")
	}
	if u.Role != RoleMember && u.ClientID != nil {
		return errors.New("client id is only valid for members")
	}
	return nil
}

// Profile is the sanitized projection of a User returned to callers.
// It never carries the password hash.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Role      Role      `json:"role"`
	ClientID  *string   `json:"clientId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Sanitized returns the user's public projection.
func (u *User) Sanitized() Profile {
	return Profile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Address:   u.Address,
		Role:      u.Role,
		ClientID:  u.ClientID,
		CreatedAt: u.CreatedAt,
	}
}
