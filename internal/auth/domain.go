package auth

import (
	"time"

	"github.com/halocare/halocare-admin/internal/shared"
)

// User represents a manager account.
type User struct {
	ID           int64
	Email        string
	Name         string
	Role         string
	PasswordHash string
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Current is the session view of the user.
func (u User) Current() shared.CurrentUser {
	return shared.CurrentUser{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// NewUser is the input of Service.CreateUser.
type NewUser struct {
	Email    string `validate:"required,email"`
	Name     string `validate:"required,max=120"`
	Role     string `validate:"required,oneof=admin manager finance viewer"`
	Password string `validate:"required,min=8,max=72"`
}
