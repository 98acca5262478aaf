package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("username or email already exists")
)

// Role controls route-level authorization.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleReceptionist Role = "receptionist"
	RoleMechanic     Role = "mechanic"
	RoleClient       Role = "client"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleReceptionist, RoleMechanic, RoleClient:
		return true
	}

	return false
}

type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
