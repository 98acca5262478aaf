package client

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("client not found")

// Client is a workshop customer profile attached to a user account.
type Client struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	CompanyName string
	TaxID       string
	Address     string
	City        string
	State       string
	ZipCode     string
	Notes       string
	CreatedAt   time.Time

	// Loaded via JOIN on users.
	Username  string
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Active    bool
}
