package vehicle

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("vehicle not found")
	ErrPlateTaken    = errors.New("plate number already exists")
	ErrMissingClient = errors.New("client id required")
)

type Vehicle struct {
	ID          uuid.UUID
	ClientID    *uuid.UUID
	PlateNumber string
	Brand       string
	Model       string
	Year        int
	VIN         string
	Color       string
	Mileage     *int64
	Notes       string
	CreatedAt   time.Time
}
