package vehicle

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=vehicle
type Repository interface {
	CreateVehicle(ctx context.Context, v *Vehicle) error
	GetVehicle(ctx context.Context, id uuid.UUID) (*Vehicle, error)
	PlateExists(ctx context.Context, plateNumber string) (bool, error)
	ListVehicles(ctx context.Context, clientID *uuid.UUID) ([]*Vehicle, error)
	UpdateVehicle(ctx context.Context, v *Vehicle) error
	SetClient(ctx context.Context, id, clientID uuid.UUID) error
	DeleteVehicle(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	ClientID    *uuid.UUID
	PlateNumber string
	Brand       string
	Model       string
	Year        int
	VIN         string
	Color       string
	Mileage     *int64
	Notes       string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Vehicle, error) {
	taken, err := s.repo.PlateExists(ctx, params.PlateNumber)
	if err != nil {
		return nil, fmt.Errorf("checking plate: %w", err)
	}

	if taken {
		return nil, ErrPlateTaken
	}

	v := &Vehicle{
		ClientID:    params.ClientID,
		PlateNumber: params.PlateNumber,
		Brand:       params.Brand,
		Model:       params.Model,
		Year:        params.Year,
		VIN:         params.VIN,
		Color:       params.Color,
		Mileage:     params.Mileage,
		Notes:       params.Notes,
	}
	if err := s.repo.CreateVehicle(ctx, v); err != nil {
		return nil, err
	}

	return v, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Vehicle, error) {
	return s.repo.GetVehicle(ctx, id)
}

func (s *Service) List(ctx context.Context, clientID *uuid.UUID) ([]*Vehicle, error) {
	return s.repo.ListVehicles(ctx, clientID)
}

func (s *Service) Update(ctx context.Context, v *Vehicle) error {
	return s.repo.UpdateVehicle(ctx, v)
}

// Associate links an unowned vehicle to a client.
func (s *Service) Associate(ctx context.Context, id, clientID uuid.UUID) error {
	if clientID == uuid.Nil {
		return ErrMissingClient
	}

	return s.repo.SetClient(ctx, id, clientID)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteVehicle(ctx, id)
}
