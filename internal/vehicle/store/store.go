package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rcastellanos/taller/internal/vehicle"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectVehicleColumns = `
	v.id, v.client_id, v.plate_number, v.brand, v.model, v.year, v.vin,
	v.color, v.mileage, v.notes, v.created_at
`

func scanVehicle(s scanner) (*vehicle.Vehicle, error) {
	var v vehicle.Vehicle

	var vin, color, notes sql.NullString

	if err := s.Scan(
		&v.ID, &v.ClientID, &v.PlateNumber, &v.Brand, &v.Model, &v.Year, &vin,
		&color, &v.Mileage, &notes, &v.CreatedAt,
	); err != nil {
		return nil, err
	}

	v.VIN = vin.String
	v.Color = color.String
	v.Notes = notes.String

	return &v, nil
}

func (s *Store) CreateVehicle(ctx context.Context, v *vehicle.Vehicle) error {
	query := `
		INSERT INTO vehicles (client_id, plate_number, brand, model, year, vin, color, mileage, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		v.ClientID,
		v.PlateNumber,
		v.Brand,
		v.Model,
		v.Year,
		v.VIN,
		v.Color,
		v.Mileage,
		v.Notes,
	).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating vehicle: %w", err)
	}

	return nil
}

func (s *Store) GetVehicle(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	query := `SELECT ` + selectVehicleColumns + ` FROM vehicles v WHERE v.id = $1`

	v, err := scanVehicle(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, vehicle.ErrNotFound
		}

		return nil, fmt.Errorf("getting vehicle: %w", err)
	}

	return v, nil
}

func (s *Store) PlateExists(ctx context.Context, plateNumber string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM vehicles WHERE plate_number = $1)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, plateNumber).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking plate: %w", err)
	}

	return exists, nil
}

func (s *Store) ListVehicles(ctx context.Context, clientID *uuid.UUID) ([]*vehicle.Vehicle, error) {
	query := `SELECT ` + selectVehicleColumns + ` FROM vehicles v WHERE 1=1`

	var args []any

	if clientID != nil {
		query += " AND v.client_id = $1"

		args = append(args, *clientID)
	}

	query += " ORDER BY v.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []*vehicle.Vehicle

	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning vehicle: %w", err)
		}

		vehicles = append(vehicles, v)
	}

	return vehicles, rows.Err()
}

func (s *Store) UpdateVehicle(ctx context.Context, v *vehicle.Vehicle) error {
	query := `
		UPDATE vehicles
		SET client_id = $1, brand = $2, model = $3, year = $4, vin = $5,
			color = $6, mileage = $7, notes = $8
		WHERE id = $9
	`

	_, err := s.db.ExecContext(ctx, query,
		v.ClientID,
		v.Brand,
		v.Model,
		v.Year,
		v.VIN,
		v.Color,
		v.Mileage,
		v.Notes,
		v.ID,
	)
	if err != nil {
		return fmt.Errorf("updating vehicle: %w", err)
	}

	return nil
}

func (s *Store) SetClient(ctx context.Context, id, clientID uuid.UUID) error {
	query := `UPDATE vehicles SET client_id = $1 WHERE id = $2`

	_, err := s.db.ExecContext(ctx, query, clientID, id)
	if err != nil {
		return fmt.Errorf("associating vehicle: %w", err)
	}

	return nil
}

func (s *Store) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM vehicles WHERE id = $1`

	_, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting vehicle: %w", err)
	}

	return nil
}
