package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rcastellanos/taller/internal/client"
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

const selectClientColumns = `
	c.id, c.user_id, c.company_name, c.tax_id, c.address, c.city, c.state,
	c.zip_code, c.notes, c.created_at,
	u.username, u.email, u.first_name, u.last_name, u.phone, u.active
`

func scanClient(s scanner) (*client.Client, error) {
	var c client.Client

	var companyName, taxID, address, city, state, zipCode, notes, phone sql.NullString

	if err := s.Scan(
		&c.ID, &c.UserID, &companyName, &taxID, &address, &city, &state,
		&zipCode, &notes, &c.CreatedAt,
		&c.Username, &c.Email, &c.FirstName, &c.LastName, &phone, &c.Active,
	); err != nil {
		return nil, err
	}

	c.CompanyName = companyName.String
	c.TaxID = taxID.String
	c.Address = address.String
	c.City = city.String
	c.State = state.String
	c.ZipCode = zipCode.String
	c.Notes = notes.String
	c.Phone = phone.String

	return &c, nil
}

func (s *Store) CreateClient(ctx context.Context, userID uuid.UUID) (*client.Client, error) {
	query := `
		INSERT INTO clients (user_id, created_at)
		VALUES ($1, NOW())
		RETURNING id
	`

	var id uuid.UUID
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&id); err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return s.GetClient(ctx, id)
}

func (s *Store) GetClient(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	query := `SELECT ` + selectClientColumns + `
		FROM clients c
		INNER JOIN users u ON c.user_id = u.id
		WHERE c.id = $1`

	c, err := scanClient(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, client.ErrNotFound
		}

		return nil, fmt.Errorf("getting client: %w", err)
	}

	return c, nil
}

func (s *Store) GetClientByUserID(ctx context.Context, userID uuid.UUID) (*client.Client, error) {
	query := `SELECT ` + selectClientColumns + `
		FROM clients c
		INNER JOIN users u ON c.user_id = u.id
		WHERE c.user_id = $1`

	c, err := scanClient(s.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, client.ErrNotFound
		}

		return nil, fmt.Errorf("getting client by user: %w", err)
	}

	return c, nil
}

func (s *Store) ListClients(ctx context.Context) ([]*client.Client, error) {
	query := `SELECT ` + selectClientColumns + `
		FROM clients c
		INNER JOIN users u ON c.user_id = u.id
		WHERE u.role = 'client'
		ORDER BY u.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer rows.Close()

	var clients []*client.Client

	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning client: %w", err)
		}

		clients = append(clients, c)
	}

	return clients, rows.Err()
}

func (s *Store) UpdateClient(ctx context.Context, c *client.Client) error {
	query := `
		UPDATE clients
		SET company_name = $1, tax_id = $2, address = $3, city = $4, state = $5,
			zip_code = $6, notes = $7
		WHERE id = $8
	`

	_, err := s.db.ExecContext(ctx, query,
		c.CompanyName,
		c.TaxID,
		c.Address,
		c.City,
		c.State,
		c.ZipCode,
		c.Notes,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating client: %w", err)
	}

	return nil
}
