package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rcastellanos/taller/internal/parameter"
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

func scanParameter(s scanner) (*parameter.Parameter, error) {
	var p parameter.Parameter

	var description sql.NullString

	if err := s.Scan(&p.ID, &p.Category, &p.Key, &p.Value, &p.Type, &description, &p.UpdatedAt); err != nil {
		return nil, err
	}

	p.Description = description.String

	return &p, nil
}

const selectParameterColumns = `id, category, param_key, param_value, param_type, description, updated_at`

func (s *Store) GetParameter(ctx context.Context, key string) (*parameter.Parameter, error) {
	query := `SELECT ` + selectParameterColumns + ` FROM system_parameters WHERE param_key = $1`

	p, err := scanParameter(s.db.QueryRowContext(ctx, query, key))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, parameter.ErrNotFound
		}

		return nil, fmt.Errorf("getting parameter: %w", err)
	}

	return p, nil
}

func (s *Store) ListParameters(ctx context.Context, category string) ([]*parameter.Parameter, error) {
	query := `SELECT ` + selectParameterColumns + ` FROM system_parameters WHERE 1=1`

	var args []any

	if category != "" {
		query += " AND category = $1"

		args = append(args, category)
	}

	query += " ORDER BY category, param_key"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing parameters: %w", err)
	}
	defer rows.Close()

	var params []*parameter.Parameter

	for rows.Next() {
		p, err := scanParameter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning parameter: %w", err)
		}

		params = append(params, p)
	}

	return params, rows.Err()
}

func (s *Store) UpdateParameter(ctx context.Context, key, value string) (*parameter.Parameter, error) {
	query := `
		UPDATE system_parameters
		SET param_value = $1, updated_at = NOW()
		WHERE param_key = $2
		RETURNING ` + selectParameterColumns

	p, err := scanParameter(s.db.QueryRowContext(ctx, query, value, key))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, parameter.ErrNotFound
		}

		return nil, fmt.Errorf("updating parameter: %w", err)
	}

	return p, nil
}
