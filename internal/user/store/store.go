package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rcastellanos/taller/internal/user"
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

const selectUserColumns = `
	u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name,
	u.phone, u.role, u.active, u.created_at, u.updated_at
`

func scanUser(s scanner) (*user.User, error) {
	var u user.User

	var roleStr string

	var phone sql.NullString

	if err := s.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&phone, &roleStr, &u.Active, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}

	u.Phone = phone.String
	u.Role = user.Role(roleStr)

	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, first_name, last_name, phone, role, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.Phone,
		u.Role,
		u.Active,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users u WHERE u.id = $1`

	u, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users u WHERE u.username = $1`

	u, err := scanUser(s.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user by username: %w", err)
	}

	return u, nil
}

func (s *Store) UsernameOrEmailTaken(ctx context.Context, username, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)`

	var taken bool
	if err := s.db.QueryRowContext(ctx, query, username, email).Scan(&taken); err != nil {
		return false, fmt.Errorf("checking username: %w", err)
	}

	return taken, nil
}

func (s *Store) ListUsers(ctx context.Context, filter user.ListFilter) ([]*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users u WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.Role != nil {
		query += fmt.Sprintf(" AND u.role = $%d", argIdx)

		args = append(args, *filter.Role)
		argIdx++
	}

	if filter.Active != nil {
		query += fmt.Sprintf(" AND u.active = $%d", argIdx)

		args = append(args, *filter.Active)
	}

	query += " ORDER BY u.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*user.User

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}

		users = append(users, u)
	}

	return users, rows.Err()
}

func (s *Store) UpdateUser(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, phone = $4, role = $5, updated_at = NOW()
		WHERE id = $6
	`

	_, err := s.db.ExecContext(ctx, query,
		u.Email,
		u.FirstName,
		u.LastName,
		u.Phone,
		u.Role,
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}

	return nil
}

func (s *Store) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`

	_, err := s.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	return nil
}

func (s *Store) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE users SET active = $1, updated_at = NOW() WHERE id = $2`

	_, err := s.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("setting user active: %w", err)
	}

	return nil
}
