package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	UsernameOrEmailTaken(ctx context.Context, username, email string) (bool, error)
	ListUsers(ctx context.Context, filter ListFilter) ([]*User, error)
	UpdateUser(ctx context.Context, u *User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	Role         Role
}

type ListFilter struct {
	Role   *Role
	Active *bool
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*User, error) {
	taken, err := s.repo.UsernameOrEmailTaken(ctx, params.Username, params.Email)
	if err != nil {
		return nil, fmt.Errorf("checking username: %w", err)
	}

	if taken {
		return nil, ErrAlreadyExists
	}

	u := &User{
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Phone:        params.Phone,
		Role:         params.Role,
		Active:       true,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.repo.GetUserByUsername(ctx, username)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*User, error) {
	return s.repo.ListUsers(ctx, filter)
}

func (s *Service) Update(ctx context.Context, u *User) error {
	return s.repo.UpdateUser(ctx, u)
}

func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return s.repo.UpdatePassword(ctx, id, passwordHash)
}

// Deactivate disables a user instead of deleting it, so documents keep a
// valid created_by reference.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetActive(ctx, id, false)
}

func (s *Service) Activate(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetActive(ctx, id, true)
}
