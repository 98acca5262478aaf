package client

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreateClient(ctx context.Context, userID uuid.UUID) (*Client, error)
	GetClient(ctx context.Context, id uuid.UUID) (*Client, error)
	GetClientByUserID(ctx context.Context, userID uuid.UUID) (*Client, error)
	ListClients(ctx context.Context) ([]*Client, error)
	UpdateClient(ctx context.Context, c *Client) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateForUser creates the empty client profile that backs a client-role
// user account.
func (s *Service) CreateForUser(ctx context.Context, userID uuid.UUID) (*Client, error) {
	return s.repo.CreateClient(ctx, userID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Client, error) {
	return s.repo.GetClient(ctx, id)
}

func (s *Service) GetByUserID(ctx context.Context, userID uuid.UUID) (*Client, error) {
	return s.repo.GetClientByUserID(ctx, userID)
}

func (s *Service) List(ctx context.Context) ([]*Client, error) {
	return s.repo.ListClients(ctx)
}

func (s *Service) Update(ctx context.Context, c *Client) error {
	return s.repo.UpdateClient(ctx, c)
}
